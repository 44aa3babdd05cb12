package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/contact-service/internal/registry"
	"github.com/psds-microservice/contact-service/internal/validation"
)

type ContactMethodHandler struct {
	reg *registry.Registry
}

func NewContactMethodHandler(reg *registry.Registry) *ContactMethodHandler {
	return &ContactMethodHandler{reg: reg}
}

// List handles GET /contact. The optional isActive query narrows the result;
// anything other than true/false is ignored.
func (h *ContactMethodHandler) List(c *gin.Context) {
	var isActive *bool
	switch c.Query("isActive") {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	}
	respondData(c, http.StatusOK, "", h.reg.List(isActive))
}

func (h *ContactMethodHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact method id")
		return
	}
	m, ok := h.reg.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "Contact method not found")
		return
	}
	respondData(c, http.StatusOK, "", m)
}

type createContactMethodRequest struct {
	Type        string  `json:"type" validate:"required,max=50"`
	Label       string  `json:"label" validate:"required,max=100"`
	Value       string  `json:"value" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
	Order       int     `json:"order" validate:"omitempty,gte=1"`
}

func (h *ContactMethodHandler) Create(c *gin.Context) {
	var req createContactMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Struct(&req); errs != nil {
		respondValidation(c, errs)
		return
	}
	m := h.reg.Create(registry.CreateParams{
		Type:        req.Type,
		Label:       req.Label,
		Value:       req.Value,
		Description: req.Description,
		IsActive:    req.IsActive,
		Order:       req.Order,
	})
	respondData(c, http.StatusCreated, "Contact method created successfully", m)
}

// updateContactMethodRequest keeps the historical partial-update semantics:
// type/label/value apply only when non-empty and order only when positive,
// while description and isActive apply whenever the key is present in the
// body, including "" and false.
type updateContactMethodRequest struct {
	Type        string  `json:"type" validate:"omitempty,max=50"`
	Label       string  `json:"label" validate:"omitempty,max=100"`
	Value       string  `json:"value" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
	Order       int     `json:"order" validate:"omitempty,gte=1"`
}

func (h *ContactMethodHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact method id")
		return
	}
	var req updateContactMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Struct(&req); errs != nil {
		respondValidation(c, errs)
		return
	}
	m, ok := h.reg.Update(id, registry.UpdateParams{
		Type:        req.Type,
		Label:       req.Label,
		Value:       req.Value,
		Description: req.Description,
		IsActive:    req.IsActive,
		Order:       req.Order,
	})
	if !ok {
		respondError(c, http.StatusNotFound, "Contact method not found")
		return
	}
	respondData(c, http.StatusOK, "Contact method updated successfully", m)
}

func (h *ContactMethodHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact method id")
		return
	}
	if !h.reg.Delete(id) {
		respondError(c, http.StatusNotFound, "Contact method not found")
		return
	}
	respondMessage(c, "Contact method deleted successfully")
}

func (h *ContactMethodHandler) Toggle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact method id")
		return
	}
	m, ok := h.reg.ToggleActive(id)
	if !ok {
		respondError(c, http.StatusNotFound, "Contact method not found")
		return
	}
	state := "deactivated"
	if m.IsActive {
		state = "activated"
	}
	respondData(c, http.StatusOK, "Contact method "+state+" successfully", m)
}

type reorderRequest struct {
	Orders []reorderPair `json:"orders" validate:"required,min=1,dive"`
}

type reorderPair struct {
	ID    int `json:"id" validate:"required"`
	Order int `json:"order" validate:"required,gte=1"`
}

// Reorder handles PUT /contact/reorder. Unknown ids are skipped on purpose;
// the response carries the whole re-sorted collection.
func (h *ContactMethodHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Struct(&req); errs != nil {
		respondValidation(c, errs)
		return
	}
	orders := make([]registry.OrderUpdate, len(req.Orders))
	for i, o := range req.Orders {
		orders[i] = registry.OrderUpdate{ID: o.ID, Order: o.Order}
	}
	respondData(c, http.StatusOK, "Contact methods reordered successfully", h.reg.Reorder(orders))
}
