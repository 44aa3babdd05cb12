package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/contact-service/internal/auth"
	"github.com/psds-microservice/contact-service/internal/errs"
	"github.com/psds-microservice/contact-service/internal/model"
	"github.com/psds-microservice/contact-service/internal/service"
	"github.com/psds-microservice/contact-service/internal/validation"
	"github.com/rs/zerolog"
)

type MessageHandler struct {
	svc service.MessageServicer
	log zerolog.Logger
}

func NewMessageHandler(svc service.MessageServicer, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log}
}

type createMessageRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Body     string `json:"message" validate:"required,max=2000"`
	Category string `json:"category" validate:"omitempty,oneof=general support sales partnership complaint other"`
}

// createMessageResponse deliberately echoes only a minimal projection; the
// submitted email and body are never reflected back.
type createMessageResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create handles POST /messages, the public contact-form submission.
func (h *MessageHandler) Create(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verrs := validation.Struct(&req); verrs != nil {
		respondValidation(c, verrs)
		return
	}

	m := &model.Message{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   req.Subject,
		Body:      req.Body,
		Category:  model.MessageCategory(req.Category),
		Priority:  service.AutoPriority(req.Subject, req.Body, model.MessageCategory(req.Category)),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := h.svc.Create(c.Request.Context(), m); err != nil {
		h.internalError(c, err, "create message")
		return
	}
	respondData(c, http.StatusCreated,
		"Your message has been sent successfully. We will get back to you soon.",
		createMessageResponse{ID: m.ID, Name: m.Name, Subject: m.Subject, CreatedAt: m.CreatedAt})
}

type listMessagesQuery struct {
	Page     int    `form:"page,default=1" json:"page" validate:"gte=1"`
	Limit    int    `form:"limit,default=20" json:"limit" validate:"gte=1,lte=100"`
	Category string `form:"category" json:"category" validate:"omitempty,oneof=general support sales partnership complaint other"`
	Priority string `form:"priority" json:"priority" validate:"omitempty,oneof=low medium high"`
	Search   string `form:"search" json:"search" validate:"omitempty,max=100"`
	IsRead   *bool  `form:"isRead" json:"isRead"`
	Replied  *bool  `form:"replied" json:"replied"`
}

// List handles GET /messages. The page honors the filters; the stats block
// always covers the whole inbox.
func (h *MessageHandler) List(c *gin.Context) {
	var q listMessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if verrs := validation.Struct(&q); verrs != nil {
		respondValidation(c, verrs)
		return
	}

	filter := service.MessageFilter{
		Category: q.Category,
		Priority: q.Priority,
		IsRead:   q.IsRead,
		Replied:  q.Replied,
		Search:   q.Search,
	}
	items, total, err := h.svc.List(c.Request.Context(), filter, q.Page, q.Limit)
	if err != nil {
		h.internalError(c, err, "list messages")
		return
	}
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "inbox stats")
		return
	}
	if items == nil {
		items = []model.Message{}
	}
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	respondList(c, items, &Pagination{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}, stats)
}

// Get handles GET /messages/:id. Reading an unread message marks it read and
// stamps readAt in the same request.
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	m, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.messageError(c, err, "get message")
		return
	}
	respondData(c, http.StatusOK, "", m)
}

type updateMessageRequest struct {
	IsRead   *bool  `json:"isRead"`
	Replied  *bool  `json:"replied"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category string `json:"category" validate:"omitempty,oneof=general support sales partnership complaint other"`
}

func (h *MessageHandler) Update(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	var req updateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verrs := validation.Struct(&req); verrs != nil {
		respondValidation(c, verrs)
		return
	}
	m, err := h.svc.Update(c.Request.Context(), id, service.MessageChanges{
		IsRead:   req.IsRead,
		Replied:  req.Replied,
		Priority: req.Priority,
		Category: req.Category,
	})
	if err != nil {
		h.messageError(c, err, "update message")
		return
	}
	respondData(c, http.StatusOK, "Message updated successfully", m)
}

type addNoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

func (h *MessageHandler) AddNote(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verrs := validation.Struct(&req); verrs != nil {
		respondValidation(c, verrs)
		return
	}
	claims, okClaims := auth.ClaimsFrom(c)
	if !okClaims {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	note := model.MessageNote{
		Content: req.Content,
		AddedBy: model.NoteAuthor{ID: claims.UserID, Email: claims.Email},
		AddedAt: time.Now(),
	}
	m, err := h.svc.AddNote(c.Request.Context(), id, note)
	if err != nil {
		h.messageError(c, err, "add note")
		return
	}
	respondData(c, http.StatusOK, "Note added successfully", m)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.messageError(c, err, "delete message")
		return
	}
	respondMessage(c, "Message deleted successfully")
}

// MarkRead handles PUT /messages/:id/mark-read. Idempotent: the readAt stamp
// is only ever written on the first transition.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	m, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		h.messageError(c, err, "mark read")
		return
	}
	respondData(c, http.StatusOK, "Message marked as read", m)
}

// messageID parses the :id param. A malformed id is a 400, distinct from the
// 404 of a well-formed id with no record.
func (h *MessageHandler) messageID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid message id")
		return 0, false
	}
	return id, true
}

func (h *MessageHandler) messageError(c *gin.Context, err error, op string) {
	if errors.Is(err, errs.ErrMessageNotFound) {
		respondError(c, http.StatusNotFound, "Message not found")
		return
	}
	h.internalError(c, err, op)
}

func (h *MessageHandler) internalError(c *gin.Context, err error, op string) {
	h.log.Error().Err(err).Str("op", op).Msg("message handler")
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
