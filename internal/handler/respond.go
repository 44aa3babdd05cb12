package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/contact-service/internal/service"
	"github.com/psds-microservice/contact-service/internal/validation"
)

// Pagination describes the page of a filtered list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// envelope is the uniform response wrapper of every endpoint.
type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Data       interface{}         `json:"data,omitempty"`
	Errors     validation.Errors   `json:"errors,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Stats      *service.InboxStats `json:"stats,omitempty"`
}

func respondData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message})
}

func respondList(c *gin.Context, data interface{}, p *Pagination, stats *service.InboxStats) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: p, Stats: stats})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

func respondValidation(c *gin.Context, errs validation.Errors) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}
