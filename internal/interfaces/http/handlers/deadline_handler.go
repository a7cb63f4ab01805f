package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bginsber/docketcalc/internal/application/docket"
	"github.com/bginsber/docketcalc/internal/domain/deadline"
)

// DeadlineHandler serves calculation requests.
type DeadlineHandler struct {
	service *docket.Service
}

// NewDeadlineHandler wires the handler to the application service.
func NewDeadlineHandler(service *docket.Service) *DeadlineHandler {
	return &DeadlineHandler{service: service}
}

// CalculateRequest is the JSON body of POST /api/v1/deadlines/calculate.
type CalculateRequest struct {
	Jurisdiction  string `json:"jurisdiction" binding:"required"`
	Event         string `json:"event" binding:"required"`
	BaseDate      string `json:"base_date" binding:"required"`
	ServiceMethod string `json:"service_method"`
	Explain       bool   `json:"explain"`
}

// Calculate handles POST /api/v1/deadlines/calculate.
func (h *DeadlineHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "request body is not a valid calculation request")
		return
	}

	base, err := time.ParseInLocation("2006-01-02", req.BaseDate, time.UTC)
	if err != nil {
		respondBadRequest(c, "base_date must be formatted YYYY-MM-DD")
		return
	}

	method := deadline.ServiceMethod(req.ServiceMethod)
	if req.ServiceMethod == "" {
		method = deadline.ServicePersonal
	}

	result, err := h.service.Calculate(c.Request.Context(), deadline.Request{
		Jurisdiction:  req.Jurisdiction,
		Event:         req.Event,
		BaseDate:      base,
		ServiceMethod: method,
		Explain:       req.Explain,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// ServiceMethods handles GET /api/v1/deadlines/service-methods.
func (h *DeadlineHandler) ServiceMethods(c *gin.Context) {
	respond(c, http.StatusOK, deadline.ServiceMethods())
}
