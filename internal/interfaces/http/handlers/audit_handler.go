package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bginsber/docketcalc/internal/domain/audit"
)

// AuditHandler exposes the persisted calculation audit trail.
type AuditHandler struct {
	repo audit.Repository
}

// NewAuditHandler wires the handler to the audit repository.
func NewAuditHandler(repo audit.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List handles GET /api/v1/audit.
func (h *AuditHandler) List(c *gin.Context) {
	f := audit.Filter{
		Jurisdiction: c.Query("jurisdiction"),
		Event:        c.Query("event"),
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}

	records, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []*audit.Record{}
	}
	respond(c, http.StatusOK, records)
}

// Show handles GET /api/v1/audit/:id.
func (h *AuditHandler) Show(c *gin.Context) {
	rec, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, rec)
}
