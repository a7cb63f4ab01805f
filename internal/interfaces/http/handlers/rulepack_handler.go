package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/bginsber/docketcalc/internal/application/docket"
	"github.com/bginsber/docketcalc/internal/domain/rulepack"
)

// RulePackHandler exposes the loaded rule packs for inspection.
type RulePackHandler struct {
	service *docket.Service
}

// NewRulePackHandler wires the handler to the application service.
func NewRulePackHandler(service *docket.Service) *RulePackHandler {
	return &RulePackHandler{service: service}
}

// JurisdictionSummary is one row of the pack listing.
type JurisdictionSummary struct {
	Jurisdiction  string   `json:"jurisdiction"`
	SchemaVersion string   `json:"schema_version"`
	LastUpdated   string   `json:"last_updated"`
	Source        string   `json:"source"`
	Events        []string `json:"events"`
}

// List handles GET /api/v1/rulepacks.
func (h *RulePackHandler) List(c *gin.Context) {
	jurisdictions := h.service.Jurisdictions()
	out := make([]JurisdictionSummary, 0, len(jurisdictions))
	for _, j := range jurisdictions {
		rec, err := h.service.Pack(j)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, summarize(rec.Pack))
	}
	respond(c, http.StatusOK, out)
}

// PackDetail is the full pack document plus its provenance.
type PackDetail struct {
	Pack       *rulepack.RulePack `json:"pack"`
	SourcePath string             `json:"source_path"`
}

// Show handles GET /api/v1/rulepacks/:jurisdiction.
func (h *RulePackHandler) Show(c *gin.Context) {
	rec, err := h.service.Pack(c.Param("jurisdiction"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, PackDetail{Pack: rec.Pack, SourcePath: rec.SourcePath})
}

func summarize(p *rulepack.RulePack) JurisdictionSummary {
	events := make([]string, 0, len(p.Events))
	for name := range p.Events {
		events = append(events, name)
	}
	sort.Strings(events)
	return JurisdictionSummary{
		Jurisdiction:  p.State,
		SchemaVersion: p.SchemaVersion,
		LastUpdated:   p.LastUpdated,
		Source:        p.Source,
		Events:        events,
	}
}
