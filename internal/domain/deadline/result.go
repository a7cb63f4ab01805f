package deadline

// ─────────────────────────────────────────────────────────────────────────────
// Calculation result shapes
// ─────────────────────────────────────────────────────────────────────────────

// Entry is one resolved deadline within a calculation result.  The date is a
// naive civil datetime rendered in ISO-8601 without a zone designator; the
// remaining fields are carried verbatim from the deadline spec.
type Entry struct {
	Date         string  `json:"date"`
	Cite         string  `json:"cite"`
	Notes        string  `json:"notes,omitempty"`
	LastReviewed string  `json:"last_reviewed,omitempty"`
	Trace        *string `json:"trace"`
}

// PackMetadata echoes the loaded pack's authoring metadata into every result
// so an auditor can tie an output to the exact rule document that produced it.
type PackMetadata struct {
	State       string `json:"state"`
	DateCreated string `json:"date_created"`
	LastUpdated string `json:"last_updated"`
	Note        string `json:"note,omitempty"`
	PackPath    string `json:"pack_path"`
}

// Result is the complete output of one Calculate call.  Identical inputs
// against an identical holiday provider always produce a byte-identical
// serialized Result; map keys sort deterministically under encoding/json.
type Result struct {
	Jurisdiction  string           `json:"jurisdiction"`
	Event         string           `json:"event"`
	BaseDate      string           `json:"base_date"`
	ServiceMethod string           `json:"service_method"`
	SchemaVersion string           `json:"schema_version"`
	Source        string           `json:"source"`
	Metadata      PackMetadata     `json:"metadata"`
	Deadlines     map[string]Entry `json:"deadlines"`
}
