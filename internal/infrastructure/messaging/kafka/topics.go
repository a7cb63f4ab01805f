// Package kafka publishes calculation lifecycle events for downstream
// consumers such as docketing dashboards and notification pipelines.
package kafka

import (
	"encoding/json"
	"time"
)

// Topic constants.
const (
	TopicDeadlineComputed = "deadline.computed"
	TopicPackReloaded     = "rulepack.reloaded"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DeadlineComputedPayload describes one completed calculation.
type DeadlineComputedPayload struct {
	AuditID       string    `json:"audit_id,omitempty"`
	Jurisdiction  string    `json:"jurisdiction"`
	Event         string    `json:"event"`
	BaseDate      string    `json:"base_date"`
	ServiceMethod string    `json:"service_method"`
	DeadlineCount int       `json:"deadline_count"`
	ComputedAt    time.Time `json:"computed_at"`
}

// PackReloadedPayload describes a completed hot reload of the rule packs.
type PackReloadedPayload struct {
	Jurisdictions []string  `json:"jurisdictions"`
	ReloadedAt    time.Time `json:"reloaded_at"`
}
