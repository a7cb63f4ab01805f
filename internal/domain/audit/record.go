// Package audit defines the persisted calculation audit trail: one record per
// successful Calculate call, carrying enough provenance to reproduce the
// result byte for byte later.
package audit

import (
	"context"
	"time"
)

// Record is one audited calculation.
type Record struct {
	ID            string    `json:"id"`
	Jurisdiction  string    `json:"jurisdiction"`
	Event         string    `json:"event"`
	BaseDate      string    `json:"base_date"`
	ServiceMethod string    `json:"service_method"`
	SchemaVersion string    `json:"schema_version"`
	PackPath      string    `json:"pack_path"`
	ResultJSON    []byte    `json:"result_json"`
	CreatedAt     time.Time `json:"created_at"`
}

// Filter narrows List queries.  Zero-value fields match everything.
type Filter struct {
	Jurisdiction string
	Event        string
	Limit        int
	Offset       int
}

// Repository persists and retrieves audit records.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, f Filter) ([]*Record, error)
}
