package models

import (
	"time"
)

// Audit carries the bookkeeping fields shared by every record.
type Audit struct {
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// AuditFields gives the lifecycle pipeline access to the embedded audit
// block of any record.
func (a *Audit) AuditFields() *Audit {
	return a
}

// Audited is implemented by every record type through the embedded Audit.
type Audited interface {
	AuditFields() *Audit
}
