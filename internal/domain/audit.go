package domain

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionRestore AuditAction = "RESTORE"
)

// AuditLog is one append-only record of a mutation to a business entity.
type AuditLog struct {
	ID            int32       `json:"id"`
	AffectedTable string      `json:"affected_table"`
	RecordID      int32       `json:"record_id"`
	Action        AuditAction `json:"action"`
	UserID        int32       `json:"user_id"`
	LogTime       time.Time   `json:"log_time"`
}

// AuditFilter narrows an audit log listing. Zero values mean "any".
type AuditFilter struct {
	AffectedTable string
	UserID        int32
	Action        AuditAction
	From          time.Time
	To            time.Time
}
