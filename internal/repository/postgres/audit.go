package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"microfinance-backend/internal/domain"
	"microfinance-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditLog) error {
	if entry.LogTime.IsZero() {
		entry.LogTime = time.Now()
	}
	query := `INSERT INTO audit_logs (affected_table, record_id, action, user_id, log_time)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, entry.AffectedTable, entry.RecordID, entry.Action, entry.UserID, entry.LogTime).Scan(&entry.ID)
}

func (r *auditRepository) List(ctx context.Context, filter domain.AuditFilter, page, pageSize int32) ([]domain.AuditLog, int32, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.AffectedTable != "" {
		addCondition("affected_table = $%d", filter.AffectedTable)
	}
	if filter.UserID != 0 {
		addCondition("user_id = $%d", filter.UserID)
	}
	if filter.Action != "" {
		addCondition("action = $%d", filter.Action)
	}
	if !filter.From.IsZero() {
		addCondition("log_time >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		addCondition("log_time < $%d", filter.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int32
	countQuery := `SELECT COUNT(*) FROM audit_logs` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT id, affected_table, record_id, action, user_id, log_time FROM audit_logs%s ORDER BY log_time DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		if err := rows.Scan(&e.ID, &e.AffectedTable, &e.RecordID, &e.Action, &e.UserID, &e.LogTime); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
