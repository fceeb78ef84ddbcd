package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const auditEventColumns = "id, proposal_id, kind, actor_type, actor_user_id, actor_ip, actor_user_agent, " +
	"from_status, to_status, occurred_at, detail, state"

type auditEventRow struct {
	ID             string    `db:"id"`
	ProposalID     string    `db:"proposal_id"`
	Kind           string    `db:"kind"`
	ActorType      string    `db:"actor_type"`
	ActorUserID    string    `db:"actor_user_id"`
	ActorIP        string    `db:"actor_ip"`
	ActorUserAgent string    `db:"actor_user_agent"`
	FromStatus     string    `db:"from_status"`
	ToStatus       string    `db:"to_status"`
	OccurredAt     time.Time `db:"occurred_at"`
	Detail         []byte    `db:"detail"`
	State          string    `db:"state"`
}

// AuditEventPostgresRepository persists the audit trail in PostgreSQL.
type AuditEventPostgresRepository struct {
	db *sqlx.DB
	qb squirrel.StatementBuilderType
}

var _ interfaces.IAuditRepository = (*AuditEventPostgresRepository)(nil)

func NewAuditEventPostgresRepository(db *sqlx.DB) *AuditEventPostgresRepository {
	return &AuditEventPostgresRepository{
		db: db,
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *AuditEventPostgresRepository) Append(ctx context.Context, e entities.AuditEvent) error {
	return insertAuditEvent(ctx, r.db, r.qb, e)
}

func (r *AuditEventPostgresRepository) ListByProposalID(ctx context.Context, proposalID string) ([]entities.AuditEvent, error) {
	return r.list(ctx, r.qb.Select(auditEventColumns).
		From("audit_events").
		Where(squirrel.Eq{"proposal_id": proposalID}).
		OrderBy("occurred_at ASC"))
}

func (r *AuditEventPostgresRepository) ListPending(ctx context.Context, olderThan time.Time) ([]entities.AuditEvent, error) {
	return r.list(ctx, r.qb.Select(auditEventColumns).
		From("audit_events").
		Where(squirrel.And{
			squirrel.Eq{"state": string(entities.AuditEventStatePending)},
			squirrel.Lt{"occurred_at": olderThan.UTC()},
		}).
		OrderBy("occurred_at ASC"))
}

func (r *AuditEventPostgresRepository) SetState(ctx context.Context, e entities.AuditEvent, state entities.AuditEventState) error {
	query, args, err := r.qb.Update("audit_events").
		Set("state", string(state)).
		Where(squirrel.Eq{"id": e.ID, "state": string(entities.AuditEventStatePending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update audit event: %w", err)
	}
	if rows, err := res.RowsAffected(); err != nil {
		return err
	} else if rows == 0 {
		return fmt.Errorf("audit event %s is not pending", e.ID)
	}
	return nil
}

func (r *AuditEventPostgresRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]entities.AuditEvent, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var rows []auditEventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]entities.AuditEvent, 0, len(rows))
	for _, row := range rows {
		e := entities.AuditEvent{
			ID:         row.ID,
			ProposalID: row.ProposalID,
			Kind:       entities.AuditEventKind(row.Kind),
			Actor: entities.Actor{
				Type:      entities.ActorType(row.ActorType),
				UserID:    row.ActorUserID,
				IP:        row.ActorIP,
				UserAgent: row.ActorUserAgent,
			},
			FromStatus: entities.ProposalStatus(row.FromStatus),
			ToStatus:   entities.ProposalStatus(row.ToStatus),
			Timestamp:  row.OccurredAt.UTC(),
			State:      entities.AuditEventState(row.State),
		}
		if len(row.Detail) > 0 {
			if err := json.Unmarshal(row.Detail, &e.Detail); err != nil {
				return nil, fmt.Errorf("audit event %s detail: %w", row.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func insertAuditEvent(ctx context.Context, exec sqlx.ExecerContext, qb squirrel.StatementBuilderType, e entities.AuditEvent) error {
	var detail any
	if len(e.Detail) > 0 {
		text, err := jsonText(e.Detail, "")
		if err != nil {
			return err
		}
		detail = text
	}
	query, args, err := qb.Insert("audit_events").SetMap(map[string]any{
		"id":               e.ID,
		"proposal_id":      e.ProposalID,
		"kind":             string(e.Kind),
		"actor_type":       string(e.Actor.Type),
		"actor_user_id":    e.Actor.UserID,
		"actor_ip":         e.Actor.IP,
		"actor_user_agent": e.Actor.UserAgent,
		"from_status":      string(e.FromStatus),
		"to_status":        string(e.ToStatus),
		"occurred_at":      e.Timestamp.UTC(),
		"detail":           detail,
		"state":            string(e.State),
	}).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
