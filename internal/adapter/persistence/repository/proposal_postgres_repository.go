package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"propostas_service/internal/domain/entities"
	"propostas_service/internal/usecase/interfaces"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const proposalColumns = "id, number, client_id, client_name, client_contact_email, created_by, title, scope, terms, " +
	"stages, materials, estimated_value, margin, price, status, sent_at, signed_at, approved_at, cancelled_at, " +
	"cancel_reason, deleted_at, access_token, token_expires_at, signature, approval, version, created_at, updated_at"

type proposalRow struct {
	ID                 string         `db:"id"`
	Number             int64          `db:"number"`
	ClientID           string         `db:"client_id"`
	ClientName         string         `db:"client_name"`
	ClientContactEmail string         `db:"client_contact_email"`
	CreatedBy          string         `db:"created_by"`
	Title              string         `db:"title"`
	Scope              string         `db:"scope"`
	Terms              string         `db:"terms"`
	Stages             []byte         `db:"stages"`
	Materials          []byte         `db:"materials"`
	EstimatedValue     float64        `db:"estimated_value"`
	Margin             float64        `db:"margin"`
	Price              float64        `db:"price"`
	Status             string         `db:"status"`
	SentAt             sql.NullTime   `db:"sent_at"`
	SignedAt           sql.NullTime   `db:"signed_at"`
	ApprovedAt         sql.NullTime   `db:"approved_at"`
	CancelledAt        sql.NullTime   `db:"cancelled_at"`
	CancelReason       string         `db:"cancel_reason"`
	DeletedAt          sql.NullTime   `db:"deleted_at"`
	AccessToken        sql.NullString `db:"access_token"`
	TokenExpiresAt     sql.NullTime   `db:"token_expires_at"`
	Signature          []byte         `db:"signature"`
	Approval           []byte         `db:"approval"`
	Version            int64          `db:"version"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// ProposalPostgresRepository persists Proposal entities in PostgreSQL.
// Stages, materials, signature and approval live in JSONB columns.
type ProposalPostgresRepository struct {
	db *sqlx.DB
	qb squirrel.StatementBuilderType
}

var _ interfaces.IAtomicProposalRepository = (*ProposalPostgresRepository)(nil)

func NewProposalPostgresRepository(db *sqlx.DB) *ProposalPostgresRepository {
	return &ProposalPostgresRepository{
		db: db,
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProposalPostgresRepository) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT nextval('proposal_number_seq')"); err != nil {
		return 0, fmt.Errorf("next proposal number: %w", err)
	}
	return n, nil
}

func (r *ProposalPostgresRepository) Create(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	values, err := proposalValues(p)
	if err != nil {
		return entities.Proposal{}, err
	}
	query, args, err := r.qb.Insert("proposals").SetMap(values).ToSql()
	if err != nil {
		return entities.Proposal{}, fmt.Errorf("build query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return entities.Proposal{}, fmt.Errorf("insert proposal: %w", err)
	}
	return p, nil
}

func (r *ProposalPostgresRepository) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *ProposalPostgresRepository) GetByToken(ctx context.Context, token string) (entities.Proposal, error) {
	if token == "" {
		return entities.Proposal{}, nil
	}
	return r.getOne(ctx, squirrel.Eq{"access_token": token})
}

func (r *ProposalPostgresRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (entities.Proposal, error) {
	query, args, err := r.qb.Select(proposalColumns).From("proposals").Where(where).ToSql()
	if err != nil {
		return entities.Proposal{}, fmt.Errorf("build query: %w", err)
	}
	var row proposalRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Proposal{}, nil
	}
	if err != nil {
		return entities.Proposal{}, err
	}
	return fromProposalRow(row)
}

func (r *ProposalPostgresRepository) CompareAndSwap(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition) (entities.Proposal, error) {
	if err := r.swap(ctx, r.db, next, cond); err != nil {
		return entities.Proposal{}, err
	}
	return next, nil
}

// CompareAndSwapWithEvent runs the conditional update and the audit insert
// in one transaction.
func (r *ProposalPostgresRepository) CompareAndSwapWithEvent(ctx context.Context, next entities.Proposal, cond interfaces.SwapCondition, event entities.AuditEvent) (entities.Proposal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entities.Proposal{}, fmt.Errorf("begin tx: %w", err)
	}
	// A no-op once the transaction has committed.
	defer rollbackTx(tx, next.ID)

	if err := r.swap(ctx, tx, next, cond); err != nil {
		return entities.Proposal{}, err
	}
	if err := insertAuditEvent(ctx, tx, r.qb, event); err != nil {
		return entities.Proposal{}, err
	}
	if err := tx.Commit(); err != nil {
		return entities.Proposal{}, fmt.Errorf("commit tx: %w", err)
	}
	return next, nil
}

type txRollbacker interface {
	Rollback() error
}

// rollbackTx rolls tx back and logs a failure. sql.ErrTxDone means the
// transaction already finished and is not reported.
func rollbackTx(tx txRollbacker, proposalID string) error {
	err := tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	log.Printf("[proposal][postgres] rollback failed proposal_id=%s err=%v", proposalID, err)
	return err
}

func (r *ProposalPostgresRepository) swap(ctx context.Context, exec sqlx.ExecerContext, next entities.Proposal, cond interfaces.SwapCondition) error {
	values, err := proposalValues(next)
	if err != nil {
		return err
	}
	delete(values, "id")

	where := squirrel.And{
		squirrel.Eq{"id": next.ID, "status": string(cond.Status), "version": cond.Version},
		squirrel.Expr("deleted_at IS NULL"),
	}
	if cond.Token != "" {
		where = append(where, squirrel.Eq{"access_token": cond.Token})
	}
	query, args, err := r.qb.Update("proposals").SetMap(values).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return interfaces.ErrPreconditionFailed
	}
	return nil
}

func (r *ProposalPostgresRepository) ListWithTokenExpiredBefore(ctx context.Context, before time.Time, limit int) ([]entities.Proposal, error) {
	q := r.qb.Select(proposalColumns).
		From("proposals").
		Where(squirrel.And{
			squirrel.NotEq{"access_token": nil},
			squirrel.Lt{"token_expires_at": before.UTC()},
		}).
		OrderBy("token_expires_at ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []proposalRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		p, err := fromProposalRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// proposalValues maps a proposal to its columns. JSONB values are passed as
// text; lib/pq would send []byte as bytea.
func proposalValues(p entities.Proposal) (map[string]any, error) {
	stages, err := jsonText(p.Stages, "[]")
	if err != nil {
		return nil, err
	}
	materials, err := jsonText(p.Materials, "[]")
	if err != nil {
		return nil, err
	}
	values := map[string]any{
		"id":                   p.ID,
		"number":               p.Number,
		"client_id":            p.ClientID,
		"client_name":          p.ClientName,
		"client_contact_email": p.ClientContactEmail,
		"created_by":           p.CreatedBy,
		"title":                p.Title,
		"scope":                p.Scope,
		"terms":                p.Terms,
		"stages":               stages,
		"materials":            materials,
		"estimated_value":      p.EstimatedValue,
		"margin":               p.Margin,
		"price":                p.Price,
		"status":               string(p.Status),
		"sent_at":              nullTime(p.SentAt),
		"signed_at":            nullTime(p.SignedAt),
		"approved_at":          nullTime(p.ApprovedAt),
		"cancelled_at":         nullTime(p.CancelledAt),
		"cancel_reason":        p.CancelReason,
		"deleted_at":           nullTime(p.DeletedAt),
		"access_token":         sql.NullString{String: p.AccessToken, Valid: p.AccessToken != ""},
		"token_expires_at":     nullTime(p.TokenExpiresAt),
		"signature":            nil,
		"approval":             nil,
		"version":              p.Version,
		"created_at":           p.CreatedAt.UTC(),
		"updated_at":           p.UpdatedAt.UTC(),
	}
	if p.Signature != nil {
		if values["signature"], err = jsonText(p.Signature, ""); err != nil {
			return nil, err
		}
	}
	if p.Approval != nil {
		if values["approval"], err = jsonText(p.Approval, ""); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func fromProposalRow(row proposalRow) (entities.Proposal, error) {
	p := entities.Proposal{
		ID:                 row.ID,
		Number:             row.Number,
		ClientID:           row.ClientID,
		ClientName:         row.ClientName,
		ClientContactEmail: row.ClientContactEmail,
		CreatedBy:          row.CreatedBy,
		Title:              row.Title,
		Scope:              row.Scope,
		Terms:              row.Terms,
		EstimatedValue:     row.EstimatedValue,
		Margin:             row.Margin,
		Price:              row.Price,
		Status:             entities.ProposalStatus(row.Status),
		SentAt:             timePtr(row.SentAt),
		SignedAt:           timePtr(row.SignedAt),
		ApprovedAt:         timePtr(row.ApprovedAt),
		CancelledAt:        timePtr(row.CancelledAt),
		CancelReason:       row.CancelReason,
		DeletedAt:          timePtr(row.DeletedAt),
		AccessToken:        row.AccessToken.String,
		TokenExpiresAt:     timePtr(row.TokenExpiresAt),
		Version:            row.Version,
		CreatedAt:          row.CreatedAt.UTC(),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
	if err := unmarshalJSONField(string(row.Stages), &p.Stages); err != nil {
		return entities.Proposal{}, fmt.Errorf("proposal %s stages: %w", row.ID, err)
	}
	if err := unmarshalJSONField(string(row.Materials), &p.Materials); err != nil {
		return entities.Proposal{}, fmt.Errorf("proposal %s materials: %w", row.ID, err)
	}
	if len(row.Signature) > 0 {
		p.Signature = &entities.Signature{}
		if err := json.Unmarshal(row.Signature, p.Signature); err != nil {
			return entities.Proposal{}, fmt.Errorf("proposal %s signature: %w", row.ID, err)
		}
	}
	if len(row.Approval) > 0 {
		p.Approval = &entities.Approval{}
		if err := json.Unmarshal(row.Approval, p.Approval); err != nil {
			return entities.Proposal{}, fmt.Errorf("proposal %s approval: %w", row.ID, err)
		}
	}
	return p, nil
}

func jsonText(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" && empty != "" {
		return empty, nil
	}
	return string(b), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
