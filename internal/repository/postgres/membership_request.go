package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/repository"
)

type membershipRequestRepository struct {
	db *sql.DB
}

func NewMembershipRequestRepository(db *sql.DB) repository.MembershipRequestRepository {
	return &membershipRequestRepository{db: db}
}

const requestColumns = `id, user_id, club_id, message, status, reviewed_by, created_at, reviewed_at`

func scanRequest(row scanner) (*domain.MembershipRequest, error) {
	req := &domain.MembershipRequest{}
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	if err := row.Scan(&req.ID, &req.UserID, &req.ClubID, &req.Message, &req.Status, &reviewedBy, &req.CreatedAt, &reviewedAt); err != nil {
		return nil, err
	}
	req.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		req.ReviewedAt = &t
	}
	return req, nil
}

func (r *membershipRequestRepository) Create(ctx context.Context, req *domain.MembershipRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = domain.MembershipRequestStatusPending

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var clubExists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM clubs WHERE id = $1)`, req.ClubID).Scan(&clubExists); err != nil {
		return err
	}
	if !clubExists {
		return domain.ErrClubNotFound
	}

	var isMember bool
	query := `SELECT EXISTS (SELECT 1 FROM club_members WHERE club_id = $1 AND user_id = $2)`
	if err := tx.QueryRowContext(ctx, query, req.ClubID, req.UserID).Scan(&isMember); err != nil {
		return err
	}
	if isMember {
		return domain.ErrAlreadyMember
	}

	// The partial unique index rejects a second pending request for the pair,
	// including one committed by a concurrent transaction.
	query = `INSERT INTO membership_requests (id, user_id, club_id, message, status, created_at)
	         VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = tx.ExecContext(ctx, query, req.ID, req.UserID, req.ClubID, req.Message, req.Status, req.CreatedAt)
	if isUniqueViolation(err, pendingRequestKey) {
		return domain.ErrDuplicatePending
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *membershipRequestRepository) GetByID(ctx context.Context, id string) (*domain.MembershipRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM membership_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	return req, err
}

func (r *membershipRequestRepository) ListByStatus(ctx context.Context, status domain.MembershipRequestStatus, clubID string) ([]domain.MembershipRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM membership_requests WHERE status = $1`
	args := []any{status}
	if clubID != "" {
		query += ` AND club_id = $2`
		args = append(args, clubID)
	}
	query += ` ORDER BY created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *membershipRequestRepository) ListByUser(ctx context.Context, userID string) ([]domain.MembershipRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM membership_requests WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *membershipRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.MembershipRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []domain.MembershipRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

// decideQuery moves a request out of pending. The status guard makes the
// update a no-op for requests that were already decided.
const decideQuery = `UPDATE membership_requests
	SET status = $1, reviewed_by = $2, reviewed_at = $3
	WHERE id = $4 AND status = 'pending'
	RETURNING ` + requestColumns

func (r *membershipRequestRepository) Approve(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	logger.DatabaseCall("APPROVE", "membership_requests", "request_id", id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	req, err := decide(ctx, tx, domain.MembershipRequestStatusApproved, id, adminID, at)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO club_members (club_id, user_id, joined_at) VALUES ($1, $2, $3)
	          ON CONFLICT (club_id, user_id) DO NOTHING`
	res, err := tx.ExecContext(ctx, query, req.ClubID, req.UserID, at.UTC())
	if isForeignKeyViolation(err) {
		return nil, domain.ErrClubNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("add club member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	added, _ := res.RowsAffected()
	logger.DatabaseResult("APPROVE", added, nil, "request_id", id, "club_id", req.ClubID)
	return req, nil
}

func (r *membershipRequestRepository) Reject(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	return decide(ctx, r.db, domain.MembershipRequestStatusRejected, id, adminID, at)
}

func decide(ctx context.Context, q querier, to domain.MembershipRequestStatus, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	req, err := scanRequest(q.QueryRowContext(ctx, decideQuery, to, adminID, at.UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	return req, err
}

func (r *membershipRequestRepository) CountPendingByClub(ctx context.Context) (map[string]int, error) {
	query := `SELECT club_id, COUNT(*) FROM membership_requests WHERE status = 'pending' GROUP BY club_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var clubID string
		var n int
		if err := rows.Scan(&clubID, &n); err != nil {
			return nil, err
		}
		counts[clubID] = n
	}
	return counts, rows.Err()
}
