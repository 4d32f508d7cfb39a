package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository"
)

type clubRepository struct {
	db *sql.DB
}

func NewClubRepository(db *sql.DB) repository.ClubRepository {
	return &clubRepository{db: db}
}

const clubColumns = `c.id, c.club_name, c.club_description, c.created_by, c.created_at`

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO clubs (id, club_name, club_description, created_by, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.CreatedByID, c.CreatedAt); err != nil {
		return err
	}
	c.SetMembers(nil)
	return nil
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	c := domain.Club{}
	query := `SELECT ` + clubColumns + ` FROM clubs c WHERE c.id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedByID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrClubNotFound
	}
	if err != nil {
		return nil, err
	}

	clubs := []domain.Club{c}
	if err := loadMembers(ctx, r.db, clubs); err != nil {
		return nil, err
	}
	return &clubs[0], nil
}

func (r *clubRepository) List(ctx context.Context) ([]domain.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs c ORDER BY c.created_at DESC`
	return r.list(ctx, query)
}

func (r *clubRepository) ListByMember(ctx context.Context, userID string) ([]domain.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs c
	          JOIN club_members m ON m.club_id = c.id
	          WHERE m.user_id = $1
	          ORDER BY m.joined_at DESC`
	return r.list(ctx, query, userID)
}

func (r *clubRepository) list(ctx context.Context, query string, args ...any) ([]domain.Club, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clubs := []domain.Club{}
	for rows.Next() {
		var c domain.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedByID, &c.CreatedAt); err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadMembers(ctx, r.db, clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// loadMembers fills the membership set, and with it the member count, of
// every club in clubs with a single query.
func loadMembers(ctx context.Context, q querier, clubs []domain.Club) error {
	if len(clubs) == 0 {
		return nil
	}
	ids := make([]string, len(clubs))
	for i, c := range clubs {
		ids[i] = c.ID
	}

	query := `SELECT club_id, user_id FROM club_members WHERE club_id = ANY($1) ORDER BY joined_at, user_id`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	members := make(map[string][]string, len(clubs))
	for rows.Next() {
		var clubID, userID string
		if err := rows.Scan(&clubID, &userID); err != nil {
			return err
		}
		members[clubID] = append(members[clubID], userID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range clubs {
		clubs[i].SetMembers(members[clubs[i].ID])
	}
	return nil
}
