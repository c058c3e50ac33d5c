package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrFirmNotFound = errors.New("firm not found")

// Repository persists the firm master.
type Repository interface {
	Create(ctx context.Context, firm *Firm) error
	List(ctx context.Context, activeOnly bool) ([]Firm, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, firm *Firm) error {
	query := `
		INSERT INTO firms (id, name, active, created_at)
		VALUES (:id, :name, :active, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, firm)
	if err != nil {
		return fmt.Errorf("failed to create firm: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]Firm, error) {
	query := `SELECT * FROM firms ORDER BY name`
	if activeOnly {
		query = `SELECT * FROM firms WHERE active ORDER BY name`
	}
	var out []Firm
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list firms: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE firms SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update firm: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFirmNotFound
	}
	return nil
}
