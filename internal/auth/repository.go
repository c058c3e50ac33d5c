package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
	UpdatePermissions(ctx context.Context, username string, permissions []byte) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, username, name, password_hash, firm_name_match, permissions, created_at, updated_at
		 FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, name, password_hash, firm_name_match, permissions, created_at, updated_at)
		VALUES (:id, :username, :name, :password_hash, :firm_name_match, :permissions, :created_at, :updated_at)`,
		user)
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.SelectContext(ctx, &users,
		`SELECT id, username, name, password_hash, firm_name_match, permissions, created_at, updated_at
		 FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *PostgresRepository) UpdatePermissions(ctx context.Context, username string, permissions []byte) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET permissions = $1, updated_at = now() WHERE username = $2`,
		permissions, username)
	if err != nil {
		return fmt.Errorf("failed to update permissions for %q: %w", username, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
