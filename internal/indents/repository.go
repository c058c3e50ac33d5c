package indents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrIndentNotFound = errors.New("indent not found")

type Repository interface {
	Create(ctx context.Context, indent *Indent) error
	GetByNo(ctx context.Context, indentNo string) (*Indent, error)
	List(ctx context.Context, firmScope string) ([]Indent, error)
	NextIndentSeq(ctx context.Context) (int64, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, indent *Indent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO indents (
			id, indent_no, firm_name_match, item_name, unit, quantity,
			department, requested_by, planned1, created_at, updated_at
		) VALUES (
			:id, :indent_no, :firm_name_match, :item_name, :unit, :quantity,
			:department, :requested_by, :planned1, :created_at, :updated_at
		)`, indent)
	if err != nil {
		return fmt.Errorf("failed to create indent %s: %w", indent.IndentNo, err)
	}
	return nil
}

func (r *PostgresRepository) GetByNo(ctx context.Context, indentNo string) (*Indent, error) {
	var indent Indent
	err := r.db.GetContext(ctx, &indent, `SELECT * FROM indents WHERE indent_no = $1`, indentNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIndentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get indent %s: %w", indentNo, err)
	}
	return &indent, nil
}

func (r *PostgresRepository) List(ctx context.Context, firmScope string) ([]Indent, error) {
	var indents []Indent
	var err error
	if firmScope == "" {
		err = r.db.SelectContext(ctx, &indents,
			`SELECT * FROM indents ORDER BY indent_no DESC`)
	} else {
		err = r.db.SelectContext(ctx, &indents,
			`SELECT * FROM indents WHERE lower(firm_name_match) = lower($1) ORDER BY indent_no DESC`,
			firmScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list indents: %w", err)
	}
	return indents, nil
}

func (r *PostgresRepository) NextIndentSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.GetContext(ctx, &seq, `SELECT nextval('indent_no_seq')`); err != nil {
		return 0, fmt.Errorf("failed to allocate indent number: %w", err)
	}
	return seq, nil
}
