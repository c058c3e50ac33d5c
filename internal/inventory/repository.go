package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Repository persists stock levels and the movement ledger.
type Repository interface {
	GetLevel(ctx context.Context, firm, itemName string) (*StockLevel, error)
	ListLevels(ctx context.Context, firmScope string) ([]StockLevel, error)
	Adjust(ctx context.Context, m *StockMovement) (*StockLevel, error)
	ListMovements(ctx context.Context, firmScope, itemName string) ([]StockMovement, error)
}

// PostgresRepository implements Repository using sqlx. Adjust runs level
// upsert and ledger insert in one transaction.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetLevel(ctx context.Context, firm, itemName string) (*StockLevel, error) {
	var lvl StockLevel
	err := r.db.GetContext(ctx, &lvl,
		`SELECT * FROM stock_levels WHERE lower(firm_name_match) = lower($1) AND item_name = $2`,
		firm, itemName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stock level: %w", err)
	}
	return &lvl, nil
}

func (r *PostgresRepository) ListLevels(ctx context.Context, firmScope string) ([]StockLevel, error) {
	var out []StockLevel
	var err error
	if firmScope == "" {
		err = r.db.SelectContext(ctx, &out,
			`SELECT * FROM stock_levels ORDER BY firm_name_match, item_name`)
	} else {
		err = r.db.SelectContext(ctx, &out,
			`SELECT * FROM stock_levels WHERE lower(firm_name_match) = lower($1) ORDER BY item_name`,
			firmScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list stock levels: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Adjust(ctx context.Context, m *StockMovement) (*StockLevel, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin stock transaction: %w", err)
	}
	defer tx.Rollback()

	delta := m.Quantity
	if m.Kind == MovementOut {
		delta = delta.Neg()
	}

	var lvl StockLevel
	err = tx.GetContext(ctx, &lvl, `
		INSERT INTO stock_levels (id, firm_name_match, item_name, unit, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (firm_name_match, item_name)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity,
		              unit = EXCLUDED.unit,
		              updated_at = EXCLUDED.updated_at
		RETURNING *`,
		m.ID, m.FirmNameMatch, m.ItemName, m.Unit, delta, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock level: %w", err)
	}
	if lvl.Quantity.LessThan(decimal.Zero) {
		return nil, ErrInsufficientStock
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO stock_movements (id, firm_name_match, item_name, unit, kind, quantity, ref_no, created_at)
		VALUES (:id, :firm_name_match, :item_name, :unit, :kind, :quantity, :ref_no, :created_at)`, m)
	if err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock transaction: %w", err)
	}
	return &lvl, nil
}

func (r *PostgresRepository) ListMovements(ctx context.Context, firmScope, itemName string) ([]StockMovement, error) {
	query := `SELECT * FROM stock_movements WHERE 1=1`
	args := []any{}
	if firmScope != "" {
		args = append(args, firmScope)
		query += fmt.Sprintf(" AND lower(firm_name_match) = lower($%d)", len(args))
	}
	if itemName != "" {
		args = append(args, itemName)
		query += fmt.Sprintf(" AND item_name = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var out []StockMovement
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return out, nil
}
