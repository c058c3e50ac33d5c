package procurement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

var ErrRecordNotFound = errors.New("record not found")

// Repository is the generic data access layer for staged entities. One
// implementation serves every pipeline; the schema decides which table
// and key column a call touches.
type Repository interface {
	FetchAll(ctx context.Context, entity staging.EntityType) ([]staging.Record, error)
	GetByKey(ctx context.Context, entity staging.EntityType, key string) (staging.Record, error)
	// UpdateByKey applies the partial update and returns the updated row,
	// so callers merge the write result directly instead of re-fetching
	// after an arbitrary delay.
	UpdateByKey(ctx context.Context, entity staging.EntityType, key string, update staging.Update) (staging.Record, error)
	Insert(ctx context.Context, entity staging.EntityType, record staging.Record) error
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db       *sqlx.DB
	registry *staging.Registry
}

func NewPostgresRepository(db *sqlx.DB, registry *staging.Registry) *PostgresRepository {
	return &PostgresRepository{db: db, registry: registry}
}

func (r *PostgresRepository) table(entity staging.EntityType) (string, string, error) {
	schema, terr := r.registry.Entity(entity)
	if terr != nil {
		return "", "", terr
	}
	table, ok := tableFor[entity]
	if !ok {
		return "", "", fmt.Errorf("no table mapped for entity %q", entity)
	}
	return table, schema.KeyField, nil
}

func (r *PostgresRepository) FetchAll(ctx context.Context, entity staging.EntityType) ([]staging.Record, error) {
	table, key, err := r.table(entity)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY %s`, table, key))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", table, err)
	}
	defer rows.Close()

	var records []staging.Record
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		records = append(records, toRecord(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return records, nil
}

func (r *PostgresRepository) GetByKey(ctx context.Context, entity staging.EntityType, key string) (staging.Record, error) {
	table, keyField, err := r.table(entity)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx,
		fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`, table, keyField), key)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %q: %w", table, key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get %s %q: %w", table, key, err)
		}
		return nil, ErrRecordNotFound
	}
	row := map[string]any{}
	if err := rows.MapScan(row); err != nil {
		return nil, fmt.Errorf("failed to scan %s %q: %w", table, key, err)
	}
	return toRecord(row), nil
}

func (r *PostgresRepository) UpdateByKey(ctx context.Context, entity staging.EntityType, key string, update staging.Update) (staging.Record, error) {
	table, keyField, err := r.table(entity)
	if err != nil {
		return nil, err
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("empty update for %s %q", table, key)
	}

	// Deterministic column order keeps the statement stable for logs.
	columns := make([]string, 0, len(update))
	for col := range update {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, update[col])
	}
	args = append(args, key)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING *`,
		table, strings.Join(sets, ", "), keyField, len(args))

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %q: %w", table, key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to update %s %q: %w", table, key, err)
		}
		return nil, ErrRecordNotFound
	}
	row := map[string]any{}
	if err := rows.MapScan(row); err != nil {
		return nil, fmt.Errorf("failed to scan updated %s %q: %w", table, key, err)
	}
	return toRecord(row), nil
}

func (r *PostgresRepository) Insert(ctx context.Context, entity staging.EntityType, record staging.Record) error {
	table, _, err := r.table(entity)
	if err != nil {
		return err
	}

	columns := make([]string, 0, len(record))
	for col := range record {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	placeholders := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, record[col])
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// toRecord normalizes driver output: bytea-decoded text comes back as
// []byte, NULL as nil.
func toRecord(row map[string]any) staging.Record {
	record := make(staging.Record, len(row))
	for col, v := range row {
		if b, ok := v.([]byte); ok {
			record[col] = string(b)
			continue
		}
		if v, ok := v.(sql.RawBytes); ok {
			record[col] = string(v)
			continue
		}
		record[col] = v
	}
	return record
}
