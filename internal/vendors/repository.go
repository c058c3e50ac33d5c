package vendors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrVendorNotFound = errors.New("vendor not found")
	ErrPONotFound     = errors.New("purchase order not found")
)

// Repository persists vendors, quotations and purchase orders.
type Repository interface {
	CreateVendor(ctx context.Context, v *Vendor) error
	GetVendor(ctx context.Context, id string) (*Vendor, error)
	ListVendors(ctx context.Context) ([]Vendor, error)

	AddQuotation(ctx context.Context, q *Quotation) error
	QuotationsForIndent(ctx context.Context, indentNo string) ([]QuotationWithVendor, error)

	CreatePO(ctx context.Context, po *PurchaseOrder) error
	GetPO(ctx context.Context, poNo string) (*PurchaseOrder, error)
	ListPOs(ctx context.Context, firmScope string) ([]PurchaseOrder, error)
	NextPOSeq(ctx context.Context) (int64, error)
}

// PostgresRepository implements Repository using sqlx.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateVendor(ctx context.Context, v *Vendor) error {
	query := `
		INSERT INTO vendors (id, name, address, phone, gstin, created_at)
		VALUES (:id, :name, :address, :phone, :gstin, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	var v Vendor
	err := r.db.GetContext(ctx, &v, `SELECT * FROM vendors WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &v, nil
}

func (r *PostgresRepository) ListVendors(ctx context.Context) ([]Vendor, error) {
	var out []Vendor
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM vendors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) AddQuotation(ctx context.Context, q *Quotation) error {
	query := `
		INSERT INTO quotations (id, indent_no, vendor_id, rate, remarks, created_at)
		VALUES (:id, :indent_no, :vendor_id, :rate, :remarks, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, q)
	if err != nil {
		return fmt.Errorf("failed to add quotation: %w", err)
	}
	return nil
}

func (r *PostgresRepository) QuotationsForIndent(ctx context.Context, indentNo string) ([]QuotationWithVendor, error) {
	var out []QuotationWithVendor
	query := `
		SELECT q.*, v.name AS vendor_name
		FROM quotations q
		JOIN vendors v ON v.id = q.vendor_id
		WHERE q.indent_no = $1
		ORDER BY q.created_at`
	err := r.db.SelectContext(ctx, &out, query, indentNo)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) CreatePO(ctx context.Context, po *PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (
			id, po_no, indent_no, firm_name_match, vendor_id,
			item_name, unit, quantity, rate, amount, remarks, created_at
		) VALUES (
			:id, :po_no, :indent_no, :firm_name_match, :vendor_id,
			:item_name, :unit, :quantity, :rate, :amount, :remarks, :created_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, po)
	if err != nil {
		return fmt.Errorf("failed to create purchase order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetPO(ctx context.Context, poNo string) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := r.db.GetContext(ctx, &po, `SELECT * FROM purchase_orders WHERE po_no = $1`, poNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPONotFound
		}
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}
	return &po, nil
}

func (r *PostgresRepository) ListPOs(ctx context.Context, firmScope string) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	var err error
	if firmScope == "" {
		err = r.db.SelectContext(ctx, &out, `SELECT * FROM purchase_orders ORDER BY po_no DESC`)
	} else {
		err = r.db.SelectContext(ctx, &out,
			`SELECT * FROM purchase_orders WHERE lower(firm_name_match) = lower($1) ORDER BY po_no DESC`,
			firmScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) NextPOSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := r.db.GetContext(ctx, &seq, `SELECT nextval('po_no_seq')`)
	if err != nil {
		return 0, fmt.Errorf("failed to get next PO sequence: %w", err)
	}
	return seq, nil
}
