package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

type postgresRepo struct{ db postgres.DBTX }

// NewPostgresRepository accepts either a *sql.DB or a *sql.Tx.
func NewPostgresRepository(db postgres.DBTX) Repository { return &postgresRepo{db: db} }

const productColumns = `
	p.id, p.variety_prefix, p.sku_suffix, v.name, v.category, v.environment_type,
	p.package_size, p.label_lines, p.alt_sku, p.alt_multiplier, p.prepack_stock,
	p.lot_id, p.created_at, p.updated_at`

func scanProduct(row postgres.RowScanner) (*Product, error) {
	p := &Product{}
	var envType, pkgSize, altSKU sql.NullString
	var altMult sql.NullInt64
	var lotID uuid.NullUUID
	var lines pq.StringArray
	err := row.Scan(&p.ID, &p.VarietyPrefix, &p.SKUSuffix, &p.VarietyName, &p.Category, &envType,
		&pkgSize, &lines, &altSKU, &altMult, &p.PrepackStock,
		&lotID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.EnvironmentType = envType.String
	p.PackageSize = pkgSize.String
	p.LabelLines = []string(lines)
	p.AltSKU = altSKU.String
	p.AltMultiplier = int(altMult.Int64)
	if lotID.Valid {
		id := lotID.UUID
		p.LotID = &id
	}
	return p, nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, prefix, suffix string) (*Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT`+productColumns+`
		FROM products p JOIN varieties v ON v.sku_prefix = p.variety_prefix
		WHERE p.variety_prefix=$1 AND p.sku_suffix=$2`, prefix, suffix))
}

func (r *postgresRepo) GetMiscProduct(ctx context.Context, sku string) (*MiscProduct, error) {
	m := &MiscProduct{}
	var category sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, sku, name, category, created_at FROM misc_products WHERE sku=$1`, sku).
		Scan(&m.ID, &m.SKU, &m.Name, &category, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Category = category.String
	return m, nil
}

func (r *postgresRepo) LockPrepackStock(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}
	// Rows are locked in id order.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, prepack_stock FROM products
		WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stock := make(map[uuid.UUID]int, len(productIDs))
	for rows.Next() {
		var id uuid.UUID
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		stock[id] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(stock) != len(productIDs) {
		return nil, fmt.Errorf("lock prepack stock: %d of %d products found", len(stock), len(productIDs))
	}
	return stock, nil
}

func (r *postgresRepo) SetPrepackStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 0 {
		return fmt.Errorf("prepack stock cannot be negative (product %s, qty %d)", productID, qty)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET prepack_stock=$1, updated_at=NOW() WHERE id=$2`, qty, productID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("product %s not found", productID)
	}
	return nil
}

func (r *postgresRepo) AddPrepackStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		UPDATE products SET prepack_stock = prepack_stock + $1, updated_at=NOW()
		WHERE id=$2 RETURNING prepack_stock`, qty, productID).Scan(&total)
	return total, err
}
