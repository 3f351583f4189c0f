package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

type postgresRepo struct{ db postgres.DBTX }

func NewPostgresRepository(db postgres.DBTX) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, sequence, customer_name,
	ship_street1, ship_street2, ship_city, ship_region, ship_postal_code, ship_country,
	subtotal, shipping, tax, total, order_date, note, has_bulk_items, has_misc_items,
	batch_id, created_at`

func (r *postgresRepo) Insert(ctx context.Context, o *Order) error {
	a := o.ShippingAddress
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, sequence, customer_name,
		   ship_street1, ship_street2, ship_city, ship_region, ship_postal_code, ship_country,
		   subtotal, shipping, tax, total, order_date, note, has_bulk_items, has_misc_items, batch_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		o.ID, o.OrderNumber, o.Sequence, o.CustomerName,
		a.Street1, a.Street2, a.City, a.Region, a.PostalCode, a.Country,
		o.Subtotal, o.Shipping, o.Tax, o.Total, o.OrderDate, o.Note,
		o.HasBulkItems, o.HasMiscItems, o.BatchID)
	if err != nil {
		if postgres.IsDuplicateKey(err) {
			return fmt.Errorf("order %s already exists: %w", o.OrderNumber, err)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO order_line_items
			  (id, order_id, position, sku, kind, product_id, misc_product_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, o.ID, item.Position, item.SKU, item.Kind,
			item.ProductID, item.MiscProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert line item %s: %w", item.SKU, err)
		}
	}
	return nil
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE batch_id=$1 ORDER BY sequence ASC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) ExistingNumbers(ctx context.Context, orderNumbers []string) ([]string, error) {
	if len(orderNumbers) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_number FROM orders
		WHERE order_number = ANY($1) ORDER BY order_number`, pq.Array(orderNumbers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var existing []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		existing = append(existing, n)
	}
	return existing, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) scanOrder(row postgres.RowScanner) (*Order, error) {
	o := &Order{}
	var batchID uuid.NullUUID
	a := &o.ShippingAddress
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Sequence, &o.CustomerName,
		&a.Street1, &a.Street2, &a.City, &a.Region, &a.PostalCode, &a.Country,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.OrderDate, &o.Note,
		&o.HasBulkItems, &o.HasMiscItems, &batchID, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if batchID.Valid {
		o.BatchID = &batchID.UUID
	}
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, position, sku, kind, product_id, misc_product_id, quantity, unit_price
		FROM order_line_items WHERE order_id=$1 ORDER BY position ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*LineItem
	for rows.Next() {
		item := &LineItem{}
		var productID, miscID uuid.NullUUID
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Position, &item.SKU, &item.Kind,
			&productID, &miscID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		if productID.Valid {
			item.ProductID = &productID.UUID
		}
		if miscID.Valid {
			item.MiscProductID = &miscID.UUID
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
