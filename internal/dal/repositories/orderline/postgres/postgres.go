package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/dal/postgres"
	"github.com/retailworks/backoffice/internal/service/models/orderline"
)

// OrderLineDal represents the order line data access layer model.
type OrderLineDal struct {
	Id             int64           `db:"id"`
	OrderId        int64           `db:"order_id"`
	ProductId      int64           `db:"product_id"`
	Name           string          `db:"name"`
	SKU            string          `db:"sku"`
	Unit           string          `db:"unit"`
	Quantity       decimal.Decimal `db:"quantity"`
	UnitPrice      decimal.Decimal `db:"unit_price"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	FinalAmount    decimal.Decimal `db:"final_amount"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// ToModel converts OrderLineDal to the service layer OrderLine model.
func (d *OrderLineDal) ToModel() *orderline.OrderLine {
	return &orderline.OrderLine{
		ID:             d.Id,
		OrderID:        d.OrderId,
		ProductID:      d.ProductId,
		Name:           d.Name,
		SKU:            d.SKU,
		Unit:           d.Unit,
		Quantity:       d.Quantity,
		UnitPrice:      d.UnitPrice,
		DiscountAmount: d.DiscountAmount,
		TaxAmount:      d.TaxAmount,
		FinalAmount:    d.FinalAmount,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// PostgresOrderLineRepository is a Postgres order line archive repository.
type PostgresOrderLineRepository struct {
	conn postgres.Querier
	sb   sq.StatementBuilderType
}

// NewPostgresOrderLineRepository creates a new Postgres order line repository.
func NewPostgresOrderLineRepository(conn postgres.Querier) *PostgresOrderLineRepository {
	return &PostgresOrderLineRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple order lines and returns them with IDs assigned.
func (r *PostgresOrderLineRepository) BulkInsert(
	ctx context.Context,
	lines []orderline.OrderLine,
) ([]orderline.OrderLine, error) {
	if len(lines) == 0 {
		return []orderline.OrderLine{}, nil
	}

	sql := `
		INSERT INTO sales_order_lines (
			order_id,
			product_id,
			name,
			sku,
			unit,
			quantity,
			unit_price,
			discount_amount,
			tax_amount,
			final_amount,
			created_at,
			updated_at
		)
		SELECT * FROM unnest(
			$1::bigint[], $2::bigint[], $3::text[], $4::text[], $5::text[],
			$6::numeric[], $7::numeric[], $8::numeric[], $9::numeric[],
			$10::numeric[], $11::timestamptz[], $12::timestamptz[]
		)
		RETURNING
			id, order_id, product_id, name, sku, unit, quantity, unit_price,
			discount_amount, tax_amount, final_amount, created_at, updated_at
	`

	orderIds := make([]int64, len(lines))
	productIds := make([]int64, len(lines))
	names := make([]string, len(lines))
	skus := make([]string, len(lines))
	units := make([]string, len(lines))
	quantities := make([]string, len(lines))
	unitPrices := make([]string, len(lines))
	discounts := make([]string, len(lines))
	taxes := make([]string, len(lines))
	finals := make([]string, len(lines))
	createdAts := make([]time.Time, len(lines))
	updatedAts := make([]time.Time, len(lines))

	for i, l := range lines {
		orderIds[i] = l.OrderID
		productIds[i] = l.ProductID
		names[i] = l.Name
		skus[i] = l.SKU
		units[i] = l.Unit
		quantities[i] = l.Quantity.String()
		unitPrices[i] = l.UnitPrice.String()
		discounts[i] = l.DiscountAmount.String()
		taxes[i] = l.TaxAmount.String()
		finals[i] = l.FinalAmount.String()
		createdAts[i] = l.CreatedAt
		updatedAts[i] = l.UpdatedAt
	}

	rows, err := r.conn.Query(ctx, sql,
		orderIds, productIds, names, skus, units,
		quantities, unitPrices, discounts, taxes, finals,
		createdAts, updatedAts)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order lines: %w", err)
	}
	defer rows.Close()

	var result []orderline.OrderLine
	for rows.Next() {
		var dal OrderLineDal
		var createdAt, updatedAt pgtype.Timestamptz

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.Name,
			&dal.SKU,
			&dal.Unit,
			&dal.Quantity,
			&dal.UnitPrice,
			&dal.DiscountAmount,
			&dal.TaxAmount,
			&dal.FinalAmount,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		dal.CreatedAt = createdAt.Time
		dal.UpdatedAt = updatedAt.Time

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves order lines based on filter criteria.
func (r *PostgresOrderLineRepository) Query(
	ctx context.Context,
	filter *orderline.QueryOrderLinesModel,
) ([]orderline.OrderLine, error) {
	query := r.sb.
		Select(
			"id",
			"order_id",
			"product_id",
			"name",
			"sku",
			"unit",
			"quantity",
			"unit_price",
			"discount_amount",
			"tax_amount",
			"final_amount",
			"created_at",
			"updated_at",
		).
		From("sales_order_lines")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	if len(filter.ProductIds) > 0 {
		query = query.Where(sq.Eq{"product_id": filter.ProductIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var result []orderline.OrderLine
	for rows.Next() {
		var dal OrderLineDal
		var createdAt, updatedAt pgtype.Timestamptz

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.Name,
			&dal.SKU,
			&dal.Unit,
			&dal.Quantity,
			&dal.UnitPrice,
			&dal.DiscountAmount,
			&dal.TaxAmount,
			&dal.FinalAmount,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		dal.CreatedAt = createdAt.Time
		dal.UpdatedAt = updatedAt.Time

		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
