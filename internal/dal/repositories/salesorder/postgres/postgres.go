package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/retailworks/backoffice/internal/dal/postgres"
	"github.com/retailworks/backoffice/internal/service/models/orderline"
	"github.com/retailworks/backoffice/internal/service/models/payment"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// SalesOrderDal represents the sales order data access layer model.
type SalesOrderDal struct {
	Id             int64           `db:"id"`
	OrderCode      string          `db:"order_code"`
	StoreId        int64           `db:"store_id"`
	DivisionId     int64           `db:"division_id"`
	CustomerId     int64           `db:"customer_id"`
	Status         string          `db:"status"`
	Notes          string          `db:"notes"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	Tax            decimal.Decimal `db:"tax"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	FreightCharges decimal.Decimal `db:"freight_charges"`
	Total          decimal.Decimal `db:"total"`
	Payments       []byte          `db:"payments"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// ToModel converts SalesOrderDal to the service layer SalesOrder model.
func (d *SalesOrderDal) ToModel() (*salesorder.SalesOrder, error) {
	status, err := salesorder.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}

	var payments []payment.Record
	if len(d.Payments) > 0 {
		if err := json.Unmarshal(d.Payments, &payments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payments: %w", err)
		}
	}

	return &salesorder.SalesOrder{
		ID:             d.Id,
		OrderCode:      d.OrderCode,
		StoreID:        d.StoreId,
		DivisionID:     d.DivisionId,
		CustomerID:     d.CustomerId,
		Status:         status,
		Notes:          d.Notes,
		Subtotal:       d.Subtotal,
		Tax:            d.Tax,
		DiscountAmount: d.DiscountAmount,
		FreightCharges: d.FreightCharges,
		Total:          d.Total,
		Payments:       payments,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Lines:          []orderline.OrderLine{}, // populated separately
	}, nil
}

// PostgresSalesOrderRepository is a Postgres sales order archive repository.
type PostgresSalesOrderRepository struct {
	conn postgres.Querier
	sb   sq.StatementBuilderType
}

// NewPostgresSalesOrderRepository creates a new Postgres sales order repository.
func NewPostgresSalesOrderRepository(conn postgres.Querier) *PostgresSalesOrderRepository {
	return &PostgresSalesOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple sales orders and returns them with IDs assigned.
func (r *PostgresSalesOrderRepository) BulkInsert(
	ctx context.Context,
	orders []salesorder.SalesOrder,
) ([]salesorder.SalesOrder, error) {
	if len(orders) == 0 {
		return []salesorder.SalesOrder{}, nil
	}

	sql := `
		INSERT INTO sales_orders (
			order_code,
			store_id,
			division_id,
			customer_id,
			status,
			notes,
			subtotal,
			tax,
			discount_amount,
			freight_charges,
			total,
			payments,
			created_at,
			updated_at
		)
		SELECT * FROM unnest(
			$1::text[], $2::bigint[], $3::bigint[], $4::bigint[], $5::text[],
			$6::text[], $7::numeric[], $8::numeric[], $9::numeric[], $10::numeric[],
			$11::numeric[], $12::jsonb[], $13::timestamptz[], $14::timestamptz[]
		)
		RETURNING
			id, order_code, store_id, division_id, customer_id, status, notes,
			subtotal, tax, discount_amount, freight_charges, total, payments,
			created_at, updated_at
	`

	orderCodes := make([]string, len(orders))
	storeIds := make([]int64, len(orders))
	divisionIds := make([]int64, len(orders))
	customerIds := make([]int64, len(orders))
	statuses := make([]string, len(orders))
	notes := make([]string, len(orders))
	subtotals := make([]string, len(orders))
	taxes := make([]string, len(orders))
	discounts := make([]string, len(orders))
	freights := make([]string, len(orders))
	totals := make([]string, len(orders))
	payments := make([]string, len(orders))
	createdAts := make([]time.Time, len(orders))
	updatedAts := make([]time.Time, len(orders))

	for i, o := range orders {
		paymentsJSON, err := json.Marshal(o.Payments)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payments: %w", err)
		}

		orderCodes[i] = o.OrderCode
		storeIds[i] = o.StoreID
		divisionIds[i] = o.DivisionID
		customerIds[i] = o.CustomerID
		statuses[i] = o.Status.String()
		notes[i] = o.Notes
		subtotals[i] = o.Subtotal.String()
		taxes[i] = o.Tax.String()
		discounts[i] = o.DiscountAmount.String()
		freights[i] = o.FreightCharges.String()
		totals[i] = o.Total.String()
		payments[i] = string(paymentsJSON)
		createdAts[i] = o.CreatedAt
		updatedAts[i] = o.UpdatedAt
	}

	rows, err := r.conn.Query(ctx, sql,
		orderCodes, storeIds, divisionIds, customerIds, statuses, notes,
		subtotals, taxes, discounts, freights, totals, payments,
		createdAts, updatedAts)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert sales orders: %w", err)
	}
	defer rows.Close()

	var result []salesorder.SalesOrder
	i := 0
	for rows.Next() {
		var dal SalesOrderDal
		var createdAt, updatedAt pgtype.Timestamptz

		err := rows.Scan(
			&dal.Id,
			&dal.OrderCode,
			&dal.StoreId,
			&dal.DivisionId,
			&dal.CustomerId,
			&dal.Status,
			&dal.Notes,
			&dal.Subtotal,
			&dal.Tax,
			&dal.DiscountAmount,
			&dal.FreightCharges,
			&dal.Total,
			&dal.Payments,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales order: %w", err)
		}

		dal.CreatedAt = createdAt.Time
		dal.UpdatedAt = updatedAt.Time

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert sales order dal to model: %w", err)
		}

		model.Lines = append(model.Lines, orders[i].Lines...)
		i++

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Query retrieves sales orders based on filter criteria.
func (r *PostgresSalesOrderRepository) Query(
	ctx context.Context,
	filter *salesorder.QuerySalesOrdersModel,
) ([]salesorder.SalesOrder, error) {
	query := r.sb.
		Select(
			"id",
			"order_code",
			"store_id",
			"division_id",
			"customer_id",
			"status",
			"notes",
			"subtotal",
			"tax",
			"discount_amount",
			"freight_charges",
			"total",
			"payments",
			"created_at",
			"updated_at",
		).
		From("sales_orders")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.StoreIds) > 0 {
		query = query.Where(sq.Eq{"store_id": filter.StoreIds})
	}

	if len(filter.CustomerIds) > 0 {
		query = query.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.OrderBy("id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales orders: %w", err)
	}
	defer rows.Close()

	var result []salesorder.SalesOrder
	for rows.Next() {
		var dal SalesOrderDal
		var createdAt, updatedAt pgtype.Timestamptz

		err := rows.Scan(
			&dal.Id,
			&dal.OrderCode,
			&dal.StoreId,
			&dal.DivisionId,
			&dal.CustomerId,
			&dal.Status,
			&dal.Notes,
			&dal.Subtotal,
			&dal.Tax,
			&dal.DiscountAmount,
			&dal.FreightCharges,
			&dal.Total,
			&dal.Payments,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sales order: %w", err)
		}

		dal.CreatedAt = createdAt.Time
		dal.UpdatedAt = updatedAt.Time

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert sales order dal to model: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
