package isalesorderrepo

import (
	"context"

	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// PostgresRepository is an interface for the sales order archive repository.
type PostgresRepository interface {
	BulkInsert(ctx context.Context, orders []salesorder.SalesOrder) ([]salesorder.SalesOrder, error)
	Query(ctx context.Context, filter *salesorder.QuerySalesOrdersModel) ([]salesorder.SalesOrder, error)
}
