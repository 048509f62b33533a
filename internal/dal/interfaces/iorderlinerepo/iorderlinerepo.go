package iorderlinerepo

import (
	"context"

	"github.com/retailworks/backoffice/internal/service/models/orderline"
)

// PostgresRepository is an interface for the order line archive repository.
type PostgresRepository interface {
	BulkInsert(ctx context.Context, lines []orderline.OrderLine) ([]orderline.OrderLine, error)
	Query(ctx context.Context, filter *orderline.QueryOrderLinesModel) ([]orderline.OrderLine, error)
}
