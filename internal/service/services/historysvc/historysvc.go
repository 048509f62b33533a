package historysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/retailworks/backoffice/internal/dal/interfaces/iorderlinerepo"
	"github.com/retailworks/backoffice/internal/dal/interfaces/ioutboxrepo"
	"github.com/retailworks/backoffice/internal/dal/interfaces/isalesorderrepo"
	"github.com/retailworks/backoffice/internal/dal/postgres"
	"github.com/retailworks/backoffice/internal/dal/uow"
	"github.com/retailworks/backoffice/internal/service/models/orderline"
	"github.com/retailworks/backoffice/internal/service/models/outbox"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
)

// HistoryService archives accepted orders and serves back-office listings.
type HistoryService struct {
	pgClient *postgres.Client
}

func (s *HistoryService) newUOW() unitOfWork {
	return uow.NewUnitOfWork(s.pgClient)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	SalesOrderRepository() isalesorderrepo.PostgresRepository
	OrderLineRepository() iorderlinerepo.PostgresRepository
	OutboxRepository() ioutboxrepo.Repository
}

// option is a function that configures the HistoryService.
type option func(*HistoryService)

// MustNewHistoryService creates a new HistoryService.
func MustNewHistoryService(opts ...option) *HistoryService {
	s := &HistoryService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the HistoryService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *HistoryService) {
		s.pgClient = pgClient
	}
}

// ArchiveSubmitted records an accepted order with its lines and queues an
// order.submitted event, all in one transaction.
func (s *HistoryService) ArchiveSubmitted(
	ctx context.Context,
	order salesorder.SalesOrder,
) (*salesorder.SalesOrder, error) {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = work.Rollback(ctx)
	}()

	orders, err := work.SalesOrderRepository().BulkInsert(ctx, []salesorder.SalesOrder{order})
	if err != nil {
		return nil, err
	}
	archived := orders[0]

	lines := make([]orderline.OrderLine, 0, len(archived.Lines))
	for _, line := range archived.Lines {
		line.OrderID = archived.ID
		lines = append(lines, line)
	}
	lines, err = work.OrderLineRepository().BulkInsert(ctx, lines)
	if err != nil {
		return nil, err
	}
	archived.Lines = lines

	payload, err := json.Marshal(archived)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submitted order event: %w", err)
	}

	now := time.Now()
	err = work.OutboxRepository().Insert(ctx, outbox.Message{
		ExchangeName: viper.GetString("rabbitmq.orders_exchange"),
		RoutingKey:   "order.submitted",
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   viper.GetInt("rabbitmq.outbox.max_retries"),
		CreatedAt:    now,
		UpdatedAt:    now,
		NextRetryAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return &archived, nil
}

// GetOrders retrieves archived orders with their lines based on filter.
func (s *HistoryService) GetOrders(
	ctx context.Context,
	model salesorder.QuerySalesOrdersModel,
) ([]salesorder.SalesOrder, error) {
	work := s.newUOW()

	orders, err := work.SalesOrderRepository().Query(ctx, &model)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []salesorder.SalesOrder{}, nil
	}

	lineQuery := &orderline.QueryOrderLinesModel{}
	for _, o := range orders {
		lineQuery.OrderIds = append(lineQuery.OrderIds, o.ID)
	}
	lines, err := work.OrderLineRepository().Query(ctx, lineQuery)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, line := range lines {
			if line.OrderID == orders[i].ID {
				orders[i].Lines = append(orders[i].Lines, line)
			}
		}
	}

	return orders, nil
}
