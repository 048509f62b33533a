package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/retailworks/backoffice/internal/dal/interfaces/iorderlinerepo"
	"github.com/retailworks/backoffice/internal/dal/interfaces/ioutboxrepo"
	"github.com/retailworks/backoffice/internal/dal/interfaces/isalesorderrepo"
	"github.com/retailworks/backoffice/internal/dal/postgres"
	orderlinerepo "github.com/retailworks/backoffice/internal/dal/repositories/orderline/postgres"
	outboxrepo "github.com/retailworks/backoffice/internal/dal/repositories/outbox/postgres"
	salesorderrepo "github.com/retailworks/backoffice/internal/dal/repositories/salesorder/postgres"
)

// unitOfWork groups the archive repositories behind one transaction so an
// order, its lines, and its outbox event commit or roll back together.
type unitOfWork struct {
	client        *postgres.Client
	tx            pgx.Tx
	salesOrderRep isalesorderrepo.PostgresRepository
	orderLineRep  iorderlinerepo.PostgresRepository
	outboxRep     ioutboxrepo.Repository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		client:        client,
		salesOrderRep: salesorderrepo.NewPostgresSalesOrderRepository(client.Pool()),
		orderLineRep:  orderlinerepo.NewPostgresOrderLineRepository(client.Pool()),
		outboxRep:     outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) SalesOrderRepository() isalesorderrepo.PostgresRepository {
	return u.salesOrderRep
}

func (u *unitOfWork) OrderLineRepository() iorderlinerepo.PostgresRepository {
	return u.orderLineRep
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.Repository {
	return u.outboxRep
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.salesOrderRep = salesorderrepo.NewPostgresSalesOrderRepository(tx)
	u.orderLineRep = orderlinerepo.NewPostgresOrderLineRepository(tx)
	u.outboxRep = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
