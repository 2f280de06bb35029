package postgres_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/auditrepo"
	"marketplace/internal/adapters/out/postgres/escrowrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/paymentrepo"
	"marketplace/internal/adapters/out/postgres/webhookrepo"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/webhook"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that repositories obtained from one
// unit of work share a transaction: a settlement either lands completely or
// not at all.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError is required for the escrow unique constraint mapping.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TimelineEventDTO{},
		&paymentrepo.TransactionDTO{},
		&escrowrepo.HoldingDTO{},
		&escrowrepo.TransactionDTO{},
		&webhookrepo.EventDTO{},
		&auditrepo.EntryDTO{},
	))

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE orders, order_items, order_timeline_events,
		payment_transactions, escrow_holdings, escrow_transactions,
		webhook_events, audit_entries CASCADE`).Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	unitPrice, err := kernel.NewMoney(12500, "USD")
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Ceramic mug set",
		nil, "", 2, unitPrice)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(kernel.NewUUID(), order.NewOrderNumber(),
		kernel.NewUUID(), kernel.NewUUID(), []*order.Item{item}, 500, 250, nil)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	grandTotal, err := testOrder.GrandTotal()
	suite.Require().NoError(err)

	paymentTx, err := payment.NewTransaction(kernel.NewUUID(), testOrder.ID(),
		"STRIPE", grandTotal, "requires_payment_method", "pi_123")
	suite.Require().NoError(err)

	holding, err := escrow.OpenHolding(kernel.NewUUID(), testOrder.ID(), grandTotal)
	suite.Require().NoError(err)

	ledgerEntry, err := escrow.NewTransaction(holding.ID(), escrow.TypeHold,
		grandTotal, "Funds held in escrow", nil)
	suite.Require().NoError(err)

	auditEntry, err := audit.NewEntry(nil, "order.status.PAID", "order",
		testOrder.ID().String(), nil)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.PaymentRepository().Add(ctx, paymentTx))
	suite.Require().NoError(uow.EscrowRepository().Add(ctx, holding))
	suite.Require().NoError(uow.EscrowRepository().AppendTransaction(ctx, ledgerEntry))
	suite.Require().NoError(uow.AuditRepository().Add(ctx, auditEntry))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()

	storedPayment, err := reader.PaymentRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal("pi_123", storedPayment.ProviderRef())

	storedHolding, err := reader.EscrowRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(escrow.Held, storedHolding.Status())
	suite.Equal(int64(25750), storedHolding.Amount().AmountCents())

	var ledgerCount, auditCount int64
	suite.Require().NoError(suite.db.Model(&escrowrepo.TransactionDTO{}).Count(&ledgerCount).Error)
	suite.Require().NoError(suite.db.Model(&auditrepo.EntryDTO{}).Count(&auditCount).Error)
	suite.Equal(int64(1), ledgerCount)
	suite.Equal(int64(1), auditCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEverything() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	grandTotal, err := testOrder.GrandTotal()
	suite.Require().NoError(err)

	holding, err := escrow.OpenHolding(kernel.NewUUID(), testOrder.ID(), grandTotal)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.EscrowRepository().Add(ctx, holding))
	suite.Require().NoError(uow.Rollback(ctx))

	var orderCount, holdingCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&orderCount).Error)
	suite.Require().NoError(suite.db.Model(&escrowrepo.HoldingDTO{}).Count(&holdingCount).Error)
	suite.Equal(int64(0), orderCount)
	suite.Equal(int64(0), holdingCount)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestEscrowAdd_SecondHoldingForOrderRejected() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	amount, err := kernel.NewMoney(10000, "USD")
	suite.Require().NoError(err)

	first, err := escrow.OpenHolding(kernel.NewUUID(), orderID, amount)
	suite.Require().NoError(err)
	second, err := escrow.OpenHolding(kernel.NewUUID(), orderID, amount)
	suite.Require().NoError(err)

	repo := suite.factory.Create().EscrowRepository()
	suite.Require().NoError(repo.Add(ctx, first))

	err = repo.Add(ctx, second)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrInvalidState)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWebhookRepository_RecordAndReplayLifecycle() {
	ctx := context.Background()

	event, err := webhook.NewEvent("evt_42", "payment_intent.succeeded", `{"id":"evt_42"}`)
	suite.Require().NoError(err)

	repo := suite.factory.Create().WebhookRepository()
	suite.Require().NoError(repo.Add(ctx, event))

	event.MarkFailed(errs.NewObjectNotFoundError("order", "missing"))
	suite.Require().NoError(repo.Update(ctx, event))

	failed, err := repo.GetAllFailed(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(failed, 1)
	suite.Equal("evt_42", failed[0].ID())
	suite.NotEmpty(failed[0].LastError())

	failed[0].MarkProcessed()
	suite.Require().NoError(repo.Update(ctx, failed[0]))

	stored, err := repo.Get(ctx, "evt_42")
	suite.Require().NoError(err)
	suite.True(stored.IsProcessed())
	suite.Empty(stored.LastError())

	remaining, err := repo.GetAllFailed(ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(remaining)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
