package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/internal/domains/order/model"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/logger"
	gRepo "tably/shared/repository"
)

const orderNumberSequence = "order_number_seq"

type Order interface {
	CreateWithItems(ctx context.Context, order model.Order, items []model.OrderItem) error
	NextOrderNumber(ctx context.Context) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Order, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Order, error)
	GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Order]
	items gRepo.Repository[model.OrderItem]
	db    *postgres.Connection
	otel  otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Order {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Order](model.EntityName, model.TableName, model.FieldID, db, otel),
		items:      gRepo.NewRepository[model.OrderItem](model.ItemEntityName, model.ItemTableName, model.ItemFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// CreateWithItems persists the order header and its lines in one
// transaction, so a half-written order never becomes visible.
func (repo *repositoryImpl) CreateWithItems(ctx context.Context, order model.Order, items []model.OrderItem) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".order.CreateWithItems")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (order): %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	if err = repo.InsertTx(ctx, tx, order); err != nil {
		return err
	}

	for _, item := range items {
		if err = repo.items.InsertTx(ctx, tx, item); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (order): %w", err)
	}

	return nil
}

// NextOrderNumber draws the next value from the order number sequence.
func (repo *repositoryImpl) NextOrderNumber(ctx context.Context) (number int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".order.NextOrderNumber")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT nextval('%s')", orderNumberSequence)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = repo.db.Write.GetContext(ctx, &number, query); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to get next order number: %w", err)
	}

	return number, nil
}

func (repo *repositoryImpl) GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.ItemFieldOrderID,
				Value:    orderID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	return repo.items.GetAll(ctx, gDto.QueryParams{}, filter)
}
