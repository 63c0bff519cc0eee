package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/internal/domains/subscription/model"
	gDto "tably/shared/dto"
	gRepo "tably/shared/repository"
)

type Subscription interface {
	Insert(ctx context.Context, model model.Subscription) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Subscription, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Subscription, error)
	GetRunningForPlan(ctx context.Context, mealPlanID string) ([]model.Subscription, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Subscription]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Subscription {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Subscription](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetRunningForPlan loads the active and paused subscriptions of a meal
// plan; plan deactivation cancels them.
func (repo *repositoryImpl) GetRunningForPlan(ctx context.Context, mealPlanID string) ([]model.Subscription, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldMealPlanID,
				Value:    mealPlanID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    []model.Status{model.StatusActive, model.StatusPaused},
				Operator: gDto.FilterOperatorIn,
			},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter)
}
