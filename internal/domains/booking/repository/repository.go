package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/internal/domains/booking/model"
	gDto "tably/shared/dto"
	gRepo "tably/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetActiveForResource(ctx context.Context, resourceType model.ResourceType, resourceID string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActiveForResource loads the candidate set for conflict checking: every
// booking of the resource whose status still occupies its window.
func (repo *repositoryImpl) GetActiveForResource(ctx context.Context, resourceType model.ResourceType, resourceID string) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldResourceType,
				Value:    string(resourceType),
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldResourceID,
				Value:    resourceID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.ActiveStatuses(),
				Operator: gDto.FilterOperatorIn,
			},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter)
}
