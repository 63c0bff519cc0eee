package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/internal/domains/mealplan/model"
	gDto "tably/shared/dto"
	gRepo "tably/shared/repository"
)

type MealPlan interface {
	Insert(ctx context.Context, model model.MealPlan) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.MealPlan, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.MealPlan, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.MealPlan]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) MealPlan {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.MealPlan](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
