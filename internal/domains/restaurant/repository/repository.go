package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/internal/domains/restaurant/model"
	gDto "tably/shared/dto"
	gRepo "tably/shared/repository"
)

type Restaurant interface {
	Insert(ctx context.Context, model model.Restaurant) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Restaurant, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Restaurant, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type restaurantImpl struct {
	gRepo.Repository[model.Restaurant]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Restaurant {
	return &restaurantImpl{
		Repository: gRepo.NewRepository[model.Restaurant](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type Menu interface {
	Insert(ctx context.Context, model model.MenuItem) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.MenuItem, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.MenuItem, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type menuImpl struct {
	gRepo.Repository[model.MenuItem]
	db   *postgres.Connection
	otel otel.Otel
}

func NewMenu(db *postgres.Connection, otel otel.Otel) Menu {
	return &menuImpl{
		Repository: gRepo.NewRepository[model.MenuItem](model.MenuEntityName, model.MenuTableName, model.MenuFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
