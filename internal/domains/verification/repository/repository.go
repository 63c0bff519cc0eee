package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/internal/domains/verification/model"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/logger"
	gRepo "tably/shared/repository"
)

type VerificationCode interface {
	Replace(ctx context.Context, code model.VerificationCode) error
	GetByIdentity(ctx context.Context, identityID string) (model.VerificationCode, error)
	Consume(ctx context.Context, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.VerificationCode]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) VerificationCode {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.VerificationCode](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Replace removes any previous code of the identity and stores the new
// one, keeping at most one code per identity.
func (repo *repositoryImpl) Replace(ctx context.Context, code model.VerificationCode) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".verification_code.Replace")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (verification_code): %w", err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = :identity_id", model.TableName, model.FieldIdentityID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = tx.NamedExecContext(ctx, query, map[string]any{"identity_id": code.IdentityID}); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete previous verification code: %w", err)
	}

	if err = repo.InsertTx(ctx, tx, code); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (verification_code): %w", err)
	}

	return nil
}

func (repo *repositoryImpl) GetByIdentity(ctx context.Context, identityID string) (model.VerificationCode, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIdentityID,
				Value:    identityID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	return repo.Get(ctx, filter)
}

// Consume marks the code used. A consumed code never validates again.
func (repo *repositoryImpl) Consume(ctx context.Context, id string) error {
	updated := map[string]any{
		model.FieldConsumed: true,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	return repo.Update(ctx, updated, filter)
}
