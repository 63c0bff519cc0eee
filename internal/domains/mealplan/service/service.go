package service

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/otel"
	"tably/internal/domains/mealplan/model"
	"tably/internal/domains/mealplan/model/dto"
	"tably/internal/domains/mealplan/repository"
	subscriptionSvc "tably/internal/domains/subscription/service"
	"tably/shared"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMealPlan    = "mealplan:get"
	cacheGetAllMealPlan = "mealplan:gets"
	cacheCountMealPlan  = "mealplan:count"
)

type MealPlan interface {
	Create(ctx context.Context, req dto.CreateMealPlanRequest, kitchenID string) (dto.MealPlanResponse, error)
	Get(ctx context.Context, id string) (dto.MealPlanResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMealPlansResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req dto.UpdateMealPlanRequest, id, actorID, role string) error
	Deactivate(ctx context.Context, id, actorID, role string) error
}

type serviceImpl struct {
	repo          repository.MealPlan
	subscriptions subscriptionSvc.Subscription
	clock         clock.Clock
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.MealPlan,
	subscriptions subscriptionSvc.Subscription,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) MealPlan {
	return &serviceImpl{
		repo:          repo,
		subscriptions: subscriptions,
		clock:         clk,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMealPlanRequest, kitchenID string) (res dto.MealPlanResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	plan := req.ToModel(kitchenID, s.clock.Now())

	if err = s.repo.Insert(ctx, plan); err != nil {
		log.Error().Err(err).Msg("failed to create meal plan")

		return res, fmt.Errorf("failed to create meal plan: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllMealPlan)
		shared.InvalidateCaches(c, s.cache, cacheCountMealPlan)
	}()

	res.FromModel(plan)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MealPlanResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMealPlan, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for meal plan")

		return res, nil
	}

	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(plan)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save meal plan to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMealPlansResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMealPlan, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for meal plans")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count meal plans")

		return res, fmt.Errorf("failed to count meal plans: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get meal plans")

		return res, fmt.Errorf("failed to get meal plans: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save meal plans to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMealPlan, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count meal plans")

		return res, fmt.Errorf("failed to count meal plans: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save meal plan count to cache")
		}
	}()

	return res, nil
}

// Update edits plan attributes. A price change only affects future
// subscriptions; running ones keep their snapshotted total.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMealPlanRequest, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return err
	}

	if err = s.ownedBy(plan, actorID, role); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, actorID, s.clock.Now())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update meal plan")

		return fmt.Errorf("failed to update meal plan: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Deactivate retires the plan and cancels its running subscriptions.
func (s *serviceImpl) Deactivate(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deactivate")
	defer scope.End()
	defer scope.TraceIfError(err)

	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return err
	}

	if err = s.ownedBy(plan, actorID, role); err != nil {
		return err
	}

	updated := map[string]any{
		model.FieldActive:        false,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to deactivate meal plan")

		return fmt.Errorf("failed to deactivate meal plan: %w", err)
	}

	if err = s.subscriptions.CancelForPlan(ctx, id, actorID); err != nil {
		log.Error().Err(err).Str("meal_plan_id", id).Msg("failed to cancel subscriptions for deactivated meal plan")

		return fmt.Errorf("failed to cancel subscriptions for deactivated meal plan: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) loadPlan(ctx context.Context, id string) (model.MealPlan, error) {
	plan, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get meal plan")

		return plan, fmt.Errorf("failed to get meal plan: %w", err)
	}

	if plan.ID == constant.Empty {
		return plan, failure.NotFound("meal plan") //nolint:wrapcheck
	}

	return plan, nil
}

func (s *serviceImpl) ownedBy(plan model.MealPlan, actorID, role string) error {
	if plan.KitchenID != actorID && role != constant.RoleAdmin {
		return failure.Forbidden("only the kitchen owner or an admin can manage a meal plan") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMealPlan, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete meal plan from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMealPlan)
		shared.InvalidateCaches(c, s.cache, cacheCountMealPlan)
	}()
}
