package service

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/otel"
	mealplanModel "tably/internal/domains/mealplan/model"
	mealplanRepo "tably/internal/domains/mealplan/repository"
	"tably/internal/domains/subscription/model"
	"tably/internal/domains/subscription/model/dto"
	"tably/internal/domains/subscription/repository"
	"tably/shared"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"
	gModel "tably/shared/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetSubscription    = "subscription:get"
	cacheGetAllSubscription = "subscription:gets"
	cacheCountSubscription  = "subscription:count"
)

type Subscription interface {
	Subscribe(ctx context.Context, req dto.SubscribeRequest, subscriberID string) (dto.SubscriptionResponse, error)
	Pause(ctx context.Context, id, actorID, role string) error
	Resume(ctx context.Context, id, actorID, role string) error
	Cancel(ctx context.Context, id, actorID, role string) error
	Complete(ctx context.Context, id, actorID, role string) error
	Get(ctx context.Context, id string) (dto.SubscriptionResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSubscriptionsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	CancelForPlan(ctx context.Context, mealPlanID, actorID string) error
}

type serviceImpl struct {
	repo     repository.Subscription
	planRepo mealplanRepo.MealPlan
	clock    clock.Clock
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Subscription,
	planRepo mealplanRepo.MealPlan,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Subscription {
	return &serviceImpl{
		repo:     repo,
		planRepo: planRepo,
		clock:    clk,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Subscribe(ctx context.Context, req dto.SubscribeRequest, subscriberID string) (res dto.SubscriptionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Subscribe")
	defer scope.End()
	defer scope.TraceIfError(err)

	plan, err := s.planRepo.Get(ctx, shared.FilterByID(req.MealPlanID, mealplanModel.FieldID, mealplanModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get meal plan")

		return res, fmt.Errorf("failed to get meal plan: %w", err)
	}

	if plan.ID == constant.Empty || !plan.Active {
		return res, failure.NotFound("meal plan") //nolint:wrapcheck
	}

	start, end, err := req.Window()
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !end.After(start) {
		return res, failure.BadRequestFromString("end_date must be after start_date") //nolint:wrapcheck
	}

	now := s.clock.Now()

	subscription := model.Subscription{
		ID:           uuid.NewString(),
		MealPlanID:   plan.ID,
		SubscriberID: subscriberID,
		WindowStart:  start,
		WindowEnd:    end,
		PricePerDay:  plan.PricePerDay,
		Status:       model.StatusActive,
		Metadata:     gModel.NewMetadata(now, subscriberID),
	}
	subscription.TotalAmount = plan.PricePerDay * float64(subscription.Days())

	if err = s.repo.Insert(ctx, subscription); err != nil {
		log.Error().Err(err).Msg("failed to create subscription")

		return res, fmt.Errorf("failed to create subscription: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSubscription)
		shared.InvalidateCaches(c, s.cache, cacheCountSubscription)
	}()

	res.FromModel(subscription)

	return res, nil
}

func (s *serviceImpl) Pause(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pause")
	defer scope.End()
	defer scope.TraceIfError(err)

	subscription, err := s.loadOwned(ctx, id, actorID, role)
	if err != nil {
		return err
	}

	if !s.clock.Now().Before(subscription.WindowEnd) {
		return failure.UnprocessableFromString("subscription window has already ended") //nolint:wrapcheck
	}

	return s.transition(ctx, subscription, model.StatusPaused, actorID)
}

func (s *serviceImpl) Resume(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resume")
	defer scope.End()
	defer scope.TraceIfError(err)

	subscription, err := s.loadOwned(ctx, id, actorID, role)
	if err != nil {
		return err
	}

	if !s.clock.Now().Before(subscription.WindowEnd) {
		return failure.UnprocessableFromString("subscription window has already ended") //nolint:wrapcheck
	}

	return s.transition(ctx, subscription, model.StatusActive, actorID)
}

func (s *serviceImpl) Cancel(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	subscription, err := s.loadOwned(ctx, id, actorID, role)
	if err != nil {
		return err
	}

	return s.transition(ctx, subscription, model.StatusCancelled, actorID)
}

// Complete closes out a subscription whose window has elapsed.
func (s *serviceImpl) Complete(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	subscription, err := s.loadOwned(ctx, id, actorID, role)
	if err != nil {
		return err
	}

	if s.clock.Now().Before(subscription.WindowEnd) {
		return failure.UnprocessableFromString("subscription window has not ended yet") //nolint:wrapcheck
	}

	return s.transition(ctx, subscription, model.StatusCompleted, actorID)
}

func (s *serviceImpl) loadOwned(ctx context.Context, id, actorID, role string) (model.Subscription, error) {
	subscription, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get subscription")

		return subscription, fmt.Errorf("failed to get subscription: %w", err)
	}

	if subscription.ID == constant.Empty {
		return subscription, failure.NotFound("subscription") //nolint:wrapcheck
	}

	if !subscription.IsSubscriber(actorID) && role != constant.RoleAdmin {
		return subscription, failure.Forbidden("only the subscriber or an admin can manage a subscription") //nolint:wrapcheck
	}

	return subscription, nil
}

func (s *serviceImpl) transition(ctx context.Context, subscription model.Subscription, to model.Status, actorID string) error {
	if !model.CanTransition(subscription.Status, to) {
		return failure.InvalidTransition(model.EntityName, string(subscription.Status), string(to)) //nolint:wrapcheck
	}

	updated := map[string]any{
		model.FieldStatus:        string(to),
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err := s.repo.Update(ctx, updated, shared.FilterByID(subscription.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update subscription status")

		return fmt.Errorf("failed to update subscription status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetSubscription, subscription.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete subscription from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllSubscription)
		shared.InvalidateCaches(c, s.cache, cacheCountSubscription)
	}()

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.SubscriptionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetSubscription, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for subscription")

		return res, nil
	}

	subscription, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get subscription")

		return res, fmt.Errorf("failed to get subscription: %w", err)
	}

	if subscription.ID == constant.Empty {
		return res, failure.NotFound("subscription") //nolint:wrapcheck
	}

	res.FromModel(subscription)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save subscription to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSubscriptionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSubscription, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for subscriptions")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count subscriptions")

		return res, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get subscriptions")

		return res, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save subscriptions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountSubscription, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count subscriptions")

		return res, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save subscription count to cache")
		}
	}()

	return res, nil
}

// CancelForPlan cancels every running subscription of a meal plan. Plan
// deactivation calls this cascade explicitly.
func (s *serviceImpl) CancelForPlan(ctx context.Context, mealPlanID, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelForPlan")
	defer scope.End()
	defer scope.TraceIfError(err)

	running, err := s.repo.GetRunningForPlan(ctx, mealPlanID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load subscriptions for meal plan")

		return fmt.Errorf("failed to load subscriptions for meal plan: %w", err)
	}

	for _, subscription := range running {
		if err = s.transition(ctx, subscription, model.StatusCancelled, actorID); err != nil {
			return err
		}
	}

	return nil
}
