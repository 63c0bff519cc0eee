package service

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/otel"
	"tably/internal/domains/order/model"
	"tably/internal/domains/order/model/dto"
	"tably/internal/domains/order/repository"
	restaurantModel "tably/internal/domains/restaurant/model"
	restaurantRepo "tably/internal/domains/restaurant/repository"
	"tably/shared"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetOrder    = "order:get"
	cacheGetAllOrder = "order:gets"
	cacheCountOrder  = "order:count"
)

type Order interface {
	Place(ctx context.Context, req dto.PlaceOrderRequest, customerID string) (dto.OrderResponse, error)
	Advance(ctx context.Context, id string, next model.Status, actorID, role string) error
	Cancel(ctx context.Context, id, actorID, role string) error
	RecordFeedback(ctx context.Context, id string, req dto.FeedbackRequest, actorID string) error
	Get(ctx context.Context, id string) (dto.OrderResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOrdersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo           repository.Order
	restaurantRepo restaurantRepo.Restaurant
	menuRepo       restaurantRepo.Menu
	clock          clock.Clock
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(
	repo repository.Order,
	restaurantRepo restaurantRepo.Restaurant,
	menuRepo restaurantRepo.Menu,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Order {
	return &serviceImpl{
		repo:           repo,
		restaurantRepo: restaurantRepo,
		menuRepo:       menuRepo,
		clock:          clk,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

func (s *serviceImpl) Place(ctx context.Context, req dto.PlaceOrderRequest, customerID string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Place")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(req.Items) == 0 {
		return res, failure.BadRequestFromString("order must contain at least one item") //nolint:wrapcheck
	}

	restaurant, err := s.restaurantRepo.Get(ctx, shared.FilterByID(req.RestaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant")

		return res, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant.ID == constant.Empty || !restaurant.Active {
		return res, failure.NotFound("restaurant") //nolint:wrapcheck
	}

	if !restaurant.Open {
		return res, failure.UnprocessableFromString("restaurant is closed") //nolint:wrapcheck
	}

	now := s.clock.Now()
	orderID := uuid.NewString()

	items, subtotal, err := s.priceItems(ctx, req.Items, restaurant.ID, orderID, customerID, now)
	if err != nil {
		return res, err
	}

	total := subtotal + restaurant.DeliveryCharge + restaurant.PackagingCharge - req.Discount
	if total < 0 {
		return res, failure.BadRequestFromString("discount exceeds order value") //nolint:wrapcheck
	}

	orderNumber, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to allocate order number")

		return res, fmt.Errorf("failed to allocate order number: %w", err)
	}

	order := model.Order{
		ID:              orderID,
		OrderNumber:     orderNumber,
		RestaurantID:    restaurant.ID,
		CustomerID:      customerID,
		Status:          model.StatusPending,
		Subtotal:        subtotal,
		DeliveryCharge:  restaurant.DeliveryCharge,
		PackagingCharge: restaurant.PackagingCharge,
		Discount:        req.Discount,
		TotalAmount:     total,
		Metadata:        gModel.NewMetadata(now, customerID),
	}

	if err = s.repo.CreateWithItems(ctx, order, items); err != nil {
		log.Error().Err(err).Msg("failed to create order")

		return res, fmt.Errorf("failed to create order: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllOrder)
		shared.InvalidateCaches(c, s.cache, cacheCountOrder)
	}()

	res.FromModel(order, items)

	return res, nil
}

// priceItems loads each requested menu item and snapshots its current name
// and price into an order line, so later menu edits never reprice the order.
func (s *serviceImpl) priceItems(ctx context.Context, reqs []dto.OrderItemRequest, restaurantID, orderID, customerID string, now time.Time) ([]model.OrderItem, float64, error) {
	items := make([]model.OrderItem, 0, len(reqs))
	subtotal := 0.0

	for _, itemReq := range reqs {
		menuItem, err := s.menuRepo.Get(ctx, shared.FilterByID(itemReq.MenuItemID, restaurantModel.MenuFieldID, restaurantModel.MenuTableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get menu item")

			return nil, 0, fmt.Errorf("failed to get menu item: %w", err)
		}

		if menuItem.ID == constant.Empty || menuItem.RestaurantID != restaurantID {
			return nil, 0, failure.NotFound("menu item") //nolint:wrapcheck
		}

		if !menuItem.Available {
			return nil, 0, failure.UnprocessableFromString(fmt.Sprintf("menu item %s is not available", menuItem.Name)) //nolint:wrapcheck
		}

		lineTotal := menuItem.Price * float64(itemReq.Quantity)
		subtotal += lineTotal

		items = append(items, model.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   itemReq.Quantity,
			UnitPrice:  menuItem.Price,
			LineTotal:  lineTotal,
			Metadata:   gModel.NewMetadata(now, customerID),
		})
	}

	return items, subtotal, nil
}

// Advance moves the order to the requested next status. Only the single
// status that follows in the fulfilment sequence is accepted; any other
// target, forwards or backwards, is an invalid transition.
func (s *serviceImpl) Advance(ctx context.Context, id string, next model.Status, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Advance")
	defer scope.End()
	defer scope.TraceIfError(err)

	if role != constant.RoleAdmin && role != constant.RoleOwner {
		return failure.Forbidden("only an owner or admin can advance an order") //nolint:wrapcheck
	}

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}

	expected, ok := order.Status.Next()
	if !ok || next != expected {
		return failure.InvalidTransition(model.EntityName, string(order.Status), string(next)) //nolint:wrapcheck
	}

	return s.setStatus(ctx, order, expected, actorID)
}

func (s *serviceImpl) Cancel(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}

	if !order.IsCustomer(actorID) && role != constant.RoleAdmin {
		return failure.Forbidden("only the customer or an admin can cancel an order") //nolint:wrapcheck
	}

	if !order.Status.Cancellable() {
		return failure.InvalidTransition(model.EntityName, string(order.Status), string(model.StatusCancelled)) //nolint:wrapcheck
	}

	return s.setStatus(ctx, order, model.StatusCancelled, actorID)
}

func (s *serviceImpl) RecordFeedback(ctx context.Context, id string, req dto.FeedbackRequest, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordFeedback")
	defer scope.End()
	defer scope.TraceIfError(err)

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return err
	}

	if !order.IsCustomer(actorID) {
		return failure.Forbidden("only the customer can rate an order") //nolint:wrapcheck
	}

	if order.Status != model.StatusDelivered {
		return failure.UnprocessableFromString("only delivered orders can be rated") //nolint:wrapcheck
	}

	if order.Rating != 0 {
		return failure.Conflict("order has already been rated") //nolint:wrapcheck
	}

	updated := map[string]any{
		model.FieldRating:        req.Rating,
		model.FieldFeedback:      req.Feedback,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to record order feedback")

		return fmt.Errorf("failed to record order feedback: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) loadOrder(ctx context.Context, id string) (model.Order, error) {
	order, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return order, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return order, failure.NotFound("order") //nolint:wrapcheck
	}

	return order, nil
}

func (s *serviceImpl) setStatus(ctx context.Context, order model.Order, to model.Status, actorID string) error {
	updated := map[string]any{
		model.FieldStatus:        string(to),
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err := s.repo.Update(ctx, updated, shared.FilterByID(order.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update order status")

		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.invalidate(ctx, order.ID)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetOrder, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete order from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllOrder)
		shared.InvalidateCaches(c, s.cache, cacheCountOrder)
	}()
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetOrder, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for order")

		return res, nil
	}

	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return res, err
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get order items")

		return res, fmt.Errorf("failed to get order items: %w", err)
	}

	res.FromModel(order, items)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save order to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOrdersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOrder, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for orders")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count orders")

		return res, fmt.Errorf("failed to count orders: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")

		return res, fmt.Errorf("failed to get orders: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save orders to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOrder, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for order count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count orders")

		return res, fmt.Errorf("failed to count orders: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save order count to cache")
		}
	}()

	return res, nil
}
