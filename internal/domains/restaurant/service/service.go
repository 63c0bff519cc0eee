package service

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/otel"
	bookingModel "tably/internal/domains/booking/model"
	bookingSvc "tably/internal/domains/booking/service"
	"tably/internal/domains/restaurant/model"
	"tably/internal/domains/restaurant/model/dto"
	"tably/internal/domains/restaurant/repository"
	"tably/shared"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetRestaurant    = "restaurant:get"
	cacheGetAllRestaurant = "restaurant:gets"
	cacheCountRestaurant  = "restaurant:count"
	cacheGetMenu          = "restaurant:menu"
)

type Restaurant interface {
	Create(ctx context.Context, req dto.CreateRestaurantRequest, ownerID string) (dto.RestaurantResponse, error)
	Get(ctx context.Context, id string) (dto.RestaurantResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRestaurantsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req dto.UpdateRestaurantRequest, id, actorID, role string) error
	SetOpen(ctx context.Context, id string, open bool, actorID, role string) error
	Deactivate(ctx context.Context, id, actorID, role string) error
	AddMenuItem(ctx context.Context, req dto.CreateMenuItemRequest, restaurantID, actorID, role string) (dto.MenuItemResponse, error)
	UpdateMenuItem(ctx context.Context, req dto.UpdateMenuItemRequest, restaurantID, itemID, actorID, role string) error
	GetMenu(ctx context.Context, restaurantID string) (dto.GetMenuResponse, error)
}

type serviceImpl struct {
	repo     repository.Restaurant
	menuRepo repository.Menu
	bookings bookingSvc.Booking
	clock    clock.Clock
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Restaurant,
	menuRepo repository.Menu,
	bookings bookingSvc.Booking,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Restaurant {
	return &serviceImpl{
		repo:     repo,
		menuRepo: menuRepo,
		bookings: bookings,
		clock:    clk,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Create registers a restaurant. Capacity and slot duration fall back to
// the configured defaults when the request leaves them unset; the
// restaurant starts closed until the owner opens it.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRestaurantRequest, ownerID string) (res dto.RestaurantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant := req.ToModel(ownerID, s.cfg.Booking.DefaultTableCapacity, s.cfg.Booking.TableSlotMinutes, s.clock.Now())

	if err = s.repo.Insert(ctx, restaurant); err != nil {
		log.Error().Err(err).Msg("failed to create restaurant")

		return res, fmt.Errorf("failed to create restaurant: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRestaurant)
		shared.InvalidateCaches(c, s.cache, cacheCountRestaurant)
	}()

	res.FromModel(restaurant)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RestaurantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRestaurant, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for restaurant")

		return res, nil
	}

	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(restaurant)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save restaurant to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRestaurantsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRestaurant, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for restaurants")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count restaurants")

		return res, fmt.Errorf("failed to count restaurants: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurants")

		return res, fmt.Errorf("failed to get restaurants: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save restaurants to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRestaurant, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count restaurants")

		return res, fmt.Errorf("failed to count restaurants: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save restaurant count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRestaurantRequest, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return err
	}

	if err = s.ownedBy(restaurant, actorID, role); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, actorID, s.clock.Now())

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update restaurant")

		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// SetOpen flips order intake. A closed restaurant rejects new orders but
// keeps its existing bookings and in-flight orders untouched.
func (s *serviceImpl) SetOpen(ctx context.Context, id string, open bool, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetOpen")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return err
	}

	if err = s.ownedBy(restaurant, actorID, role); err != nil {
		return err
	}

	updated := map[string]any{
		model.FieldOpen:          open,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to set restaurant open state")

		return fmt.Errorf("failed to set restaurant open state: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Deactivate retires the restaurant and cancels its still-cancellable
// table bookings.
func (s *serviceImpl) Deactivate(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deactivate")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return err
	}

	if err = s.ownedBy(restaurant, actorID, role); err != nil {
		return err
	}

	updated := map[string]any{
		model.FieldActive:        false,
		model.FieldOpen:          false,
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err = s.repo.Update(ctx, updated, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to deactivate restaurant")

		return fmt.Errorf("failed to deactivate restaurant: %w", err)
	}

	if err = s.bookings.CancelForResource(ctx, bookingModel.ResourceTable, id, actorID); err != nil {
		log.Error().Err(err).Str("restaurant_id", id).Msg("failed to cancel bookings for deactivated restaurant")

		return fmt.Errorf("failed to cancel bookings for deactivated restaurant: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) AddMenuItem(ctx context.Context, req dto.CreateMenuItemRequest, restaurantID, actorID, role string) (res dto.MenuItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddMenuItem")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return res, err
	}

	if err = s.ownedBy(restaurant, actorID, role); err != nil {
		return res, err
	}

	item := req.ToModel(restaurantID, actorID, s.clock.Now())

	if err = s.menuRepo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to add menu item")

		return res, fmt.Errorf("failed to add menu item: %w", err)
	}

	s.invalidateMenu(ctx, restaurantID)

	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) UpdateMenuItem(ctx context.Context, req dto.UpdateMenuItemRequest, restaurantID, itemID, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMenuItem")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return err
	}

	if err = s.ownedBy(restaurant, actorID, role); err != nil {
		return err
	}

	item, err := s.menuRepo.Get(ctx, shared.FilterByID(itemID, model.MenuFieldID, model.MenuTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu item")

		return fmt.Errorf("failed to get menu item: %w", err)
	}

	if item.ID == constant.Empty || item.RestaurantID != restaurantID {
		return failure.NotFound("menu item") //nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, actorID, s.clock.Now())

	if err = s.menuRepo.Update(ctx, updatedFields, shared.FilterByID(itemID, model.MenuFieldID, model.MenuTableName)); err != nil {
		log.Error().Err(err).Msg("failed to update menu item")

		return fmt.Errorf("failed to update menu item: %w", err)
	}

	s.invalidateMenu(ctx, restaurantID)

	return nil
}

func (s *serviceImpl) GetMenu(ctx context.Context, restaurantID string) (res dto.GetMenuResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMenu")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMenu, restaurantID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for menu")

		return res, nil
	}

	if _, err = s.loadRestaurant(ctx, restaurantID); err != nil {
		return res, err
	}

	items, err := s.menuRepo.GetAll(ctx, gDto.QueryParams{}, menuFilter(restaurantID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get menu")

		return res, fmt.Errorf("failed to get menu: %w", err)
	}

	res.FromModels(items)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save menu to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) loadRestaurant(ctx context.Context, id string) (model.Restaurant, error) {
	restaurant, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant")

		return restaurant, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant.ID == constant.Empty {
		return restaurant, failure.NotFound("restaurant") //nolint:wrapcheck
	}

	return restaurant, nil
}

func (s *serviceImpl) ownedBy(restaurant model.Restaurant, actorID, role string) error {
	if restaurant.OwnerID != actorID && role != constant.RoleAdmin {
		return failure.Forbidden("only the restaurant owner or an admin can manage a restaurant") //nolint:wrapcheck
	}

	return nil
}

func menuFilter(restaurantID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.MenuFieldRestaurantID,
				Value:    restaurantID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.MenuTableName,
			},
		},
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRestaurant, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete restaurant from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRestaurant)
		shared.InvalidateCaches(c, s.cache, cacheCountRestaurant)
	}()
}

func (s *serviceImpl) invalidateMenu(ctx context.Context, restaurantID string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMenu, restaurantID)); err != nil {
			log.Error().Err(err).Msg("failed to delete menu from cache")
		}
	}()
}
