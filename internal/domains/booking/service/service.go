package service

import (
	"context"
	"fmt"
	"tably/config"
	"tably/infras/otel"
	"tably/internal/domains/booking/availability"
	"tably/internal/domains/booking/model"
	"tably/internal/domains/booking/model/dto"
	"tably/internal/domains/booking/repository"
	restaurantModel "tably/internal/domains/restaurant/model"
	restaurantRepo "tably/internal/domains/restaurant/repository"
	roomModel "tably/internal/domains/room/model"
	roomRepo "tably/internal/domains/room/repository"
	"tably/shared"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"
	"tably/shared/reslock"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	CreateRoomBooking(ctx context.Context, req dto.CreateRoomBookingRequest, requesterID string) (dto.BookingResponse, error)
	CreateTableBooking(ctx context.Context, req dto.CreateTableBookingRequest, requesterID string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id, actorID, role string) error
	CheckIn(ctx context.Context, id, actorID, role string) error
	CheckOut(ctx context.Context, id, actorID, role string) error
	Complete(ctx context.Context, id, actorID, role string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	CancelForResource(ctx context.Context, resourceType model.ResourceType, resourceID, actorID string) error
}

type serviceImpl struct {
	repo           repository.Booking
	roomRepo       roomRepo.Room
	restaurantRepo restaurantRepo.Restaurant
	locks          reslock.Locker
	clock          clock.Clock
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	restaurantRepo restaurantRepo.Restaurant,
	locks reslock.Locker,
	clk clock.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:           repo,
		roomRepo:       roomRepo,
		restaurantRepo: restaurantRepo,
		locks:          locks,
		clock:          clk,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

func (s *serviceImpl) CreateRoomBooking(ctx context.Context, req dto.CreateRoomBookingRequest, requesterID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateRoomBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || !room.Active {
		return res, failure.NotFound("room") //nolint:wrapcheck
	}

	booking, err := req.ToModel(requesterID, s.clock.Now())
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	return s.admit(ctx, booking, func(existing []model.Booking) error {
		return availability.CheckExclusive(
			availability.Window{Start: booking.WindowStart, End: booking.WindowEnd},
			existing,
			constant.Empty,
		)
	})
}

func (s *serviceImpl) CreateTableBooking(ctx context.Context, req dto.CreateTableBookingRequest, requesterID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateTableBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.restaurantRepo.Get(ctx, shared.FilterByID(req.RestaurantID, restaurantModel.FieldID, restaurantModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant")

		return res, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant.ID == constant.Empty || !restaurant.Active {
		return res, failure.NotFound("restaurant") //nolint:wrapcheck
	}

	slotMinutes := restaurant.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = s.cfg.Booking.TableSlotMinutes
	}

	capacity := restaurant.TableCapacity
	if capacity <= 0 {
		capacity = s.cfg.Booking.DefaultTableCapacity
	}

	booking, err := req.ToModel(requesterID, slotMinutes, s.clock.Now())
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	return s.admit(ctx, booking, func(existing []model.Booking) error {
		return availability.CheckCapacity(
			availability.Window{Start: booking.WindowStart, End: booking.WindowEnd},
			booking.GuestCount,
			capacity,
			existing,
			constant.Empty,
		)
	})
}

// admit holds the resource lock across load-check-insert so two concurrent
// requests for the same resource can never both pass the conflict check.
func (s *serviceImpl) admit(ctx context.Context, booking model.Booking, check func(existing []model.Booking) error) (res dto.BookingResponse, err error) {
	unlock := s.locks.Lock(resourceKey(booking.ResourceType, booking.ResourceID))
	defer unlock()

	existing, err := s.repo.GetActiveForResource(ctx, booking.ResourceType, booking.ResourceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load bookings for resource")

		return res, fmt.Errorf("failed to load bookings for resource: %w", err)
	}

	if err = check(existing); err != nil {
		return res, admissionFailure(err) //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	res.FromModel(booking)

	return res, nil
}

// admissionFailure maps engine rejections onto HTTP-coded failures without
// losing the structured detail.
func admissionFailure(err error) error {
	switch err.(type) { //nolint:errorlint // engine errors are returned unwrapped
	case *availability.InvalidWindowError:
		return failure.BadRequest(err)
	case *availability.ConflictError:
		return failure.ConflictFromError(err)
	default:
		return failure.InternalError(err)
	}
}

func resourceKey(resourceType model.ResourceType, resourceID string) string {
	return string(resourceType) + ":" + resourceID
}

func (s *serviceImpl) Cancel(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if !booking.IsRequester(actorID) && role != constant.RoleAdmin {
		return failure.Forbidden("only the requester or an admin can cancel a booking") //nolint:wrapcheck
	}

	return s.transition(ctx, booking, model.StatusCancelled, actorID)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = operatorOnly(role); err != nil {
		return err
	}

	if booking.ResourceType != model.ResourceRoom {
		return failure.UnprocessableFromString("only room bookings support check-in") //nolint:wrapcheck
	}

	if s.clock.Now().Before(booking.WindowStart) {
		return failure.UnprocessableFromString("cannot check in before the booking window starts") //nolint:wrapcheck
	}

	return s.transition(ctx, booking, model.StatusCheckedIn, actorID)
}

func (s *serviceImpl) CheckOut(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = operatorOnly(role); err != nil {
		return err
	}

	if booking.ResourceType != model.ResourceRoom {
		return failure.UnprocessableFromString("only room bookings support check-out") //nolint:wrapcheck
	}

	if s.clock.Now().Before(booking.WindowEnd) {
		return failure.UnprocessableFromString("cannot check out before the booking window ends") //nolint:wrapcheck
	}

	return s.transition(ctx, booking, model.StatusCheckedOut, actorID)
}

func (s *serviceImpl) Complete(ctx context.Context, id, actorID, role string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = operatorOnly(role); err != nil {
		return err
	}

	if booking.ResourceType != model.ResourceTable {
		return failure.UnprocessableFromString("only table bookings complete directly") //nolint:wrapcheck
	}

	if s.clock.Now().Before(booking.WindowEnd) {
		return failure.UnprocessableFromString("cannot complete a booking before its slot ends") //nolint:wrapcheck
	}

	return s.transition(ctx, booking, model.StatusCompleted, actorID)
}

func operatorOnly(role string) error {
	if role != constant.RoleAdmin && role != constant.RoleOwner {
		return failure.Forbidden("only an owner or admin can advance a booking") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) loadBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, to model.Status, actorID string) error {
	if !model.CanTransition(booking.ResourceType, booking.Status, to) {
		return failure.InvalidTransition(model.EntityName, string(booking.Status), string(to)) //nolint:wrapcheck
	}

	updated := map[string]any{
		model.FieldStatus:        string(to),
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: actorID,
	}

	if err := s.repo.Update(ctx, updated, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// CancelForResource cancels every still-cancellable booking of a resource.
// Resource deactivation calls this cascade explicitly; bookings past
// check-in are left to run their course.
func (s *serviceImpl) CancelForResource(ctx context.Context, resourceType model.ResourceType, resourceID, actorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelForResource")
	defer scope.End()
	defer scope.TraceIfError(err)

	unlock := s.locks.Lock(resourceKey(resourceType, resourceID))
	defer unlock()

	existing, err := s.repo.GetActiveForResource(ctx, resourceType, resourceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load bookings for resource")

		return fmt.Errorf("failed to load bookings for resource: %w", err)
	}

	for _, booking := range existing {
		if !model.CanTransition(booking.ResourceType, booking.Status, model.StatusCancelled) {
			continue
		}

		if err = s.transition(ctx, booking, model.StatusCancelled, actorID); err != nil {
			return err
		}
	}

	return nil
}
