package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"tably/config"
	otelMocks "tably/infras/otel/mocks"
	"tably/internal/domains/booking/availability"
	"tably/internal/domains/booking/model"
	"tably/internal/domains/booking/model/dto"
	restaurantModel "tably/internal/domains/restaurant/model"
	roomModel "tably/internal/domains/room/model"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"
	"tably/shared/reslock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]model.Booking{}}
}

func (f *fakeBookingRepo) Insert(_ context.Context, booking model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bookings[booking.ID] = booking

	return nil
}

func (f *fakeBookingRepo) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bookings[idFromFilter(filter)], nil
}

func (f *fakeBookingRepo) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]model.Booking, 0, len(f.bookings))
	for _, booking := range f.bookings {
		all = append(all, booking)
	}

	return all, nil
}

func (f *fakeBookingRepo) GetActiveForResource(_ context.Context, resourceType model.ResourceType, resourceID string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var active []model.Booking

	for _, booking := range f.bookings {
		if booking.ResourceType == resourceType && booking.ResourceID == resourceID && booking.Status.Active() {
			active = append(active, booking)
		}
	}

	return active, nil
}

func (f *fakeBookingRepo) Exist(_ context.Context, filter gDto.FilterGroup) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.bookings[idFromFilter(filter)]

	return ok, nil
}

func (f *fakeBookingRepo) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.bookings), nil
}

func (f *fakeBookingRepo) Update(_ context.Context, req map[string]any, filter gDto.FilterGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[idFromFilter(filter)]
	if !ok {
		return errors.New("booking not found")
	}

	if status, ok := req[model.FieldStatus].(string); ok {
		booking.Status = model.Status(status)
	}

	f.bookings[booking.ID] = booking

	return nil
}

func (f *fakeBookingRepo) get(id string) model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bookings[id]
}

func (f *fakeBookingRepo) countByStatus(status model.Status) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0

	for _, booking := range f.bookings {
		if booking.Status == status {
			count++
		}
	}

	return count
}

type fakeRoomRepo struct {
	rooms map[string]roomModel.Room
}

func (f *fakeRoomRepo) Insert(_ context.Context, _ roomModel.Room) error { return nil }

func (f *fakeRoomRepo) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (roomModel.Room, error) {
	return f.rooms[idFromFilter(filter)], nil
}

func (f *fakeRoomRepo) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]roomModel.Room, error) {
	return nil, nil
}

func (f *fakeRoomRepo) Exist(_ context.Context, filter gDto.FilterGroup) (bool, error) {
	_, ok := f.rooms[idFromFilter(filter)]

	return ok, nil
}

func (f *fakeRoomRepo) Count(_ context.Context, _ gDto.FilterGroup) (int, error) { return 0, nil }

func (f *fakeRoomRepo) Update(_ context.Context, _ map[string]any, _ gDto.FilterGroup) error {
	return nil
}

type fakeRestaurantRepo struct {
	restaurants map[string]restaurantModel.Restaurant
}

func (f *fakeRestaurantRepo) Insert(_ context.Context, _ restaurantModel.Restaurant) error {
	return nil
}

func (f *fakeRestaurantRepo) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (restaurantModel.Restaurant, error) {
	return f.restaurants[idFromFilter(filter)], nil
}

func (f *fakeRestaurantRepo) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]restaurantModel.Restaurant, error) {
	return nil, nil
}

func (f *fakeRestaurantRepo) Exist(_ context.Context, filter gDto.FilterGroup) (bool, error) {
	_, ok := f.restaurants[idFromFilter(filter)]

	return ok, nil
}

func (f *fakeRestaurantRepo) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	return 0, nil
}

func (f *fakeRestaurantRepo) Update(_ context.Context, _ map[string]any, _ gDto.FilterGroup) error {
	return nil
}

type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (missCache) Delete(_ context.Context, _ string) error             { return nil }
func (missCache) Clear(_ context.Context, _ string) error              { return nil }

func idFromFilter(filter gDto.FilterGroup) string {
	for _, raw := range filter.Filters {
		if f, ok := raw.(gDto.Filter); ok {
			if id, ok := f.Value.(string); ok {
				return id
			}
		}
	}

	return ""
}

type fixture struct {
	svc   Booking
	repo  *fakeBookingRepo
	clock *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.Booking.TableSlotMinutes = 90
	cfg.Booking.DefaultTableCapacity = 50

	repo := newFakeBookingRepo()
	rooms := &fakeRoomRepo{rooms: map[string]roomModel.Room{
		"room-1": {ID: "room-1", Name: "Deluxe", OwnerID: "owner-1", Active: true},
		"room-2": {ID: "room-2", Name: "Closed", OwnerID: "owner-1", Active: false},
	}}
	restaurants := &fakeRestaurantRepo{restaurants: map[string]restaurantModel.Restaurant{
		"resto-1": {ID: "resto-1", Name: "Bistro", OwnerID: "owner-2", Open: true, TableCapacity: 50, SlotMinutes: 90, Active: true},
	}}

	clk := clock.NewFake(time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		svc:   New(repo, rooms, restaurants, reslock.New(), clk, cfg, missCache{}, otelMocks.NewOtel()),
		repo:  repo,
		clock: clk,
	}
}

func (fx *fixture) seedBooking(t *testing.T, booking model.Booking) {
	t.Helper()
	require.NoError(t, fx.repo.Insert(context.Background(), booking))
}

func roomBooking(id string, start, end time.Time, status model.Status) model.Booking {
	return model.Booking{
		ID:           id,
		ResourceType: model.ResourceRoom,
		ResourceID:   "room-1",
		RequesterID:  "user-1",
		WindowStart:  start,
		WindowEnd:    end,
		GuestCount:   1,
		Status:       status,
	}
}

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateRoomBooking(t *testing.T) {
	t.Run("admits and confirms a free window", func(t *testing.T) {
		fx := newFixture(t)

		res, err := fx.svc.CreateRoomBooking(context.Background(), dto.CreateRoomBookingRequest{
			RoomID:       "room-1",
			CheckInDate:  "2025-01-10",
			CheckOutDate: "2025-01-12",
		}, "user-1")

		require.NoError(t, err)
		assert.Equal(t, string(model.StatusConfirmed), res.Status)
		assert.Equal(t, model.StatusConfirmed, fx.repo.get(res.ID).Status)
	})

	t.Run("rejects an overlapping window with the conflicting booking", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))

		_, err := fx.svc.CreateRoomBooking(context.Background(), dto.CreateRoomBookingRequest{
			RoomID:       "room-1",
			CheckInDate:  "2025-01-11",
			CheckOutDate: "2025-01-13",
		}, "user-2")

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))

		var conflict *availability.ConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicting, 1)
		assert.Equal(t, "booking-a", conflict.Conflicting[0].ID)
	})

	t.Run("admits a back to back window", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))

		_, err := fx.svc.CreateRoomBooking(context.Background(), dto.CreateRoomBookingRequest{
			RoomID:       "room-1",
			CheckInDate:  "2025-01-12",
			CheckOutDate: "2025-01-14",
		}, "user-2")

		require.NoError(t, err)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.CreateRoomBooking(context.Background(), dto.CreateRoomBookingRequest{
			RoomID:       "room-1",
			CheckInDate:  "2025-01-12",
			CheckOutDate: "2025-01-10",
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

		var invalid *availability.InvalidWindowError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("rejects an unknown or inactive room", func(t *testing.T) {
		fx := newFixture(t)

		for _, roomID := range []string{"room-404", "room-2"} {
			_, err := fx.svc.CreateRoomBooking(context.Background(), dto.CreateRoomBookingRequest{
				RoomID:       roomID,
				CheckInDate:  "2025-01-10",
				CheckOutDate: "2025-01-12",
			}, "user-1")

			require.Error(t, err)
			assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		}
	})

	t.Run("only one of many concurrent requests is admitted", func(t *testing.T) {
		fx := newFixture(t)

		const workers = 16

		var wg sync.WaitGroup

		errs := make([]error, workers)

		for i := range workers {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				_, errs[i] = fx.svc.CreateRoomBooking(context.Background(), dto.CreateRoomBookingRequest{
					RoomID:       "room-1",
					CheckInDate:  "2025-01-10",
					CheckOutDate: "2025-01-12",
				}, "user-1")
			}(i)
		}

		wg.Wait()

		admitted := 0

		for _, err := range errs {
			if err == nil {
				admitted++
			} else {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			}
		}

		assert.Equal(t, 1, admitted)
		assert.Equal(t, 1, fx.repo.countByStatus(model.StatusConfirmed))
	})
}

func TestCreateTableBooking(t *testing.T) {
	seatRequest := func(guests int) dto.CreateTableBookingRequest {
		return dto.CreateTableBookingRequest{
			RestaurantID: "resto-1",
			Date:         "2025-01-10",
			StartTime:    "19:00",
			GuestCount:   guests,
		}
	}

	t.Run("admits within capacity and rejects past it", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.CreateTableBooking(context.Background(), seatRequest(30), "user-1")
		require.NoError(t, err)

		_, err = fx.svc.CreateTableBooking(context.Background(), seatRequest(25), "user-2")
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))

		_, err = fx.svc.CreateTableBooking(context.Background(), seatRequest(20), "user-3")
		require.NoError(t, err)
	})

	t.Run("disjoint slots do not share capacity", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.CreateTableBooking(context.Background(), seatRequest(50), "user-1")
		require.NoError(t, err)

		_, err = fx.svc.CreateTableBooking(context.Background(), dto.CreateTableBookingRequest{
			RestaurantID: "resto-1",
			Date:         "2025-01-10",
			StartTime:    "21:00",
			GuestCount:   50,
		}, "user-2")
		require.NoError(t, err)
	})

	t.Run("concurrent parties fill capacity exactly", func(t *testing.T) {
		fx := newFixture(t)

		const workers = 10

		var wg sync.WaitGroup

		errs := make([]error, workers)

		for i := range workers {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				_, errs[i] = fx.svc.CreateTableBooking(context.Background(), seatRequest(10), "user-1")
			}(i)
		}

		wg.Wait()

		admitted := 0

		for _, err := range errs {
			if err == nil {
				admitted++
			}
		}

		assert.Equal(t, 5, admitted)
	})
}

func TestCancel(t *testing.T) {
	t.Run("requester cancels a confirmed booking", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))

		require.NoError(t, fx.svc.Cancel(context.Background(), "booking-a", "user-1", constant.RoleUser))
		assert.Equal(t, model.StatusCancelled, fx.repo.get("booking-a").Status)
	})

	t.Run("admin may cancel on behalf of the requester", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))

		require.NoError(t, fx.svc.Cancel(context.Background(), "booking-a", "admin-1", constant.RoleAdmin))
	})

	t.Run("another user cannot cancel", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))

		err := fx.svc.Cancel(context.Background(), "booking-a", "user-2", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("cancellation after check-in is an invalid transition", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusCheckedIn))

		err := fx.svc.Cancel(context.Background(), "booking-a", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))

		var transition *failure.InvalidTransitionError
		require.ErrorAs(t, err, &transition)
		assert.Equal(t, string(model.StatusCheckedIn), transition.From)
		assert.Equal(t, string(model.StatusCancelled), transition.To)
	})

	t.Run("unknown booking", func(t *testing.T) {
		fx := newFixture(t)

		err := fx.svc.Cancel(context.Background(), "nope", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestCheckIn(t *testing.T) {
	t.Run("allowed once the window has started", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))
		fx.clock.Set(day(10).Add(15 * time.Hour))

		require.NoError(t, fx.svc.CheckIn(context.Background(), "booking-a", "owner-1", constant.RoleOwner))
		assert.Equal(t, model.StatusCheckedIn, fx.repo.get("booking-a").Status)
	})

	t.Run("rejected before the window starts", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))
		fx.clock.Set(day(9))

		err := fx.svc.CheckIn(context.Background(), "booking-a", "owner-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("plain users cannot check in", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))
		fx.clock.Set(day(11))

		err := fx.svc.CheckIn(context.Background(), "booking-a", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("table bookings have no check-in", func(t *testing.T) {
		fx := newFixture(t)
		booking := roomBooking("booking-t", day(10), day(10).Add(90*time.Minute), model.StatusConfirmed)
		booking.ResourceType = model.ResourceTable
		booking.ResourceID = "resto-1"
		fx.seedBooking(t, booking)
		fx.clock.Set(day(11))

		err := fx.svc.CheckIn(context.Background(), "booking-t", "owner-2", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestCheckOut(t *testing.T) {
	t.Run("from checked-in once the window has ended", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusCheckedIn))
		fx.clock.Set(day(12))

		require.NoError(t, fx.svc.CheckOut(context.Background(), "booking-a", "owner-1", constant.RoleOwner))
		assert.Equal(t, model.StatusCheckedOut, fx.repo.get("booking-a").Status)
	})

	t.Run("rejected before the window ends", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusCheckedIn))
		fx.clock.Set(day(11))

		err := fx.svc.CheckOut(context.Background(), "booking-a", "owner-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.Equal(t, model.StatusCheckedIn, fx.repo.get("booking-a").Status)
	})

	t.Run("skipping check-in is an invalid transition", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusConfirmed))
		fx.clock.Set(day(12))

		err := fx.svc.CheckOut(context.Background(), "booking-a", "owner-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestComplete(t *testing.T) {
	tableBooking := func(status model.Status) model.Booking {
		return model.Booking{
			ID:           "booking-t",
			ResourceType: model.ResourceTable,
			ResourceID:   "resto-1",
			RequesterID:  "user-1",
			WindowStart:  day(10).Add(19 * time.Hour),
			WindowEnd:    day(10).Add(19*time.Hour + 90*time.Minute),
			GuestCount:   4,
			Status:       status,
		}
	}

	t.Run("after the slot ends", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, tableBooking(model.StatusConfirmed))
		fx.clock.Set(day(10).Add(21 * time.Hour))

		require.NoError(t, fx.svc.Complete(context.Background(), "booking-t", "owner-2", constant.RoleOwner))
		assert.Equal(t, model.StatusCompleted, fx.repo.get("booking-t").Status)
	})

	t.Run("rejected while the slot is running", func(t *testing.T) {
		fx := newFixture(t)
		fx.seedBooking(t, tableBooking(model.StatusConfirmed))
		fx.clock.Set(day(10).Add(19*time.Hour + 30*time.Minute))

		err := fx.svc.Complete(context.Background(), "booking-t", "owner-2", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestCancelForResource(t *testing.T) {
	fx := newFixture(t)
	fx.seedBooking(t, roomBooking("booking-a", day(10), day(12), model.StatusPending))
	fx.seedBooking(t, roomBooking("booking-b", day(14), day(16), model.StatusConfirmed))
	fx.seedBooking(t, roomBooking("booking-c", day(18), day(20), model.StatusCheckedIn))

	require.NoError(t, fx.svc.CancelForResource(context.Background(), model.ResourceRoom, "room-1", "admin-1"))

	assert.Equal(t, model.StatusCancelled, fx.repo.get("booking-a").Status)
	assert.Equal(t, model.StatusCancelled, fx.repo.get("booking-b").Status)
	assert.Equal(t, model.StatusCheckedIn, fx.repo.get("booking-c").Status)
}
