package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tably/config"
	otelMocks "tably/infras/otel/mocks"
	orderMocks "tably/internal/domains/order/mocks"
	"tably/internal/domains/order/model"
	"tably/internal/domains/order/model/dto"
	restaurantMocks "tably/internal/domains/restaurant/mocks"
	restaurantModel "tably/internal/domains/restaurant/model"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	"tably/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (missCache) Delete(_ context.Context, _ string) error             { return nil }
func (missCache) Clear(_ context.Context, _ string) error              { return nil }

type fixture struct {
	svc         Order
	repo        *orderMocks.MockOrder
	restaurants *restaurantMocks.MockRestaurant
	menu        *restaurantMocks.MockMenu
	clock       *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}

	repo := orderMocks.NewMockOrder(ctrl)
	restaurants := restaurantMocks.NewMockRestaurant(ctrl)
	menu := restaurantMocks.NewMockMenu(ctrl)
	clk := clock.NewFake(time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		svc:         New(repo, restaurants, menu, clk, cfg, missCache{}, otelMocks.NewOtel()),
		repo:        repo,
		restaurants: restaurants,
		menu:        menu,
		clock:       clk,
	}
}

func openRestaurant() restaurantModel.Restaurant {
	return restaurantModel.Restaurant{
		ID:              "resto-1",
		Name:            "Bistro",
		OwnerID:         "owner-1",
		Open:            true,
		DeliveryCharge:  20,
		PackagingCharge: 10,
		Active:          true,
	}
}

func menuItem(id string, price float64) restaurantModel.MenuItem {
	return restaurantModel.MenuItem{
		ID:           id,
		RestaurantID: "resto-1",
		Name:         "dish " + id,
		Price:        price,
		Available:    true,
	}
}

func TestPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("computes line totals, charges and discount", func(t *testing.T) {
		fx := newFixture(t)

		fx.restaurants.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil)
		fx.menu.EXPECT().Get(gomock.Any(), gomock.Any()).Return(menuItem("menu-1", 100), nil)
		fx.menu.EXPECT().Get(gomock.Any(), gomock.Any()).Return(menuItem("menu-2", 50), nil)
		fx.repo.EXPECT().NextOrderNumber(gomock.Any()).Return(int64(1042), nil)

		var created model.Order

		fx.repo.EXPECT().CreateWithItems(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, order model.Order, items []model.OrderItem) error {
				created = order

				require.Len(t, items, 2)
				assert.Equal(t, 200.0, items[0].LineTotal)
				assert.Equal(t, 50.0, items[1].LineTotal)

				return nil
			})

		res, err := fx.svc.Place(ctx, dto.PlaceOrderRequest{
			RestaurantID: "resto-1",
			Items: []dto.OrderItemRequest{
				{MenuItemID: "menu-1", Quantity: 2},
				{MenuItemID: "menu-2", Quantity: 1},
			},
			Discount: 30,
		}, "user-1")

		require.NoError(t, err)
		assert.Equal(t, 250.0, created.Subtotal)
		assert.Equal(t, 250.0, created.TotalAmount)
		assert.Equal(t, model.StatusPending, created.Status)
		assert.Equal(t, int64(1042), created.OrderNumber)
		assert.Equal(t, int64(1042), res.OrderNumber)
		assert.Equal(t, string(model.StatusPending), res.Status)
	})

	t.Run("rejects an empty order", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.svc.Place(ctx, dto.PlaceOrderRequest{RestaurantID: "resto-1"}, "user-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects a closed restaurant", func(t *testing.T) {
		fx := newFixture(t)

		closed := openRestaurant()
		closed.Open = false
		fx.restaurants.EXPECT().Get(gomock.Any(), gomock.Any()).Return(closed, nil)

		_, err := fx.svc.Place(ctx, dto.PlaceOrderRequest{
			RestaurantID: "resto-1",
			Items:        []dto.OrderItemRequest{{MenuItemID: "menu-1", Quantity: 1}},
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("rejects a discount that exceeds the order value", func(t *testing.T) {
		fx := newFixture(t)

		fx.restaurants.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil)
		fx.menu.EXPECT().Get(gomock.Any(), gomock.Any()).Return(menuItem("menu-1", 100), nil)

		_, err := fx.svc.Place(ctx, dto.PlaceOrderRequest{
			RestaurantID: "resto-1",
			Items:        []dto.OrderItemRequest{{MenuItemID: "menu-1", Quantity: 1}},
			Discount:     1000,
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects a menu item from another restaurant", func(t *testing.T) {
		fx := newFixture(t)

		fx.restaurants.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil)

		foreign := menuItem("menu-9", 80)
		foreign.RestaurantID = "resto-2"
		fx.menu.EXPECT().Get(gomock.Any(), gomock.Any()).Return(foreign, nil)

		_, err := fx.svc.Place(ctx, dto.PlaceOrderRequest{
			RestaurantID: "resto-1",
			Items:        []dto.OrderItemRequest{{MenuItemID: "menu-9", Quantity: 1}},
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("rejects an unavailable menu item", func(t *testing.T) {
		fx := newFixture(t)

		fx.restaurants.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openRestaurant(), nil)

		off := menuItem("menu-1", 100)
		off.Available = false
		fx.menu.EXPECT().Get(gomock.Any(), gomock.Any()).Return(off, nil)

		_, err := fx.svc.Place(ctx, dto.PlaceOrderRequest{
			RestaurantID: "resto-1",
			Items:        []dto.OrderItemRequest{{MenuItemID: "menu-1", Quantity: 1}},
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func placedOrder(status model.Status) model.Order {
	return model.Order{
		ID:           "order-1",
		OrderNumber:  7,
		RestaurantID: "resto-1",
		CustomerID:   "user-1",
		Status:       status,
		TotalAmount:  250,
	}
}

func TestAdvance(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the sequence one step at a time", func(t *testing.T) {
		steps := map[model.Status]model.Status{
			model.StatusPending:        model.StatusConfirmed,
			model.StatusConfirmed:      model.StatusPreparing,
			model.StatusPreparing:      model.StatusReadyForPickup,
			model.StatusReadyForPickup: model.StatusOnTheWay,
			model.StatusOnTheWay:       model.StatusDelivered,
		}

		for from, want := range steps {
			fx := newFixture(t)

			fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(from), nil)
			fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req map[string]any, _ interface{}) error {
					assert.Equal(t, string(want), req[model.FieldStatus])

					return nil
				})

			require.NoError(t, fx.svc.Advance(ctx, "order-1", want, "owner-1", constant.RoleOwner))
		}
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusConfirmed), nil)

		err := fx.svc.Advance(ctx, "order-1", model.StatusOnTheWay, "owner-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("moving backwards is rejected", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusPreparing), nil)

		err := fx.svc.Advance(ctx, "order-1", model.StatusConfirmed, "owner-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("terminal states cannot advance", func(t *testing.T) {
		for _, status := range []model.Status{model.StatusDelivered, model.StatusCancelled} {
			fx := newFixture(t)

			fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(status), nil)

			err := fx.svc.Advance(ctx, "order-1", model.StatusDelivered, "owner-1", constant.RoleOwner)
			require.Error(t, err)
			assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		}
	})

	t.Run("customers cannot advance", func(t *testing.T) {
		fx := newFixture(t)

		err := fx.svc.Advance(ctx, "order-1", model.StatusConfirmed, "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("customer cancels before delivery", func(t *testing.T) {
		for _, status := range []model.Status{model.StatusPending, model.StatusConfirmed, model.StatusPreparing, model.StatusReadyForPickup, model.StatusOnTheWay} {
			fx := newFixture(t)

			fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(status), nil)
			fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			require.NoError(t, fx.svc.Cancel(ctx, "order-1", "user-1", constant.RoleUser))
		}
	})

	t.Run("delivered orders cannot be cancelled", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusDelivered), nil)

		err := fx.svc.Cancel(ctx, "order-1", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("strangers cannot cancel", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusPending), nil)

		err := fx.svc.Cancel(ctx, "order-1", "user-2", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("the restaurant owner cannot cancel a customer order", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusPending), nil)

		err := fx.svc.Cancel(ctx, "order-1", "owner-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestRecordFeedback(t *testing.T) {
	ctx := context.Background()
	req := dto.FeedbackRequest{Rating: 5, Feedback: "great"}

	t.Run("records rating on a delivered order", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusDelivered), nil)
		fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ interface{}) error {
				assert.Equal(t, 5, update[model.FieldRating])
				assert.Equal(t, "great", update[model.FieldFeedback])

				return nil
			})

		require.NoError(t, fx.svc.RecordFeedback(ctx, "order-1", req, "user-1"))
	})

	t.Run("rejected before delivery", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusOnTheWay), nil)

		err := fx.svc.RecordFeedback(ctx, "order-1", req, "user-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("only the customer can rate", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(placedOrder(model.StatusDelivered), nil)

		err := fx.svc.RecordFeedback(ctx, "order-1", req, "user-2")
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("a second rating is rejected", func(t *testing.T) {
		fx := newFixture(t)

		rated := placedOrder(model.StatusDelivered)
		rated.Rating = 4
		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(rated, nil)

		err := fx.svc.RecordFeedback(ctx, "order-1", req, "user-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}
