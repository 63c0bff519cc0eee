package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tably/config"
	otelMocks "tably/infras/otel/mocks"
	mealplanMocks "tably/internal/domains/mealplan/mocks"
	mealplanModel "tably/internal/domains/mealplan/model"
	subscriptionMocks "tably/internal/domains/subscription/mocks"
	"tably/internal/domains/subscription/model"
	"tably/internal/domains/subscription/model/dto"
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
	svc   Subscription
	repo  *subscriptionMocks.MockSubscription
	plans *mealplanMocks.MockMealPlan
	clock *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := subscriptionMocks.NewMockSubscription(ctrl)
	plans := mealplanMocks.NewMockMealPlan(ctrl)
	clk := clock.NewFake(time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC))

	return &fixture{
		svc:   New(repo, plans, clk, &config.Config{}, missCache{}, otelMocks.NewOtel()),
		repo:  repo,
		plans: plans,
		clock: clk,
	}
}

func activePlan() mealplanModel.MealPlan {
	return mealplanModel.MealPlan{
		ID:          "plan-1",
		Name:        "Weekday Lunch",
		KitchenID:   "kitchen-1",
		PricePerDay: 120,
		Active:      true,
	}
}

func runningSubscription(status model.Status) model.Subscription {
	return model.Subscription{
		ID:           "sub-1",
		MealPlanID:   "plan-1",
		SubscriberID: "user-1",
		WindowStart:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:    time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		PricePerDay:  120,
		TotalAmount:  3600,
		Status:       status,
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("prices the window at price per day times days", func(t *testing.T) {
		fx := newFixture(t)

		fx.plans.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)

		var created model.Subscription

		fx.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, subscription model.Subscription) error {
				created = subscription

				return nil
			})

		res, err := fx.svc.Subscribe(ctx, dto.SubscribeRequest{
			MealPlanID: "plan-1",
			StartDate:  "2025-04-01",
			EndDate:    "2025-05-01",
		}, "user-1")

		require.NoError(t, err)
		assert.Equal(t, 30, created.Days())
		assert.Equal(t, 3600.0, created.TotalAmount)
		assert.Equal(t, model.StatusActive, created.Status)
		assert.Equal(t, 3600.0, res.TotalAmount)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		fx := newFixture(t)

		fx.plans.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)

		_, err := fx.svc.Subscribe(ctx, dto.SubscribeRequest{
			MealPlanID: "plan-1",
			StartDate:  "2025-05-01",
			EndDate:    "2025-04-01",
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("rejects an inactive plan", func(t *testing.T) {
		fx := newFixture(t)

		inactive := activePlan()
		inactive.Active = false
		fx.plans.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)

		_, err := fx.svc.Subscribe(ctx, dto.SubscribeRequest{
			MealPlanID: "plan-1",
			StartDate:  "2025-04-01",
			EndDate:    "2025-05-01",
		}, "user-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestPauseResume(t *testing.T) {
	ctx := context.Background()

	t.Run("pauses an active subscription inside the window", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusActive), nil)
		fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ interface{}) error {
				assert.Equal(t, string(model.StatusPaused), update[model.FieldStatus])

				return nil
			})

		require.NoError(t, fx.svc.Pause(ctx, "sub-1", "user-1", constant.RoleUser))
	})

	t.Run("resumes a paused subscription", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusPaused), nil)
		fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, fx.svc.Resume(ctx, "sub-1", "user-1", constant.RoleUser))
	})

	t.Run("rejects pause after the window ended", func(t *testing.T) {
		fx := newFixture(t)
		fx.clock.Set(time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC))

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusActive), nil)

		err := fx.svc.Pause(ctx, "sub-1", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("pausing a paused subscription is an invalid transition", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusPaused), nil)

		err := fx.svc.Pause(ctx, "sub-1", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("strangers cannot manage the subscription", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusActive), nil)

		err := fx.svc.Pause(ctx, "sub-1", "user-2", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestCancelSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels from active and paused", func(t *testing.T) {
		for _, status := range []model.Status{model.StatusActive, model.StatusPaused} {
			fx := newFixture(t)

			fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(status), nil)
			fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			require.NoError(t, fx.svc.Cancel(ctx, "sub-1", "user-1", constant.RoleUser))
		}
	})

	t.Run("cancelled subscriptions stay cancelled", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusCancelled), nil)

		err := fx.svc.Cancel(ctx, "sub-1", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestCompleteSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("completes once the window has elapsed", func(t *testing.T) {
		fx := newFixture(t)
		fx.clock.Set(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC))

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusActive), nil)
		fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, update map[string]any, _ interface{}) error {
				assert.Equal(t, string(model.StatusCompleted), update[model.FieldStatus])

				return nil
			})

		require.NoError(t, fx.svc.Complete(ctx, "sub-1", "user-1", constant.RoleUser))
	})

	t.Run("rejected while the window is running", func(t *testing.T) {
		fx := newFixture(t)

		fx.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(runningSubscription(model.StatusActive), nil)

		err := fx.svc.Complete(ctx, "sub-1", "user-1", constant.RoleUser)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestCancelForPlan(t *testing.T) {
	fx := newFixture(t)

	active := runningSubscription(model.StatusActive)
	paused := runningSubscription(model.StatusPaused)
	paused.ID = "sub-2"

	fx.repo.EXPECT().GetRunningForPlan(gomock.Any(), "plan-1").Return([]model.Subscription{active, paused}, nil)
	fx.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	require.NoError(t, fx.svc.CancelForPlan(context.Background(), "plan-1", "admin-1"))
}
