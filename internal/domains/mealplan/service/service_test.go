package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tably/config"
	otelMocks "tably/infras/otel/mocks"
	"tably/internal/domains/mealplan/mocks"
	"tably/internal/domains/mealplan/model"
	"tably/internal/domains/mealplan/model/dto"
	subscriptionDto "tably/internal/domains/subscription/model/dto"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeSubscriptionService struct {
	cancelledPlans []string
}

func (f *fakeSubscriptionService) CancelForPlan(_ context.Context, mealPlanID, _ string) error {
	f.cancelledPlans = append(f.cancelledPlans, mealPlanID)

	return nil
}

func (f *fakeSubscriptionService) Subscribe(_ context.Context, _ subscriptionDto.SubscribeRequest, _ string) (subscriptionDto.SubscriptionResponse, error) {
	return subscriptionDto.SubscriptionResponse{}, nil
}

func (f *fakeSubscriptionService) Pause(_ context.Context, _, _, _ string) error    { return nil }
func (f *fakeSubscriptionService) Resume(_ context.Context, _, _, _ string) error   { return nil }
func (f *fakeSubscriptionService) Cancel(_ context.Context, _, _, _ string) error   { return nil }
func (f *fakeSubscriptionService) Complete(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeSubscriptionService) Get(_ context.Context, _ string) (subscriptionDto.SubscriptionResponse, error) {
	return subscriptionDto.SubscriptionResponse{}, nil
}

func (f *fakeSubscriptionService) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) (subscriptionDto.GetSubscriptionsResponse, error) {
	return subscriptionDto.GetSubscriptionsResponse{}, nil
}

func (f *fakeSubscriptionService) Count(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) (int, error) {
	return 0, nil
}

type missCache struct{}

func (missCache) Save(_ context.Context, _ string, _ any, _ int) error { return nil }
func (missCache) Get(_ context.Context, _ string, _ any) error         { return cache.Nil }
func (missCache) Delete(_ context.Context, _ string) error             { return nil }
func (missCache) Clear(_ context.Context, _ string) error              { return nil }

type fixture struct {
	svc           MealPlan
	repo          *mocks.MockMealPlan
	subscriptions *fakeSubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := mocks.NewMockMealPlan(ctrl)
	subscriptions := &fakeSubscriptionService{}
	clk := clock.NewFake(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))

	return &fixture{
		svc:           New(repo, subscriptions, clk, &config.Config{}, missCache{}, otelMocks.NewOtel()),
		repo:          repo,
		subscriptions: subscriptions,
	}
}

func activePlan() model.MealPlan {
	return model.MealPlan{
		ID:          "plan-1",
		Name:        "Lunch Box",
		KitchenID:   "kitchen-1",
		PricePerDay: 120,
		Active:      true,
	}
}

func TestMealPlanCreate(t *testing.T) {
	fix := newFixture(t)

	fix.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan model.MealPlan) error {
			assert.Equal(t, "kitchen-1", plan.KitchenID)
			assert.True(t, plan.Active)

			return nil
		})

	res, err := fix.svc.Create(context.Background(), dto.CreateMealPlanRequest{
		Name:        "Lunch Box",
		PricePerDay: 120,
	}, "kitchen-1")
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.InEpsilon(t, 120.0, res.PricePerDay, 1e-9)
}

func TestMealPlanUpdate(t *testing.T) {
	t.Run("kitchen owner reprices future subscriptions only", func(t *testing.T) {
		fix := newFixture(t)

		fix.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)
		fix.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				assert.InEpsilon(t, 150.0, req[model.FieldPricePerDay], 1e-9)

				return nil
			})

		err := fix.svc.Update(context.Background(), dto.UpdateMealPlanRequest{PricePerDay: 150}, "plan-1", "kitchen-1", constant.RoleOwner)
		require.NoError(t, err)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		fix := newFixture(t)

		fix.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)

		err := fix.svc.Update(context.Background(), dto.UpdateMealPlanRequest{Name: "Hijacked"}, "plan-1", "kitchen-2", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}

func TestMealPlanDeactivate(t *testing.T) {
	t.Run("cancels running subscriptions", func(t *testing.T) {
		fix := newFixture(t)

		fix.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)
		fix.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, req[model.FieldActive])

				return nil
			})

		err := fix.svc.Deactivate(context.Background(), "plan-1", "kitchen-1", constant.RoleOwner)
		require.NoError(t, err)

		assert.Equal(t, []string{"plan-1"}, fix.subscriptions.cancelledPlans)
	})

	t.Run("admin may deactivate any plan", func(t *testing.T) {
		fix := newFixture(t)

		fix.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)
		fix.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := fix.svc.Deactivate(context.Background(), "plan-1", "admin-1", constant.RoleAdmin)
		require.NoError(t, err)
	})

	t.Run("unknown plan", func(t *testing.T) {
		fix := newFixture(t)

		fix.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MealPlan{}, nil)

		err := fix.svc.Deactivate(context.Background(), "missing", "kitchen-1", constant.RoleOwner)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Empty(t, fix.subscriptions.cancelledPlans)
	})
}

func TestMealPlanGet(t *testing.T) {
	fix := newFixture(t)

	fix.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activePlan(), nil)

	res, err := fix.svc.Get(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Lunch Box", res.Name)
}
