package mealplan

import (
	"net/http"
	"tably/infras/otel"
	"tably/internal/domains/mealplan/model"
	"tably/internal/domains/mealplan/model/dto"
	"tably/internal/domains/mealplan/service"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/validator"
	"tably/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.MealPlan
	otel    otel.Otel
}

func New(service service.MealPlan, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/mealplans", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMealPlan)
		routerGroup.Get("/", handler.GetMealPlans)
		routerGroup.Get("/{id}", handler.GetMealPlanByID)
		routerGroup.Patch("/{id}", handler.UpdateMealPlan)
		routerGroup.Delete("/{id}", handler.DeactivateMealPlan)
	})
}

func (handler *Handler) CreateMealPlan(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMealPlan")
	defer scope.End()

	req := dto.CreateMealPlanRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	userID, _ := shared.PrincipalFromContext(ctx)

	res, err := handler.service.Create(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create meal plan")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Meal plan created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) GetMealPlans(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMealPlans")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active := r.URL.Query().Get(model.FieldActive); active != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    active == "true",
			Table:    model.TableName,
		})
	}

	plans, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get meal plans")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Meal plans retrieved successfully")

	response.WithJSON(w, http.StatusOK, plans)
}

func (handler *Handler) GetMealPlanByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMealPlanByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	plan, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get meal plan by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Meal plan retrieved successfully")

	response.WithJSON(w, http.StatusOK, plan)
}

func (handler *Handler) UpdateMealPlan(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMealPlan")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateMealPlanRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.Update(ctx, req, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("meal_plan_id", id).Msg("failed to update meal plan")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Meal plan updated successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Meal plan updated successfully")
}

// DeactivateMealPlan retires a plan and cancels its running subscriptions.
func (handler *Handler) DeactivateMealPlan(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateMealPlan")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.Deactivate(ctx, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("meal_plan_id", id).Msg("failed to deactivate meal plan")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Meal plan deactivated successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Meal plan deactivated successfully")
}
