package subscription

import (
	"context"
	"net/http"
	"tably/infras/otel"
	"tably/internal/domains/subscription/model"
	"tably/internal/domains/subscription/model/dto"
	"tably/internal/domains/subscription/service"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/validator"
	"tably/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Subscription
	otel    otel.Otel
}

func New(service service.Subscription, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/subscriptions", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Subscribe)
		routerGroup.Get("/", handler.GetSubscriptions)
		routerGroup.Get("/mysubscriptions", handler.GetMySubscriptions)
		routerGroup.Get("/{id}", handler.GetSubscriptionByID)
		routerGroup.Post("/{id}/pause", handler.Pause)
		routerGroup.Post("/{id}/resume", handler.Resume)
		routerGroup.Post("/{id}/cancel", handler.Cancel)
		routerGroup.Post("/{id}/complete", handler.Complete)
	})
}

func (handler *Handler) Subscribe(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Subscribe")
	defer scope.End()

	req := dto.SubscribeRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	userID, _ := shared.PrincipalFromContext(ctx)

	res, err := handler.service.Subscribe(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to subscribe")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Subscription created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSubscriptions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.subscriptionFilters(r, nil)

	subscriptions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get subscriptions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Subscriptions retrieved successfully")

	response.WithJSON(w, http.StatusOK, subscriptions)
}

func (handler *Handler) GetMySubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMySubscriptions")
	defer scope.End()

	userID, _ := shared.PrincipalFromContext(ctx)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.subscriptionFilters(r, []any{
		gDto.Filter{
			Field:    model.FieldSubscriberID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		},
	})

	subscriptions, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user subscriptions")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User subscriptions retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, subscriptions)
}

func (handler *Handler) GetSubscriptionByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSubscriptionByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	subscription, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get subscription by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Subscription retrieved successfully")

	response.WithJSON(w, http.StatusOK, subscription)
}

func (handler *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "Pause", "Subscription paused successfully", handler.service.Pause)
}

func (handler *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "Resume", "Subscription resumed successfully", handler.service.Resume)
}

func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "Cancel", "Subscription cancelled successfully", handler.service.Cancel)
}

func (handler *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "Complete", "Subscription completed successfully", handler.service.Complete)
}

func (handler *Handler) lifecycle(w http.ResponseWriter, r *http.Request, name, message string, op func(ctx context.Context, id, actorID, role string) error) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	userID, role := shared.PrincipalFromContext(ctx)

	if err := op(ctx, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("subscription_id", id).Msg("subscription lifecycle operation failed")

		response.WithError(w, err)

		return
	}

	scope.AddEvent(message + " by user " + userID)

	response.WithMessage(w, http.StatusOK, message)
}

func (handler *Handler) subscriptionFilters(r *http.Request, base []any) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  base,
	}

	if filterGroup.Filters == nil {
		filterGroup.Filters = []any{}
	}

	for _, field := range []string{model.FieldMealPlanID, model.FieldStatus} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	return filterGroup
}
