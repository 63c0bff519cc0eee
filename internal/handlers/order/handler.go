package order

import (
	"net/http"
	"tably/infras/otel"
	"tably/internal/domains/order/model"
	"tably/internal/domains/order/model/dto"
	"tably/internal/domains/order/service"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/validator"
	"tably/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Order
	otel    otel.Otel
}

func New(service service.Order, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/orders", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.PlaceOrder)
		routerGroup.Get("/", handler.GetOrders)
		routerGroup.Get("/myorders", handler.GetMyOrders)
		routerGroup.Get("/{id}", handler.GetOrderByID)
		routerGroup.Post("/{id}/advance", handler.AdvanceOrder)
		routerGroup.Post("/{id}/cancel", handler.CancelOrder)
		routerGroup.Post("/{id}/feedback", handler.RecordFeedback)
	})
}

func (handler *Handler) PlaceOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PlaceOrder")
	defer scope.End()

	req := dto.PlaceOrderRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	userID, _ := shared.PrincipalFromContext(ctx)

	res, err := handler.service.Place(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to place order")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Order placed successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.orderFilters(r, nil)

	orders, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get orders")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Orders retrieved successfully")

	response.WithJSON(w, http.StatusOK, orders)
}

func (handler *Handler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyOrders")
	defer scope.End()

	userID, _ := shared.PrincipalFromContext(ctx)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.orderFilters(r, []any{
		gDto.Filter{
			Field:    model.FieldCustomerID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		},
	})

	orders, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user orders")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User orders retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, orders)
}

func (handler *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOrderByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	order, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get order by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order retrieved successfully")

	response.WithJSON(w, http.StatusOK, order)
}

// AdvanceOrder moves an order to the requested next status in the
// delivery sequence.
func (handler *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AdvanceOrder")
	defer scope.End()

	req := dto.AdvanceOrderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)
	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.Advance(ctx, id, model.Status(req.Status), userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("order_id", id).Msg("failed to advance order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order advanced successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Order advanced successfully")
}

func (handler *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.Cancel(ctx, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("order_id", id).Msg("failed to cancel order")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Order cancelled successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Order cancelled successfully")
}

func (handler *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordFeedback")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.FeedbackRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := shared.PrincipalFromContext(ctx)

	if err := handler.service.RecordFeedback(ctx, id, req, userID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("order_id", id).Msg("failed to record feedback")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Feedback recorded successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Feedback recorded successfully")
}

func (handler *Handler) orderFilters(r *http.Request, base []any) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  base,
	}

	if filterGroup.Filters == nil {
		filterGroup.Filters = []any{}
	}

	for _, field := range []string{model.FieldRestaurantID, model.FieldStatus} {
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
