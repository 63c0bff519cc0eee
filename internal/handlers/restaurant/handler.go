package restaurant

import (
	"net/http"
	"tably/infras/otel"
	"tably/internal/domains/restaurant/model"
	"tably/internal/domains/restaurant/model/dto"
	"tably/internal/domains/restaurant/service"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/validator"
	"tably/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const requestParamItemID = "itemID"

type Handler struct {
	service service.Restaurant
	otel    otel.Otel
}

func New(service service.Restaurant, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/restaurants", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRestaurant)
		routerGroup.Get("/", handler.GetRestaurants)
		routerGroup.Get("/{id}", handler.GetRestaurantByID)
		routerGroup.Patch("/{id}", handler.UpdateRestaurant)
		routerGroup.Post("/{id}/open", handler.SetOpen)
		routerGroup.Delete("/{id}", handler.DeactivateRestaurant)
		routerGroup.Get("/{id}/menu", handler.GetMenu)
		routerGroup.Post("/{id}/menu", handler.AddMenuItem)
		routerGroup.Patch("/{id}/menu/{itemID}", handler.UpdateMenuItem)
	})
}

func (handler *Handler) CreateRestaurant(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRestaurant")
	defer scope.End()

	req := dto.CreateRestaurantRequest{}

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
		log.Error().Err(err).Msg("failed to create restaurant")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Restaurant created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) GetRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRestaurants")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldOpen, model.FieldActive} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value == "true",
				Table:    model.TableName,
			})
		}
	}

	restaurants, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get restaurants")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Restaurants retrieved successfully")

	response.WithJSON(w, http.StatusOK, restaurants)
}

func (handler *Handler) GetRestaurantByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRestaurantByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	restaurant, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get restaurant by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Restaurant retrieved successfully")

	response.WithJSON(w, http.StatusOK, restaurant)
}

func (handler *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRestaurant")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateRestaurantRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.Update(ctx, req, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("restaurant_id", id).Msg("failed to update restaurant")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Restaurant updated successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Restaurant updated successfully")
}

func (handler *Handler) SetOpen(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetOpen")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.SetOpenRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.SetOpen(ctx, id, *req.Open, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("restaurant_id", id).Msg("failed to set restaurant open state")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Restaurant open state changed by user " + userID)

	response.WithMessage(w, http.StatusOK, "Restaurant open state updated successfully")
}

func (handler *Handler) DeactivateRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeactivateRestaurant")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.Deactivate(ctx, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("restaurant_id", id).Msg("failed to deactivate restaurant")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Restaurant deactivated successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Restaurant deactivated successfully")
}

func (handler *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMenu")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	menu, err := handler.service.GetMenu(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("restaurant_id", id).Msg("failed to get menu")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu retrieved successfully")

	response.WithJSON(w, http.StatusOK, menu)
}

func (handler *Handler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddMenuItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateMenuItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, role := shared.PrincipalFromContext(ctx)

	res, err := handler.service.AddMenuItem(ctx, req, id, userID, role)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("restaurant_id", id).Msg("failed to add menu item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu item added successfully by user " + userID)

	response.WithJSON(w, http.StatusCreated, res)
}

func (handler *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMenuItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	itemID := chi.URLParam(r, requestParamItemID)

	req := dto.UpdateMenuItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, role := shared.PrincipalFromContext(ctx)

	if err := handler.service.UpdateMenuItem(ctx, req, id, itemID, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("restaurant_id", id).Str("item_id", itemID).Msg("failed to update menu item")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Menu item updated successfully by user " + userID)

	response.WithMessage(w, http.StatusOK, "Menu item updated successfully")
}
