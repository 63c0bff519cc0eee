package booking

import (
	"context"
	"net/http"
	"tably/infras/otel"
	"tably/internal/domains/booking/model"
	"tably/internal/domains/booking/model/dto"
	"tably/internal/domains/booking/service"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	"tably/shared/validator"
	"tably/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/rooms", handler.CreateRoomBooking)
		routerGroup.Post("/tables", handler.CreateTableBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mybookings", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
		routerGroup.Post("/{id}/check-in", handler.CheckIn)
		routerGroup.Post("/{id}/check-out", handler.CheckOut)
		routerGroup.Post("/{id}/complete", handler.Complete)
	})
}

func (handler *Handler) CreateRoomBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoomBooking")
	defer scope.End()

	req := dto.CreateRoomBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	userID, _ := shared.PrincipalFromContext(ctx)

	res, err := handler.service.CreateRoomBooking(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Room booking created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) CreateTableBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTableBooking")
	defer scope.End()

	req := dto.CreateTableBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	userID, _ := shared.PrincipalFromContext(ctx)

	res, err := handler.service.CreateTableBooking(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create table booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Table booking created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, res)
}

func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.bookingFilters(r, nil)

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	userID, _ := shared.PrincipalFromContext(ctx)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := handler.bookingFilters(r, []any{
		gDto.Filter{
			Field:    model.FieldRequesterID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		},
	})

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User bookings retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, bookings)
}

func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "CancelBooking", "Booking cancelled successfully", handler.service.Cancel)
}

func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "CheckIn", "Checked in successfully", handler.service.CheckIn)
}

func (handler *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "CheckOut", "Checked out successfully", handler.service.CheckOut)
}

func (handler *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	handler.lifecycle(w, r, "Complete", "Booking completed successfully", handler.service.Complete)
}

func (handler *Handler) lifecycle(w http.ResponseWriter, r *http.Request, name, message string, op func(ctx context.Context, id, actorID, role string) error) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	userID, role := shared.PrincipalFromContext(ctx)

	if err := op(ctx, id, userID, role); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("booking lifecycle operation failed")

		response.WithError(w, err)

		return
	}

	scope.AddEvent(message + " by user " + userID)

	response.WithMessage(w, http.StatusOK, message)
}

func (handler *Handler) bookingFilters(r *http.Request, base []any) gDto.FilterGroup {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  base,
	}

	if filterGroup.Filters == nil {
		filterGroup.Filters = []any{}
	}

	for _, field := range []string{model.FieldResourceType, model.FieldResourceID, model.FieldStatus} {
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
