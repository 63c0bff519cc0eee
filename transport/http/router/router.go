package router

import (
	"tably/internal/handlers/auth"
	"tably/internal/handlers/booking"
	"tably/internal/handlers/mealplan"
	"tably/internal/handlers/order"
	"tably/internal/handlers/restaurant"
	"tably/internal/handlers/room"
	"tably/internal/handlers/subscription"
	"tably/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Booking      booking.Handler
	Order        order.Handler
	Subscription subscription.Handler
	Room         room.Handler
	Restaurant   restaurant.Handler
	MealPlan     mealplan.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthMiddleware middleware.Auth
}

// SetupRoutes mounts every domain under /v1. Auth endpoints are public;
// everything else requires a valid access token.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)

		routerGroup.Group(func(authenticated chi.Router) {
			authenticated.Use(r.AuthMiddleware.Auth)

			r.DomainHandlers.Booking.Router(authenticated)
			r.DomainHandlers.Order.Router(authenticated)
			r.DomainHandlers.Subscription.Router(authenticated)
			r.DomainHandlers.Room.Router(authenticated)
			r.DomainHandlers.Restaurant.Router(authenticated)
			r.DomainHandlers.MealPlan.Router(authenticated)
		})
	})
}

func New(domainHandlers DomainHandlers, authMiddleware middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthMiddleware: authMiddleware,
	}
}
