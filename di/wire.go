//go:build wireinject
// +build wireinject

package di

import (
	"tably/config"
	"tably/infras/jwt"
	"tably/infras/kafka"
	"tably/infras/mailer"
	"tably/infras/otel"
	"tably/infras/postgres"
	"tably/infras/redis"
	"tably/shared/cache"
	"tably/shared/clock"
	"tably/shared/reslock"
	"tably/transport/http"
	"tably/transport/http/middleware"
	"tably/transport/http/router"

	"github.com/google/wire"

	authService "tably/internal/domains/auth/service"
	bookingRepository "tably/internal/domains/booking/repository"
	bookingService "tably/internal/domains/booking/service"
	mealplanRepository "tably/internal/domains/mealplan/repository"
	mealplanService "tably/internal/domains/mealplan/service"
	orderRepository "tably/internal/domains/order/repository"
	orderService "tably/internal/domains/order/service"
	restaurantRepository "tably/internal/domains/restaurant/repository"
	restaurantService "tably/internal/domains/restaurant/service"
	roomRepository "tably/internal/domains/room/repository"
	roomService "tably/internal/domains/room/service"
	subscriptionRepository "tably/internal/domains/subscription/repository"
	subscriptionService "tably/internal/domains/subscription/service"
	userRepository "tably/internal/domains/user/repository"
	verificationRepository "tably/internal/domains/verification/repository"
	verificationService "tably/internal/domains/verification/service"

	authHandler "tably/internal/handlers/auth"
	bookingHandler "tably/internal/handlers/booking"
	mealplanHandler "tably/internal/handlers/mealplan"
	orderHandler "tably/internal/handlers/order"
	restaurantHandler "tably/internal/handlers/restaurant"
	roomHandler "tably/internal/handlers/room"
	subscriptionHandler "tably/internal/handlers/subscription"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
	reslock.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var orderDomain = wire.NewSet(
	orderRepository.New,
	orderService.New,
)

var subscriptionDomain = wire.NewSet(
	subscriptionRepository.New,
	subscriptionService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var restaurantDomain = wire.NewSet(
	restaurantRepository.New,
	restaurantRepository.NewMenu,
	restaurantService.New,
)

var mealplanDomain = wire.NewSet(
	mealplanRepository.New,
	mealplanService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	verificationRepository.New,
	verificationService.New,
	authService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	orderDomain,
	subscriptionDomain,
	roomDomain,
	restaurantDomain,
	mealplanDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	bookingHandler.New,
	orderHandler.New,
	subscriptionHandler.New,
	roomHandler.New,
	restaurantHandler.New,
	mealplanHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
