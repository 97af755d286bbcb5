package main

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/angelmondragon/plantnet-backend/api/routes"
	"github.com/angelmondragon/plantnet-backend/internal/auth"
	"github.com/angelmondragon/plantnet-backend/internal/cart"
	"github.com/angelmondragon/plantnet-backend/internal/orders"
	"github.com/angelmondragon/plantnet-backend/internal/otp"
	"github.com/angelmondragon/plantnet-backend/internal/products"
	"github.com/angelmondragon/plantnet-backend/internal/users"
	"github.com/angelmondragon/plantnet-backend/internal/wishlist"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/logger"
	"github.com/angelmondragon/plantnet-backend/pkg/mailer"
	"github.com/angelmondragon/plantnet-backend/pkg/metrics"
	"github.com/angelmondragon/plantnet-backend/pkg/redis"
)

const (
	otpStoreMemory = "memory"
	otpStoreRedis  = "redis"
)

// otpStore picks the OTP backend. The returned close func releases the memory
// store janitor and is a no-op for redis.
func otpStore(cfg config.OTPConfig, redisClient *redis.Client) (otp.Store, func() error, error) {
	choice := strings.ToLower(strings.TrimSpace(cfg.Store))
	if choice == "" {
		choice = otpStoreMemory
		if redisClient != nil {
			choice = otpStoreRedis
		}
	}

	switch choice {
	case otpStoreRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("otp store %q requires redis configuration", choice)
		}
		return otp.NewRedisStore(redisClient, cfg.Retention, nil), func() error { return nil }, nil
	case otpStoreMemory:
		store := otp.NewMemoryStore(otp.MemoryStoreParams{
			Retention:     cfg.Retention,
			SweepInterval: cfg.SweepInterval,
			MaxEntries:    cfg.MaxEntries,
		})
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown otp store %q", cfg.Store)
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	conn *gorm.DB,
	store otp.Store,
	sender mailer.Sender,
	registry prometheus.Registerer,
) (routes.Services, error) {
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{UserRepo: userRepo, JWTConfig: cfg.JWT})
	if err != nil {
		return routes.Services{}, fmt.Errorf("auth service: %w", err)
	}
	otpService, err := otp.NewService(otp.ServiceParams{
		Store:  store,
		Mailer: sender,
		Hash:   cfg.Hash,
		TTL:    cfg.OTP.TTL,
		Logger: logg,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("otp service: %w", err)
	}
	userService, err := users.NewService(userRepo)
	if err != nil {
		return routes.Services{}, fmt.Errorf("users service: %w", err)
	}
	productService, err := products.NewService(products.ServiceParams{Repo: productRepo, SampleSize: cfg.Orders.SampleSize})
	if err != nil {
		return routes.Services{}, fmt.Errorf("products service: %w", err)
	}
	cartService, err := cart.NewService(cart.ServiceParams{CartRepo: cartRepo, ProductRepo: productRepo})
	if err != nil {
		return routes.Services{}, fmt.Errorf("cart service: %w", err)
	}
	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(conn),
		ProductRepo:  productRepo,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("wishlist service: %w", err)
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		OrderRepo:        orders.NewRepository(conn),
		Stock:            productRepo,
		Carts:            cartRepo,
		Metrics:          metrics.NewOrderMetrics(registry),
		Logger:           logg,
		ConditionalStock: cfg.Orders.ConditionalStock,
	})
	if err != nil {
		return routes.Services{}, fmt.Errorf("orders service: %w", err)
	}

	return routes.Services{
		Auth:     authService,
		OTP:      otpService,
		Users:    userService,
		Products: productService,
		Cart:     cartService,
		Wishlist: wishlistService,
		Orders:   orderService,
	}, nil
}
