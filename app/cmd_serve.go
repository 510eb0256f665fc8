package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domsession "example.com/localspark/app/internal/domain/session"
	httpapi "example.com/localspark/app/internal/interface/http"
	"example.com/localspark/app/internal/infra/jobs"
	"example.com/localspark/app/internal/infra/persistence/seed"
	"example.com/localspark/app/internal/infra/realtime"
	"example.com/localspark/app/internal/infra/security"
	infrasession "example.com/localspark/app/internal/infra/session"
	authuc "example.com/localspark/app/internal/usecase/auth"
	cartuc "example.com/localspark/app/internal/usecase/cart"
	categoryuc "example.com/localspark/app/internal/usecase/category"
	eventuc "example.com/localspark/app/internal/usecase/event"
	favoriteuc "example.com/localspark/app/internal/usecase/favorite"
	notificationuc "example.com/localspark/app/internal/usecase/notification"
	orderuc "example.com/localspark/app/internal/usecase/order"
	productuc "example.com/localspark/app/internal/usecase/product"
	registrationuc "example.com/localspark/app/internal/usecase/registration"
	sessionuc "example.com/localspark/app/internal/usecase/session"
	useruc "example.com/localspark/app/internal/usecase/user"
)

const (
	shutdownTimeout = 15 * time.Second
	limiterIdle     = 30 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Store.MigrateOnStart && cfg.Store.Driver != "memory" {
		if err := migrateUp(ctx); err != nil {
			return err
		}
	}

	store, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()
	logger.Info("store ready", zap.String("driver", store.name))

	if cfg.ShouldSeed() {
		res, err := seed.Apply(ctx, store.products, store.events, time.Now())
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("seeded catalog", zap.Int("products", res.Products), zap.Int("events", res.Events))
	}

	var (
		sessions    domsession.Store
		memSessions *infrasession.MemoryStore
	)
	switch cfg.Session.Store {
	case "redis":
		client, err := infrasession.NewRedisClient(infrasession.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		rs := infrasession.NewRedisStore(client, cfg.Session.TTL)
		if err := rs.Ping(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		sessions = rs
	default:
		memSessions = infrasession.NewMemoryStore(cfg.Session.TTL)
		sessions = memSessions
	}

	hub := realtime.NewHub(logger.Named("realtime"))
	defer hub.Close()

	hasher := security.NewBcryptService(0)
	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	notificationSvc := notificationuc.NewService(store.notifications, hub)
	sessionSvc := sessionuc.NewService(sessions, store.cart, store.favorites)
	userSvc := useruc.NewService(store.users, hasher)

	if cfg.Admin.Username != "" {
		if _, err := userSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		logger.Info("admin account ready", zap.String("username", cfg.Admin.Username))
	}

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:         authuc.NewService(store.users, hasher, tokens, sessionSvc),
		UserService:         userSvc,
		SessionService:      sessionSvc,
		ProductService:      productuc.NewService(store.products, store.favorites, notificationSvc, logger.Named("product")),
		EventService:        eventuc.NewService(store.events),
		CategoryService:     categoryuc.NewService(store.products, store.events),
		CartService:         cartuc.NewService(store.cart, store.products),
		FavoriteService:     favoriteuc.NewService(store.favorites, store.products, store.events),
		RegistrationService: registrationuc.NewService(store.registrations, store.events, notificationSvc),
		OrderService:        orderuc.NewService(store.orders, store.cart, store.products, notificationSvc),
		NotificationService: notificationSvc,
		TokenService:        tokens,
		Store:               store,
		StoreName:           store.name,
		Realtime:            hub,
		AuthRateLimit:       cfg.Auth.RateLimit,
		AuthRateBurst:       cfg.Auth.RateBurst,
		Logger:              logger.Named("http"),
	})

	sweeper := &jobs.Sweeper{
		Carts:     store.cart,
		Favorites: store.favorites,
		MaxAge:    cfg.Session.TTL,
		Logger:    logger.Named("sweeper"),
	}
	if memSessions != nil {
		sweeper.Sessions = memSessions
	}

	scheduler := jobs.NewScheduler(logger.Named("jobs"))
	if err := scheduler.Add(cfg.Jobs.SweepSchedule, "guest-sweep", func(ctx context.Context) error {
		_, err := sweeper.Run(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := scheduler.Add("@every 10m", "rate-limit-prune", func(ctx context.Context) error {
		api.AuthLimiter().Prune(limiterIdle)
		return nil
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		hub.Close()
		return errors.Join(srv.Shutdown(shutdownCtx), scheduler.Stop(shutdownCtx))
	})
	return g.Wait()
}
