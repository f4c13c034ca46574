package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/cache"
	"github.com/Freeeeeet/nurse_mentorship/internal/config"
	"github.com/Freeeeeet/nurse_mentorship/internal/controller"
	"github.com/Freeeeeet/nurse_mentorship/internal/controller/handlers"
	"github.com/Freeeeeet/nurse_mentorship/internal/notify"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/memory"
	"github.com/Freeeeeet/nurse_mentorship/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Stores реализации хранилищ для сервисов
type Stores struct {
	Users        service.UserStore
	Availability service.AvailabilityStore
	Bookings     service.BookingStore
	Assessments  service.AssessmentStore
	Content      service.ContentStore
	Purchases    service.PurchaseStore
	Feedback     service.FeedbackStore
}

// PostgresStores репозитории поверх пула pgx
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:        repository.NewUserRepository(pool),
		Availability: repository.NewAvailabilityRepository(pool),
		Bookings:     repository.NewBookingRepository(pool),
		Assessments:  repository.NewAssessmentRepository(pool),
		Content:      repository.NewContentRepository(pool),
		Purchases:    repository.NewPurchaseRepository(pool),
		Feedback:     repository.NewFeedbackRepository(pool),
	}
}

// MemoryStores хранилище в памяти процесса (STORAGE=memory)
func MemoryStores() Stores {
	st := memory.New()
	return Stores{
		Users:        st.Users,
		Availability: st.Availability,
		Bookings:     st.Bookings,
		Assessments:  st.Assessments,
		Content:      st.Content,
		Purchases:    st.Purchases,
		Feedback:     st.Feedback,
	}
}

// App собранное приложение: HTTP сервер и фоновые задачи
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	pool      *pgxpool.Pool
	redis     *redis.Client
	notifier  *notify.TelegramNotifier
	scheduler *Scheduler
	server    *http.Server
	Router    *gin.Engine
}

// New подключает хранилища, применяет миграции и собирает сервисы
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	stores, err := a.openStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var assessmentCache service.AssessmentCache
	if cfg.RedisURL != "" {
		a.redis, err = cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := a.redis.Ping(ctx).Err(); err != nil {
			// Без кеша сервис работает, просто медленнее
			logger.Warn("Redis is unavailable, cache requests will miss", zap.Error(err))
		}
		assessmentCache = cache.NewAssessmentCache(a.redis, logger)
	}

	var notifier service.Notifier
	if cfg.TelegramToken != "" {
		a.notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.Location(), logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		notifier = a.notifier
	}

	availability := service.NewAvailabilityService(stores.Availability, stores.Users, cfg.Location(), logger)
	services := handlers.Services{
		Users:        service.NewUserService(stores.Users, logger),
		Availability: availability,
		Bookings:     service.NewBookingService(stores.Availability, stores.Bookings, stores.Users, notifier, cfg.MeetingBaseURL, logger),
		Payments:     service.NewPaymentService(stores.Purchases, logger),
		Assessments:  service.NewAssessmentService(stores.Assessments, assessmentCache, logger),
		Content:      service.NewContentService(stores.Content, logger),
		Feedback:     service.NewFeedbackService(stores.Bookings, stores.Feedback, logger),
	}

	h := handlers.NewHandlers(services, handlers.UploadConfig{
		Dir:      cfg.UploadDir,
		MaxBytes: cfg.UploadMaxMB << 20,
	}, cfg.Location(), logger)

	a.Router = controller.NewRouter(h, controller.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		UploadDir:      cfg.UploadDir,
		Production:     cfg.IsProduction(),
	}, logger)

	a.scheduler = NewScheduler(availability, cfg.HousekeepingInterval, logger)
	a.server = &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func (a *App) openStores(ctx context.Context) (Stores, error) {
	if a.cfg.Storage == config.StorageMemory {
		a.logger.Warn("Using in-memory storage, data is lost on restart")
		return MemoryStores(), nil
	}

	pool, err := pgxpool.New(ctx, a.cfg.DBDSN)
	if err != nil {
		return Stores{}, fmt.Errorf("create pool: %w", err)
	}
	a.pool = pool

	if err := pool.Ping(ctx); err != nil {
		return Stores{}, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, a.logger)
	if err != nil {
		return Stores{}, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return Stores{}, err
	}

	return PostgresStores(pool), nil
}

// Run запускает HTTP сервер и планировщик, блокируется до отмены ctx
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start(ctx)
	defer a.scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close освобождает соединения. Вызывается после Run.
func (a *App) Close() {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
