package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking"
	getSalonBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_bookings"
	getSalonCatalogHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_catalog"
	updateAvailabilityHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_availability"
	updateBookingCompletionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_booking_completion"
	updateBookingStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	availabilityRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/client"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
	"github.com/m04kA/SMC-SalonBooking/internal/jobs"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/seed"
	availabilityService "github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notifier"
	createBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if v := os.Getenv("SALON_CONFIG"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Бизнес-метрики пишутся всегда, наружу отдаются только при metrics.enabled
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var dbObserver dbmetrics.Observer
	if cfg.Metrics.Enabled {
		dbObserver = metricsCollector
		log.Info("Database metrics collection started")
	}
	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, cfg.Metrics.ServiceName, stopMetricsCh)

	// Репозитории и транзакции
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMaxRetries(cfg.Booking.TxRetries))

	// Блокировка (мастер, дата)
	var (
		bookingLocker locker.Locker
		redisClient   *redis.Client
	)
	switch cfg.Lock.Backend {
	case config.LockBackendRedis:
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()
		bookingLocker = locker.NewRedisLocker(redisClient, locker.RedisConfig{
			Prefix:      cfg.Redis.Prefix,
			TTL:         time.Duration(cfg.Lock.TTLSeconds) * time.Second,
			WaitTimeout: cfg.Lock.WaitTimeout(),
		})
		log.Info("Using redis lock backend (addr=%s)", cfg.Redis.Addr)
	default:
		bookingLocker = locker.NewKeyedMutex(cfg.Lock.WaitTimeout())
		log.Info("Using in-process lock backend")
	}

	// Сетка слотов и движок проверки пересечений
	grid, err := scheduling.NewGrid(cfg.Slots.Grid)
	if err != nil {
		log.Fatal("Invalid slot grid: %v", err)
	}
	calculator := scheduling.NewCalculator(grid)
	detector := scheduling.NewDetector()

	// Каналы уведомлений
	var (
		senders        []notifier.Sender
		kafkaPublisher *notification.KafkaPublisher
	)
	if cfg.Notification.WebhookURL != "" {
		senders = append(senders, notification.NewWebhookClient(
			cfg.Notification.WebhookURL,
			time.Duration(cfg.Notification.Timeout)*time.Second,
		))
		log.Info("Notification webhook enabled (url=%s)", cfg.Notification.WebhookURL)
	}
	if cfg.Kafka.Enabled {
		kafkaPublisher = notification.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		senders = append(senders, kafkaPublisher)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()

	dispatcher := notifier.NewDispatcher(senders, metricsCollector, notifier.Config{
		RatePerSecond: cfg.Notification.RatePerSecond,
		Burst:         cfg.Notification.Burst,
		QueueSize:     cfg.Notification.QueueSize,
		Timeout:       time.Duration(cfg.Notification.Timeout) * time.Second,
		PublicBaseURL: cfg.Notification.PublicBaseURL,
	}, log)
	dispatcher.Start(dispatcherCtx)

	// Демо-салон
	if cfg.Seed.Enabled {
		seeder := seed.NewSeeder(catalogRepository, availabilityRepository, txMgr, log)
		salon, err := seeder.Run(context.Background())
		if err != nil {
			log.Fatal("Failed to seed demo salon: %v", err)
		}
		log.Info("Demo salon ready (id=%d, slug=%s)", salon.ID, salon.Slug)
	}

	// Очистка просроченных токенов
	janitor, err := jobs.NewTokenJanitor(bookingRepository, metricsCollector, cfg.Jobs.TokenJanitorSchedule, log)
	if err != nil {
		log.Fatal("Failed to schedule token janitor: %v", err)
	}
	janitor.Start()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, detector, bookingLocker, txMgr, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, catalogRepository, txMgr, log)
	catalogSvc := catalogService.NewService(catalogRepository, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		clientRepository,
		catalogRepository,
		availabilityRepository,
		calculator,
		detector,
		bookingLocker,
		txMgr,
		dispatcher,
		metricsCollector,
		createBookingUC.Config{
			EnforceAvailability: cfg.Booking.EnforceAvailability,
			TokenTTL:            cfg.TokenTTL(),
			ReferenceAttempts:   cfg.Booking.ReferenceAttempts,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		availabilityRepository,
		calculator,
		detector,
		log,
	)

	// Инициализируем handlers
	getSalonCatalog := getSalonCatalogHandler.NewHandler(catalogSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getSalonBookings := getSalonBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updateBookingCompletion := updateBookingCompletionHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница записи и ссылки из письма)
	// ============================================================

	// Каталог салона: услуги и мастера
	api.HandleFunc("/salons/{salonId}/catalog", getSalonCatalog.Handle).Methods(http.MethodGet)

	// Слоты мастера на дату (stylistId может быть "any")
	api.HandleFunc("/salons/{salonId}/stylists/{stylistId}/slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочие окна мастера
	api.HandleFunc("/salons/{salonId}/stylists/{stylistId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/salons/{salonId}/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Подтверждение и отмена по токену
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROUTES (требуют X-User-ID и X-User-Role: staff|owner)
	// ============================================================

	staff := api.PathPrefix("").Subrouter()
	staff.Use(middleware.Auth)
	staff.Use(middleware.RequireStaff)

	// --- Бронирования салона ---
	staff.HandleFunc("/salons/{salonId}/bookings", getSalonBookings.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/salons/{salonId}/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/salons/{salonId}/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	staff.HandleFunc("/salons/{salonId}/bookings/{bookingId}/completion", updateBookingCompletion.Handle).Methods(http.MethodPatch)

	// --- Расписание мастеров ---
	staff.HandleFunc("/salons/{salonId}/stylists/{stylistId}/availability", updateAvailability.Handle).Methods(http.MethodPut)

	// CORS оборачивает весь роутер, чтобы preflight не упирался в Methods
	var handler http.Handler = r
	if len(cfg.CORS.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.CORS.AllowedOrigins)(r)
		log.Info("CORS enabled for %v", cfg.CORS.AllowedOrigins)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Новых бронирований больше нет: дописываем очередь уведомлений и гасим фоновые задачи
	janitor.Stop()
	dispatcher.Close()

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Failed to close kafka publisher: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
