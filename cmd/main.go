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

	addLineHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/add_line"
	cancelBookingHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/confirm_booking"
	createHoldHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_hold"
	createPriceRuleHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_price_rule"
	createPricingProfileHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/create_pricing_profile"
	deletePriceRuleHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/delete_price_rule"
	deletePricingProfileHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/delete_pricing_profile"
	getAvailableSlotsHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_booking"
	getFacilityBookingsHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_facility_bookings"
	getQuoteHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_quote"
	getRateCardHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_rate_card"
	getUserBookingsHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/get_user_bookings"
	initiatePaymentHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/initiate_payment"
	listLinesHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_lines"
	listPriceRulesHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_price_rules"
	listPricingProfilesHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/list_pricing_profiles"
	paymentFailureHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/payment_failure"
	paymentSuccessHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/payment_success"
	removeLineHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/remove_line"
	repriceBookingHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/reprice_booking"
	updatePriceRuleHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/update_price_rule"
	updatePricingProfileHandler "github.com/m04kA/SMC-FacilityBooking/internal/api/handlers/update_pricing_profile"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/booking"
	ratesRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/rates"
	statusRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/status"
	"github.com/m04kA/SMC-FacilityBooking/internal/integrations/events"
	identityServiceClient "github.com/m04kA/SMC-FacilityBooking/internal/integrations/identityservice"
	bookingsService "github.com/m04kA/SMC-FacilityBooking/internal/service/bookings"
	linesService "github.com/m04kA/SMC-FacilityBooking/internal/service/lines"
	pricingService "github.com/m04kA/SMC-FacilityBooking/internal/service/pricing"
	ratesService "github.com/m04kA/SMC-FacilityBooking/internal/service/rates"
	createHoldUC "github.com/m04kA/SMC-FacilityBooking/internal/usecase/create_hold"
	getAvailableSlotsUC "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-FacilityBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
	"github.com/m04kA/SMC-FacilityBooking/pkg/metrics"
	"github.com/m04kA/SMC-FacilityBooking/pkg/mq"
	"github.com/m04kA/SMC-FacilityBooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию (файл + переменные окружения BOOKING_*)
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-FacilityBooking...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil метриками обёртка работает как прокси, поэтому репозитории всегда получают её
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	ratesRepository := ratesRepo.NewRepository(wrappedDB)

	// Справочник статусов читается один раз при старте
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	statuses, err := statusRepo.NewRepository(wrappedDB).LoadTable(initCtx)
	initCancel()
	if err != nil {
		log.Fatal("Failed to load booking statuses: %v", err)
	}
	log.Info("Booking statuses loaded")

	// Публикация событий
	var publisher bookingsService.EventPublisher = events.NoopPublisher{}

	if cfg.Events.Enabled {
		broker, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer broker.Close()
		publisher = events.NewPublisher(broker)
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}

	// Интеграция с сервисом прав пользователей
	identityClient := identityServiceClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	log.Info("Identity service client initialized (url=%s timeout=%ds)",
		cfg.IdentityService.URL, cfg.IdentityService.Timeout)

	// Сервисы
	policy := cfg.Booking.Statuses.Policy()

	pricingSvc := pricingService.NewService(ratesRepository, metricsCollector, log)
	linesSvc := linesService.NewService(bookingRepository, ratesRepository, pricingSvc, txMgr, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		linesSvc,
		statuses,
		policy,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	ratesSvc := ratesService.NewService(ratesRepository, txMgr, log)

	// Use cases
	createHoldUseCase := createHoldUC.NewUseCase(
		bookingRepository,
		linesSvc,
		statuses,
		policy,
		txMgr,
		publisher,
		metricsCollector,
		createHoldUC.Config{
			DefaultHoldSeconds: cfg.Booking.DefaultHoldSeconds,
			DefaultCurrency:    cfg.Booking.DefaultCurrency,
		},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, ratesRepository, log)

	// Handlers
	getQuote := getQuoteHandler.NewHandler(pricingSvc, log)
	getRateCard := getRateCardHandler.NewHandler(pricingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)

	createHold := createHoldHandler.NewHandler(createHoldUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getFacilityBookings := getFacilityBookingsHandler.NewHandler(bookingSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(bookingSvc, log)
	paymentSuccess := paymentSuccessHandler.NewHandler(bookingSvc, log)
	paymentFailure := paymentFailureHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	repriceBooking := repriceBookingHandler.NewHandler(bookingSvc, log)

	listLines := listLinesHandler.NewHandler(linesSvc, log)
	addLine := addLineHandler.NewHandler(linesSvc, log)
	removeLine := removeLineHandler.NewHandler(linesSvc, log)

	listProfiles := listPricingProfilesHandler.NewHandler(ratesSvc, log)
	createProfile := createPricingProfileHandler.NewHandler(ratesSvc, log)
	updateProfile := updatePricingProfileHandler.NewHandler(ratesSvc, log)
	deleteProfile := deletePricingProfileHandler.NewHandler(ratesSvc, log)
	listRules := listPriceRulesHandler.NewHandler(ratesSvc, log)
	createRule := createPriceRuleHandler.NewHandler(ratesSvc, log)
	updateRule := updatePriceRuleHandler.NewHandler(ratesSvc, log)
	deleteRule := deletePriceRuleHandler.NewHandler(ratesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расчет цены слота
	api.HandleFunc("/places/{placeId}/quote", getQuote.Handle).Methods(http.MethodGet)

	// Тарифная сетка площадки
	api.HandleFunc("/places/{placeId}/rate-card", getRateCard.Handle).Methods(http.MethodGet)

	// Сетка сессий площадки на день
	api.HandleFunc("/places/{placeId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.Use(middleware.Requester(identityClient, log))

	// --- Бронирования ---
	protected.HandleFunc("/bookings/hold", createHold.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/initiate-payment", initiatePayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/payment/success", paymentSuccess.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/payment/failure", paymentFailure.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/reprice", repriceBooking.Handle).Methods(http.MethodPut)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Строки бронирования ---
	protected.HandleFunc("/bookings/{bookingId}/lines", listLines.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/lines", addLine.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/lines/{lineId}", removeLine.Handle).Methods(http.MethodDelete)

	// --- Управление объектом (для сотрудников) ---
	// Список бронирований объекта
	protected.HandleFunc("/facilities/{facilityId}/bookings", getFacilityBookings.Handle).Methods(http.MethodGet)

	// Тарифы
	profiles := "/facilities/{facilityId}/places/{placeId}/pricing-profiles"
	protected.HandleFunc(profiles, listProfiles.Handle).Methods(http.MethodGet)
	protected.HandleFunc(profiles, createProfile.Handle).Methods(http.MethodPost)
	protected.HandleFunc(profiles+"/{profileId}", updateProfile.Handle).Methods(http.MethodPut)
	protected.HandleFunc(profiles+"/{profileId}", deleteProfile.Handle).Methods(http.MethodDelete)
	protected.HandleFunc(profiles+"/{profileId}/rules", listRules.Handle).Methods(http.MethodGet)
	protected.HandleFunc(profiles+"/{profileId}/rules", createRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc(profiles+"/{profileId}/rules/{ruleId}", updateRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc(profiles+"/{profileId}/rules/{ruleId}", deleteRule.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
