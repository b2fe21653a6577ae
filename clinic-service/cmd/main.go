package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dentalcare/clinic-service/internal/app/clinic/config"
	"dentalcare/clinic-service/internal/app/clinic/handler"
	http2 "dentalcare/clinic-service/internal/app/clinic/infrastructure/http"
	"dentalcare/clinic-service/internal/app/clinic/infrastructure/messaging"
	"dentalcare/clinic-service/internal/app/clinic/repository"
	"dentalcare/clinic-service/internal/app/clinic/service"
	"dentalcare/clinic-service/internal/app/clinic/util"
	"dentalcare/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("clinic-service", cfg.App.LogLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	mongoClient, err := connectMongo(cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()
	mongoDB := mongoClient.Database(cfg.Mongo.DBName)
	logger.Info().
		Str("database", cfg.Mongo.DBName).
		Msg("Connected to MongoDB")

	cache, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer cache.Close()
	logger.Info().
		Str("address", cfg.Redis.Address()).
		Msg("Connected to Redis")

	// Отдельное подключение к БД auth-service с blacklist отозванных токенов
	tokenBlacklist, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.TokenDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to token blacklist Redis")
	}
	defer tokenBlacklist.Close()

	eventProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.AppointmentTopic)
	defer eventProducer.Close()
	emailProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.EmailTopic)
	defer emailProducer.Close()
	logger.Info().
		Str("appointment_topic", cfg.Kafka.AppointmentTopic).
		Str("email_topic", cfg.Kafka.EmailTopic).
		Msg("Initialized Kafka producers")

	authClient := http2.NewAuthClient(cfg.AuthService.URL)
	logger.Info().
		Str("url", cfg.AuthService.URL).
		Msg("Initialized Auth Service client")

	appointmentRepo := repository.NewAppointmentRepository(db)
	dentistRepo := repository.NewDentistRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	recordRepo := repository.NewPatientRecordRepository(mongoDB)

	appointmentService := service.NewAppointmentService(
		appointmentRepo,
		dentistRepo,
		serviceRepo,
		recordRepo,
		authClient,
		eventProducer,
		emailProducer,
	)
	catalogService := service.NewCatalogService(dentistRepo, serviceRepo, cache, cfg.Redis.CacheTTL)
	recordService := service.NewRecordService(recordRepo, dentistRepo)

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret, tokenBlacklist)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	recordHandler := handler.NewRecordHandler(recordService)
	router := handler.SetupRoutes(appointmentHandler, catalogHandler, recordHandler, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Clinic Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Clinic Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Clinic Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Info),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func connectMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}
