package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moliceiro/meals/client"
	"github.com/moliceiro/meals/config"
	"github.com/moliceiro/meals/events"
	"github.com/moliceiro/meals/router"
	"github.com/moliceiro/meals/services"
	"github.com/moliceiro/meals/utils"
	"github.com/moliceiro/meals/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	rdb, err := config.InitRedis(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to redis: %v", err)
	}
	var cache *services.RedisForecastCache
	if rdb != nil {
		defer rdb.Close()
		cache = services.NewRedisForecastCache(rdb, cfg.WeatherCacheTTL)
		utils.InfoLogger.Printf("Caching forecasts in redis at %s", cfg.RedisAddr)
	}

	hub := events.NewHub()
	defer hub.CloseAll()
	publishers := events.Multi{hub}
	if cfg.KafkaBroker != "" {
		kafkaPub := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic))
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
		utils.InfoLogger.Printf("Publishing events to kafka topic %s", cfg.KafkaTopic)
	}

	var notifier services.Notifier
	if cfg.SMTPEnabled() {
		mail := services.NewMailNotifier(services.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		defer mail.Wait()
		notifier = mail
	}

	weather := services.NewWeatherService(db, services.NewWeatherClient(cfg.WeatherAPIBaseURL, cfg.WeatherAPIKey), cache)
	janitor, err := services.NewForecastJanitor(weather)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to schedule forecast janitor: %v", err)
	}
	janitor.Start()
	defer janitor.Stop()

	pages, err := web.NewPages(client.New(cfg.APIBaseURL))
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load page templates: %v", err)
	}

	r := router.SetupRouter(router.Services{
		Restaurants:  services.NewRestaurantService(db, publishers),
		Meals:        services.NewMealService(db, publishers),
		Reservations: services.NewReservationService(db, publishers, notifier),
		Weather:      weather,
		Hub:          hub,
	}, router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustedProxies: cfg.TrustedProxies,
		Pages:          pages,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
}
