package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	httpadapter "github.com/suchimauz/medical-calendar-api/internal/adapters/in/http"
	"github.com/suchimauz/medical-calendar-api/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/medical-calendar-api/internal/adapters/out/cache"
	"github.com/suchimauz/medical-calendar-api/internal/adapters/out/logger"
	"github.com/suchimauz/medical-calendar-api/internal/adapters/out/supabase"
	"github.com/suchimauz/medical-calendar-api/internal/config"
	"github.com/suchimauz/medical-calendar-api/internal/core/ports/out"
	"github.com/suchimauz/medical-calendar-api/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной, debug только локально
	minLevel := out.LogLevelInfo
	if cfg.IsLocal() {
		minLevel = out.LogLevelDebug
	}
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone, minLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	storeAdapter, err := supabase.NewSupabaseAdapter(cfg, mainLogger.WithModule("SupabaseAdapter"))
	if err != nil {
		log.Error("app.supabase.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервисов
	calendarService, err := services.NewCalendarService(
		storeAdapter,
		cacheAdapter,
		cfg,
		mainLogger,
	)
	if err != nil {
		log.Error("app.calendar.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	patientService := services.NewPatientService(storeAdapter, cfg, mainLogger)

	// Настройка HTTP сервера
	router := gin.Default()
	httpadapter.NewCalendarController(calendarService, cfg).RegisterRoutes(router)
	httpadapter.NewPatientController(patientService, cfg).RegisterRoutes(router)

	// Слушатель событий мутаций только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewCacheHitListener(
			calendarService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
