package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Asia/Bishkek"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Supabase struct {
		URL        string `env:"SUPABASE_URL"`
		ServiceKey string `env:"SUPABASE_SERVICE_KEY"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"medical_calendar:medical_calendar"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"medical-calendar.cache-hit"`
	}

	Cache struct {
		Enabled       bool `env:"CACHE_ENABLED" envDefault:"true"`
		PositionsSize int  `env:"CACHE_POSITIONS_SIZE" envDefault:"1000"`
		DaysSize      int  `env:"CACHE_DAYS_SIZE" envDefault:"64"`
	}

	// Рабочее окно сетки и пиксельные константы
	Calendar struct {
		StartHour            int     `env:"CALENDAR_START_HOUR" envDefault:"9"`
		EndHour              int     `env:"CALENDAR_END_HOUR" envDefault:"19"`
		SlotDuration         int     `env:"CALENDAR_SLOT_DURATION" envDefault:"30"`
		SlotHeight           float64 `env:"CALENDAR_SLOT_HEIGHT" envDefault:"60"`
		MinAppointmentHeight float64 `env:"CALENDAR_MIN_APPOINTMENT_HEIGHT" envDefault:"30"`
		AppointmentMargin    float64 `env:"CALENDAR_APPOINTMENT_MARGIN" envDefault:"8"`
		SearchLimit          int     `env:"CALENDAR_SEARCH_LIMIT" envDefault:"10"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Разбор пар логин:пароль для basic auth
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
