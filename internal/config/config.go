package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID   string `env:"PROJECTID"`
	Region      string `env:"REGION" envDefault:"us-central1"`
	LogLevel    string `env:"LOGLEVEL" envDefault:"info"`
	Port        string `env:"PORT" envDefault:"8080"`
	VertexModel string `env:"VERTEXMODEL" envDefault:"gemini-1.5-flash"`
	KMSKeyName  string `env:"KMSKEYNAME"`

	StripeSecretKey      string `env:"STRIPESECRETKEY"`
	StripePublishableKey string `env:"STRIPEPUBLISHABLEKEY"`
	StripeSecretName     string `env:"STRIPESECRETNAME" envDefault:"stripe-secret-key"`

	SchoolCacheTTL      time.Duration `env:"SCHOOLCACHETTL" envDefault:"5m"`
	SchoolCacheSize     int           `env:"SCHOOLCACHESIZE" envDefault:"1024"`
	CampaignDuration    time.Duration `env:"CAMPAIGNDURATION" envDefault:"2160h"`
	AIRequestsPerMinute int           `env:"AIREQUESTSPERMINUTE" envDefault:"30"`
	DefaultCurrency     string        `env:"DEFAULTCURRENCY" envDefault:"usd"`
}

// New loads an optional .env file and parses the environment. A missing .env is not an error.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.DefaultCurrency = strings.ToLower(cfg.DefaultCurrency)
	return cfg, nil
}
