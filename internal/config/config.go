package config

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_" yaml:"server"`
	Log      logger.Config  `envPrefix:"LOG_" yaml:"log"`
	Sources  SourcesConfig  `envPrefix:"SOURCES_" yaml:"sources"`
	Auth     AuthConfig     `envPrefix:"AUTH_" yaml:"auth"`
	Listings ListingsConfig `envPrefix:"LISTINGS_" yaml:"listings"`
	Store    StoreConfig    `envPrefix:"STORE_" yaml:"store"`
	Activity ActivityConfig `envPrefix:"ACTIVITY_" yaml:"activity"`
}

type ServerConfig struct {
	Addr        string `env:"ADDR" envDefault:"127.0.0.1:8080" yaml:"addr"`
	CORSPattern string `env:"CORS_PATTERN" envDefault:"^https?://(localhost|127\\.0\\.0\\.1)(:\\d+)?$" yaml:"corsPattern"`
	Pprof       bool   `env:"PPROF" yaml:"pprof"`
}

type SourceConfig struct {
	BaseURL      string              `env:"BASE_URL" yaml:"baseUrl"`
	ProductsPath string              `env:"PRODUCTS_PATH" yaml:"productsPath"`
	ProbePath    string              `env:"PROBE_PATH" yaml:"probePath"`
	Shape        models.PayloadShape `env:"SHAPE" yaml:"shape"`
}

type SourcesConfig struct {
	Primary      SourceConfig  `envPrefix:"PRIMARY_" yaml:"primary"`
	Secondary    SourceConfig  `envPrefix:"SECONDARY_" yaml:"secondary"`
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT" envDefault:"5s" yaml:"probeTimeout"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s" yaml:"fetchTimeout"`
	// LimitHint is forwarded as ?limit= to external-shape sources.
	LimitHint int    `env:"LIMIT_HINT" envDefault:"20" yaml:"limitHint"`
	MockSeed  uint64 `env:"MOCK_SEED" yaml:"mockSeed"`
}

type AuthConfig struct {
	BaseURL         string        `env:"BASE_URL" yaml:"baseUrl"`
	ValidateTimeout time.Duration `env:"VALIDATE_TIMEOUT" envDefault:"3s" yaml:"validateTimeout"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s" yaml:"requestTimeout"`
}

type ListingsConfig struct {
	BaseURL    string `env:"BASE_URL" yaml:"baseUrl"`
	RetryCount int    `env:"RETRY_COUNT" envDefault:"2" yaml:"retryCount"`
}

type StoreConfig struct {
	// Driver is one of memory, file, redis, mongo.
	Driver        string      `env:"DRIVER" envDefault:"file" yaml:"driver"`
	FilePath      string      `env:"FILE_PATH" yaml:"filePath"`
	EncryptionKey string      `env:"ENCRYPTION_KEY" yaml:"encryptionKey"`
	Redis         RedisConfig `envPrefix:"REDIS_" yaml:"redis"`
	Mongo         MongoConfig `envPrefix:"MONGO_" yaml:"mongo"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379" yaml:"addr"`
	Password string `env:"PASSWORD" yaml:"password"`
	DB       int    `env:"DB" envDefault:"0" yaml:"db"`
	Prefix   string `env:"PREFIX" envDefault:"reuse:" yaml:"prefix"`
}

type MongoConfig struct {
	URI        string `env:"URI" envDefault:"mongodb://localhost:27017" yaml:"uri"`
	Database   string `env:"DATABASE" envDefault:"reuse" yaml:"database"`
	Collection string `env:"COLLECTION" envDefault:"device_store" yaml:"collection"`
	Namespace  string `env:"NAMESPACE" envDefault:"default" yaml:"namespace"`
}

type ActivityConfig struct {
	// Driver is one of none, kafka, mongo.
	Driver       string   `env:"DRIVER" envDefault:"none" yaml:"driver"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," yaml:"kafkaBrokers"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"reuse.activity" yaml:"kafkaTopic"`
	MongoURI     string   `env:"MONGO_URI" envDefault:"mongodb://localhost:27017" yaml:"mongoUri"`
	MongoDB      string   `env:"MONGO_DATABASE" envDefault:"reuse" yaml:"mongoDatabase"`
}

const (
	defaultPrimaryURL   = "http://89.117.33.17:3000"
	defaultSecondaryURL = "https://fakestoreapi.com"
)

// Load reads the environment. When path is not empty the YAML file at path is read as well and
// its values win over the environment; fields the file leaves empty are taken from the environment.
func Load(path string) (*Config, error) {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := envCfg
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		fileCfg := Config{}
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		if err := mergo.Merge(&fileCfg, envCfg); err != nil {
			return nil, fmt.Errorf("merge config: %w", err)
		}
		cfg = fileCfg
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) applyDefaults() {
	p := &c.Sources.Primary
	if p.BaseURL == "" {
		p.BaseURL = defaultPrimaryURL
	}
	if p.ProductsPath == "" {
		p.ProductsPath = "/products"
	}
	if p.ProbePath == "" {
		p.ProbePath = p.ProductsPath
	}
	if p.Shape == "" {
		p.Shape = models.ShapeCanonical
	}

	s := &c.Sources.Secondary
	if s.BaseURL == "" {
		s.BaseURL = defaultSecondaryURL
	}
	if s.ProductsPath == "" {
		s.ProductsPath = "/products"
	}
	if s.ProbePath == "" {
		s.ProbePath = "/"
	}
	if s.Shape == "" {
		s.Shape = models.ShapeExternal
	}

	if c.Auth.BaseURL == "" {
		c.Auth.BaseURL = p.BaseURL
	}
	if c.Listings.BaseURL == "" {
		c.Listings.BaseURL = p.BaseURL
	}
}

func (c *Config) Validate() error {
	for name, s := range map[string]SourceConfig{"primary": c.Sources.Primary, "secondary": c.Sources.Secondary} {
		if s.Shape != models.ShapeCanonical && s.Shape != models.ShapeExternal {
			return fmt.Errorf("sources.%s.shape: unknown payload shape %q", name, s.Shape)
		}
	}
	if c.Sources.ProbeTimeout <= 0 {
		return fmt.Errorf("sources.probeTimeout must be positive")
	}
	if c.Auth.ValidateTimeout <= 0 {
		return fmt.Errorf("auth.validateTimeout must be positive")
	}
	switch c.Store.Driver {
	case "memory", "file", "redis", "mongo":
	default:
		return fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver)
	}
	switch c.Activity.Driver {
	case "none", "mongo":
	case "kafka":
		if len(c.Activity.KafkaBrokers) == 0 {
			return fmt.Errorf("activity.kafkaBrokers is required for the kafka driver")
		}
	default:
		return fmt.Errorf("activity.driver: unknown driver %q", c.Activity.Driver)
	}
	return nil
}
