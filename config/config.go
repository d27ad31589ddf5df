// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	MaxConns int32
}

// Enabled reports whether a database host is configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// ConnString returns the libpq style connection string.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.DB)
}

type LLM struct {
	Provider string
	APIKey   string
	Model    string
}

func (l LLM) Enabled() bool {
	return l.APIKey != ""
}

type Config struct {
	Port        string
	LogLevel    string
	CORSOrigins []string
	Postgres    Postgres
	LLM         LLM
}

// Load reads path as a dotenv file when it exists, then builds a Config from
// the environment.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	c := &Config{
		Port:     withDefault(getenv("PORT"), ":8080"),
		LogLevel: withDefault(getenv("LOG_LEVEL"), "info"),
		Postgres: Postgres{
			Host:     getenv("POSTGRES_HOST"),
			Port:     withDefault(getenv("POSTGRES_PORT"), "5432"),
			User:     getenv("POSTGRES_USER"),
			Password: getenv("POSTGRES_PASSWORD"),
			DB:       getenv("POSTGRES_DB"),
			MaxConns: 10,
		},
		LLM: LLM{
			Provider: withDefault(getenv("LLM_PROVIDER"), "huggingface"),
			APIKey:   getenv("API_KEY"),
			Model:    getenv("MODEL_ID"),
		},
	}
	if !strings.Contains(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	for _, o := range strings.Split(withDefault(getenv("CORS_ORIGINS"), "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}
	if v := getenv("POSTGRES_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid POSTGRES_MAX_CONNS %q", v)
		}
		c.Postgres.MaxConns = int32(n)
	}
	switch c.LLM.Provider {
	case "huggingface", "openai":
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q (must be huggingface or openai)", c.LLM.Provider)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return c, nil
}

// Logger returns a text logger writing to stderr at level. Unknown levels
// fall back to info.
func Logger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
