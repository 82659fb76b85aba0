package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Auth      AuthConfig      `yaml:"auth"`
	Clinic    ClinicConfig    `yaml:"clinic"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

// DayWindow is the clinic's operating window for one weekday. Both fields
// empty means the clinic is closed that day.
type DayWindow struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

func (w DayWindow) Closed() bool {
	return w.Open == "" || w.Close == ""
}

type SeedService struct {
	Title     string  `yaml:"title"`
	BasePrice float64 `yaml:"base_price"`
	Duration  int     `yaml:"duration"`
}

type ClinicConfig struct {
	Timezone    string               `yaml:"timezone"`
	SlotMinutes int                  `yaml:"slot_minutes"`
	Hours       map[string]DayWindow `yaml:"hours"`
	Services    []SeedService        `yaml:"services"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // json or console
	Output   string `yaml:"output"` // stdout, stderr or file
	FilePath string `yaml:"file_path"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Window returns the operating window for a weekday. ok is false when no
// window is configured or the day is marked closed.
func (c *ClinicConfig) Window(d time.Weekday) (DayWindow, bool) {
	for name, w := range c.Hours {
		wd, ok := weekdayNames[strings.ToLower(name)]
		if !ok || wd != d {
			continue
		}
		if w.Closed() {
			return DayWindow{}, false
		}
		return w, true
	}
	return DayWindow{}, false
}

// Location resolves the clinic timezone, falling back to UTC.
func (c *ClinicConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the YAML config at path, then overlays environment variables
// (a .env file is honored when present). Environment always wins so deploys
// can override secrets without touching the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	overlayEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{Name: "dentista-api", Environment: "development", Version: "dev"},
		Server: ServerConfig{
			Port: "8080",
		},
		Mongo: MongoConfig{Database: "dentista"},
		Auth:  AuthConfig{TokenTTLHours: 24},
		Clinic: ClinicConfig{
			Timezone:    "Europe/Rome",
			SlotMinutes: 30,
			Hours: map[string]DayWindow{
				"monday":    {Open: "09:00", Close: "19:00"},
				"tuesday":   {Open: "09:00", Close: "19:00"},
				"wednesday": {Open: "09:00", Close: "19:00"},
				"thursday":  {Open: "09:00", Close: "19:00"},
				"friday":    {Open: "09:00", Close: "19:00"},
			},
		},
		RateLimit: RateLimitConfig{RPS: 2, Burst: 5},
		Logging:   LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required (or set MONGO_URI)")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo.database is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (or set JWT_SECRET)")
	}
	if c.Clinic.SlotMinutes <= 0 {
		return errors.New("clinic.slot_minutes must be positive")
	}
	for name, w := range c.Clinic.Hours {
		if _, ok := weekdayNames[strings.ToLower(name)]; !ok {
			return fmt.Errorf("clinic.hours: unknown weekday %q", name)
		}
		if w.Closed() {
			continue
		}
		open, err := time.Parse("15:04", w.Open)
		if err != nil {
			return fmt.Errorf("clinic.hours.%s.open: %w", name, err)
		}
		close, err := time.Parse("15:04", w.Close)
		if err != nil {
			return fmt.Errorf("clinic.hours.%s.close: %w", name, err)
		}
		if !close.After(open) {
			return fmt.Errorf("clinic.hours.%s: close must be after open", name)
		}
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
