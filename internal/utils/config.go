package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"
	envPrefix         = "LABFORMS_"
	clockLayout       = "15:04"
)

// WorkingHours is the daily booking window and the weekdays the lab is closed
// (0 = Sunday ... 6 = Saturday).
type WorkingHours struct {
	Start      string `yaml:"start" validate:"required,clock"`
	End        string `yaml:"end" validate:"required,clock"`
	ClosedDays []int  `yaml:"closed_days" validate:"dive,min=0,max=6"`
}

// MailConfig selects the outbound transport and the sender identity.
type MailConfig struct {
	Provider       string        `yaml:"provider" validate:"oneof=log sendgrid ses resend smtp"`
	FromEmail      string        `yaml:"from_email" validate:"required,email"`
	FromName       string        `yaml:"from_name"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key" validate:"required_if=Provider sendgrid"`
	ResendAPIKey   string        `yaml:"resend_api_key" validate:"required_if=Provider resend"`
	SES            struct {
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
	} `yaml:"ses"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"smtp"`
}

// ContactConfig configures the contact form.
type ContactConfig struct {
	ToEmail          string `yaml:"to_email" validate:"required,email"`
	SubjectPrefix    string `yaml:"subject_prefix"`
	MaxMessageLength int    `yaml:"max_message_length" validate:"gt=0"`
}

// BookingConfig configures the appointment form and its catalogs.
type BookingConfig struct {
	ToEmail       string       `yaml:"to_email" validate:"required,email"`
	SubjectPrefix string       `yaml:"subject_prefix"`
	Timezone      string       `yaml:"timezone" validate:"required"`
	HorizonMonths int          `yaml:"horizon_months" validate:"gt=0"`
	WorkingHours  WorkingHours `yaml:"working_hours"`
	DefaultBranch string       `yaml:"default_branch" validate:"required"`
	// SendConfirmation mails a copy to the patient after the lab notification.
	SendConfirmation bool `yaml:"send_confirmation"`
	// RequireConfirmationDelivery turns a failed patient copy into a 500.
	RequireConfirmationDelivery bool              `yaml:"require_confirmation_delivery"`
	Services                    map[string]string `yaml:"services" validate:"required,min=1"`
	Branches                    map[string]string `yaml:"branches" validate:"required,min=1"`
}

// RateLimitConfig bounds contact submissions per client IP.
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=0"`
	Interval    time.Duration `yaml:"interval" validate:"gt=0"`
}

// Config is the full service configuration.
type Config struct {
	Server struct {
		Host       string `yaml:"host"`
		Port       string `yaml:"port" validate:"required"`
		Prefork    bool   `yaml:"prefork"`
		TrustProxy bool   `yaml:"trust_proxy"`
		BodyLimit  int    `yaml:"body_limit" validate:"gte=0"`
	} `yaml:"server"`
	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`
	Cache struct {
		RedisHost   string `yaml:"redis_host"`
		RateLimitDB int    `yaml:"redis_rate_db"`
	} `yaml:"cache"`
	RateLimiter RateLimitConfig `yaml:"rate_limiter"`
	CORS        struct {
		AllowOrigins string `yaml:"allow_origins"`
	} `yaml:"cors"`
	Mail    MailConfig    `yaml:"mail"`
	Contact ContactConfig `yaml:"contact"`
	Booking BookingConfig `yaml:"booking"`
}

// LoadConfig reads the file named by CONFIG_PATH (default config.yaml).
func LoadConfig() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFrom(path)
}

// LoadFrom reads, overrides and validates the configuration at path. It
// panics on invalid values; a missing file leaves the built-in defaults.
func LoadFrom(path string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(fmt.Sprintf("config: parse %s: %v", path, err))
		}
	case errors.Is(err, fs.ErrNotExist):
		Warn("Config file not found, using defaults", "path", path)
	default:
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}

	fillCatalogDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		panic(fmt.Sprintf("config: env overrides: %v", err))
	}
	if err := validateConfig(cfg); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	return cfg
}

// DefaultConfig returns the lab's production values without catalogs.
func DefaultConfig() Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = ":8080"
	cfg.Server.BodyLimit = 1 * 1024 * 1024

	cfg.Logger.Level = "info"
	cfg.Logger.MaxSizeMB = 50
	cfg.Logger.MaxBackups = 3
	cfg.Logger.MaxAgeDays = 28

	cfg.RateLimiter.Enabled = true
	cfg.RateLimiter.MaxAttempts = 5
	cfg.RateLimiter.Interval = time.Hour

	cfg.CORS.AllowOrigins = "*"

	cfg.Mail.Provider = "log"
	cfg.Mail.FromEmail = "noreply@tadamun-labs.com"
	cfg.Mail.FromName = "مختبرات التضامن الدولية"
	cfg.Mail.Timeout = 10 * time.Second
	cfg.Mail.SMTP.Port = 587

	cfg.Contact.ToEmail = "info@tadamun-labs.com"
	cfg.Contact.SubjectPrefix = "[مختبرات التضامن] "
	cfg.Contact.MaxMessageLength = 5000

	cfg.Booking.ToEmail = "appointments@tadamun-labs.com"
	cfg.Booking.SubjectPrefix = "[حجز موعد] "
	cfg.Booking.Timezone = "Asia/Aden"
	cfg.Booking.HorizonMonths = 3
	cfg.Booking.WorkingHours = WorkingHours{Start: "07:00", End: "22:00", ClosedDays: []int{5}}
	cfg.Booking.DefaultBranch = "main"
	cfg.Booking.SendConfirmation = true
	return cfg
}

// DefaultServices is the lab's test catalog.
func DefaultServices() map[string]string {
	return map[string]string{
		"pre_marriage":        "فحوصات ما قبل الزواج",
		"infectious_diseases": "فحوصات الأمراض المعدية",
		"genetic_diseases":    "فحوصات الأمراض الوراثية",
		"blood_tests":         "تحاليل الدم الشاملة",
		"urine_tests":         "فحوصات البول",
		"hormones":            "تحاليل الهرمونات",
		"vitamins":            "فحوصات الفيتامينات",
		"liver_function":      "وظائف الكبد",
		"kidney_function":     "وظائف الكلى",
		"heart_tests":         "فحوصات القلب",
		"diabetes":            "فحوصات السكري",
		"lipids":              "فحوصات الدهون",
		"immunity":            "فحوصات المناعة",
		"other":               "أخرى",
	}
}

// DefaultBranches is the lab's branch catalog.
func DefaultBranches() map[string]string {
	return map[string]string{
		"main":   "الفرع الرئيسي - تعز",
		"nashma": "فرع النشمة",
		"hawban": "فرع الحوبان",
	}
}

// Catalogs are filled after decoding so a configured catalog replaces the
// default one instead of merging into it.
func fillCatalogDefaults(cfg *Config) {
	if len(cfg.Booking.Services) == 0 {
		cfg.Booking.Services = DefaultServices()
	}
	if len(cfg.Booking.Branches) == 0 {
		cfg.Booking.Branches = DefaultBranches()
	}
}

// applyEnvOverrides maps LABFORMS_SECTION__KEY variables onto section.key.
func applyEnvOverrides(cfg *Config) error {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return err
	}
	if len(k.Keys()) == 0 {
		return nil
	}
	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"})
}

func validateConfig(cfg Config) error {
	validate := validator.New()
	if err := validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(clockLayout, fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	start, _ := time.Parse(clockLayout, cfg.Booking.WorkingHours.Start)
	end, _ := time.Parse(clockLayout, cfg.Booking.WorkingHours.End)
	if end.Before(start) {
		return fmt.Errorf("working hours end %s is before start %s", cfg.Booking.WorkingHours.End, cfg.Booking.WorkingHours.Start)
	}
	if _, err := time.LoadLocation(cfg.Booking.Timezone); err != nil {
		return fmt.Errorf("booking timezone: %w", err)
	}
	if _, ok := cfg.Booking.Branches[cfg.Booking.DefaultBranch]; !ok {
		return fmt.Errorf("default branch %q is not in the branch catalog", cfg.Booking.DefaultBranch)
	}
	if cfg.Mail.Provider == "ses" && cfg.Mail.SES.Region == "" {
		return errors.New("mail.ses.region is required for the ses provider")
	}
	if cfg.Mail.Provider == "smtp" && cfg.Mail.SMTP.Host == "" {
		return errors.New("mail.smtp.host is required for the smtp provider")
	}
	return nil
}
