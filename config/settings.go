package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/blog-admin-console/errs"
)

// Settings is the explicit startup configuration of the console. Adapters
// are only constructed once Validate has passed.
type Settings struct {
	Port string `env:"PORT" validate:"required,numeric"`

	StorageBaseURL string `env:"STORAGE_BASE_URL" validate:"required,url"`
	AuthServiceURL string `env:"AUTH_SERVICE_URL" validate:"required,url"`
	ServiceKey     string `env:"SERVICE_KEY" validate:"required"`
	JWTSecret      string `env:"JWT_SECRET"`

	DB      DBSettings
	Storage StorageSettings
	LLM     LLMSettings

	AcceptedOrigins []string
	CookieSecure    bool          `env:"COOKIE_SECURE"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_MB" validate:"gt=0"`
	WorkspaceTTL    time.Duration `env:"WORKSPACE_TTL_MINUTES" validate:"gt=0"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

type DBSettings struct {
	Host        string `env:"SUPABASE_DB_HOST" validate:"required"`
	User        string `env:"SUPABASE_DB_USER" validate:"required"`
	Password    string `env:"SUPABASE_DB_PASSWORD"`
	Name        string `env:"SUPABASE_DB_NAME" validate:"required"`
	Port        string `env:"SUPABASE_DB_PORT" validate:"required,numeric"`
	SSLMode     string `env:"SUPABASE_DB_SSLMODE" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	ReplicaHost string `env:"SUPABASE_DB_REPLICA_HOST"`
}

// DSN builds the primary connection string
func (d DBSettings) DSN() string {
	return d.dsnFor(d.Host)
}

// ReplicaDSN is empty when no read replica is configured
func (d DBSettings) ReplicaDSN() string {
	if d.ReplicaHost == "" {
		return ""
	}
	return d.dsnFor(d.ReplicaHost)
}

func (d DBSettings) dsnFor(host string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type StorageSettings struct {
	Bucket          string `env:"STORAGE_BUCKET" validate:"required"`
	Region          string `env:"STORAGE_S3_REGION" validate:"required"`
	AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID" validate:"required"`
	SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY" validate:"required"`
}

type LLMSettings struct {
	Provider string `env:"LLM_PROVIDER" validate:"oneof=googleai openai"`
	APIKey   string `env:"LLM_API_KEY" validate:"required"`
	Model    string `env:"LLM_MODEL" validate:"required"`
	BaseURL  string `env:"LLM_BASE_URL" validate:"omitempty,url"`
}

// SecretResolver looks up a secret value by name, e.g. from a parameter store
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Load reads Settings out of an environment map as returned by New. When
// SERVICE_KEY_SSM_PARAM is set and resolver is non-nil, the service key is
// fetched through the resolver instead of the environment.
func Load(ctx context.Context, c map[string]string, resolver SecretResolver) (Settings, error) {
	projectURL := GetString(c, "SUPABASE_URL", "")

	s := Settings{
		Port:           GetString(c, "PORT", "8080"),
		StorageBaseURL: strings.TrimSuffix(GetString(c, "STORAGE_BASE_URL", projectURL), "/"),
		AuthServiceURL: strings.TrimSuffix(GetString(c, "AUTH_SERVICE_URL", projectURL), "/"),
		ServiceKey:     GetString(c, "SERVICE_KEY", GetString(c, "SUPABASE_ANON_KEY", "")),
		JWTSecret:      GetString(c, "JWT_SECRET", GetString(c, "SUPABASE_JWT_SECRET", "")),
		DB: DBSettings{
			Host:        GetString(c, "SUPABASE_DB_HOST", ""),
			User:        GetString(c, "SUPABASE_DB_USER", ""),
			Password:    GetString(c, "SUPABASE_DB_PASSWORD", ""),
			Name:        GetString(c, "SUPABASE_DB_NAME", "postgres"),
			Port:        GetString(c, "SUPABASE_DB_PORT", "5432"),
			SSLMode:     GetString(c, "SUPABASE_DB_SSLMODE", "require"),
			ReplicaHost: GetString(c, "SUPABASE_DB_REPLICA_HOST", ""),
		},
		Storage: StorageSettings{
			Bucket:          GetString(c, "STORAGE_BUCKET", "blog-images"),
			Region:          GetString(c, "STORAGE_S3_REGION", "us-east-1"),
			AccessKeyID:     GetString(c, "STORAGE_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: GetString(c, "STORAGE_S3_SECRET_ACCESS_KEY", ""),
		},
		LLM: LLMSettings{
			Provider: strings.ToLower(GetString(c, "LLM_PROVIDER", "googleai")),
			APIKey:   GetString(c, "LLM_API_KEY", ""),
			Model:    GetString(c, "LLM_MODEL", "gemini-2.0-flash"),
			BaseURL:  GetString(c, "LLM_BASE_URL", ""),
		},
		AcceptedOrigins: splitList(GetString(c, "ACCEPTED_ORIGINS", "")),
		CookieSecure:    GetBool(c, "COOKIE_SECURE", false),
		MaxUploadBytes:  int64(GetInt(c, "MAX_UPLOAD_MB", 10)) << 20,
		WorkspaceTTL:    time.Duration(GetInt(c, "WORKSPACE_TTL_MINUTES", 720)) * time.Minute,
		ReadTimeout:     time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout:    time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:     time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
	}

	if param := GetString(c, "SERVICE_KEY_SSM_PARAM", ""); param != "" && resolver != nil {
		key, err := resolver.Resolve(ctx, param)
		if err != nil {
			return Settings{}, errs.NewConfigError("SERVICE_KEY_SSM_PARAM", err)
		}
		s.ServiceKey = key
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

var settingsValidator = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks that every required field is present, naming the
// environment variables that are missing or invalid.
func (s Settings) Validate() error {
	err := settingsValidator.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errs.NewConfigError("settings", err)
	}

	cause := errs.ErrConfigMissing
	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		if fe.Tag() != "required" {
			cause = errs.ErrConfigInvalid
		}
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return errs.NewConfigError(strings.Join(fields, ", "), cause)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
