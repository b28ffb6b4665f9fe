package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string
	Path            string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	Debug           bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	BodyLimit       string
	ShutdownTimeout time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
	APIRateLimit    float64
	APIRateBurst    int
	AllowedOrigins  []string
}

// AWSConfig holds the external AWS collaborators
type AWSConfig struct {
	Region          string
	CognitoRegion   string
	CognitoPoolID   string
	CognitoClientID string
	S3Region        string
	S3Bucket        string
	S3PublicURL     string
	WebSocketURL    string
	MailFrom        string
}

// Config holds all configuration
type Config struct {
	Env        string
	LogLevel   string
	NodeID     int64
	AppURL     string
	ReceitaURL string
	DB         DBConfig
	Server     ServerConfig
	AWS        AWSConfig
}

// Load reads the environment. In production, parameters are first exported
// from AWS SSM Parameter Store; otherwise the optional .env file is used.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("GO_ENV") == "production" {
		prefix := getEnv("SSM_PARAMS_PREFIX", "/qualiobra/prod/")
		if err := loadFromSSM(ctx, getEnv("AWS_REGION", "us-east-2"), prefix); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil {
		// .env is optional in development
		log.Warnf(".env file not found, using environment variables")
	}

	region := getEnv("AWS_REGION", "us-east-2")
	cfg := &Config{
		Env:        getEnv("GO_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		NodeID:     int64(getEnvAsInt("NODE_ID", 1)),
		AppURL:     strings.TrimSuffix(getEnv("APP_URL", "http://localhost:3000"), "/"),
		ReceitaURL: getEnv("MINHA_RECEITA_URL", "https://minhareceita.org/"),
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Path:            getEnv("DB_PATH", "database.db"),
			DSN:             getEnv("DB_DSN", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			Debug:           getEnvAsBool("DB_DEBUG", false),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "7070"),
			BodyLimit:       getEnv("SERVER_BODY_LIMIT", "12M"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			LoginRateLimit:  getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginRateWindow: getEnvAsDuration("LOGIN_RATE_WINDOW", time.Minute),
			APIRateLimit:    getEnvAsFloat("API_RATE_LIMIT", 20),
			APIRateBurst:    getEnvAsInt("API_RATE_BURST", 40),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		AWS: AWSConfig{
			Region:          region,
			CognitoRegion:   getEnv("AWS_COGNITO_REGION", region),
			CognitoPoolID:   getEnv("AWS_COGNITO_USER_POOL_ID", ""),
			CognitoClientID: getEnv("AWS_COGNITO_APP_CLIENT_ID", ""),
			S3Region:        getEnv("AWS_S3_REGION", region),
			S3Bucket:        getEnv("S3_BUCKET_NAME", ""),
			S3PublicURL:     getEnv("S3_PUBLIC_URL", ""),
			WebSocketURL:    getEnv("AWS_WEBSOCKET_URL", ""),
			MailFrom:        getEnv("MAIL_FROM", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.Driver != "sqlite" && c.DB.Driver != "postgres" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DB.Driver))
	}
	if c.DB.Driver == "postgres" && c.DB.DSN == "" {
		errs = append(errs, errors.New("DB_DSN is required for postgres"))
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		errs = append(errs, fmt.Errorf("NODE_ID must be in [0, 1023], got %d", c.NodeID))
	}
	if c.AWS.CognitoPoolID == "" || c.AWS.CognitoClientID == "" {
		errs = append(errs, errors.New("AWS_COGNITO_USER_POOL_ID and AWS_COGNITO_APP_CLIENT_ID are required"))
	}
	if c.AWS.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET_NAME is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func loadFromSSM(ctx context.Context, region, prefix string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
