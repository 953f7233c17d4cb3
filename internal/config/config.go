package config

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		Debug              bool     `mapstructure:"debug"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	SMS struct {
		Provider       string `mapstructure:"provider"`
		APIKey         string `mapstructure:"api_key"`
		BaseURL        string `mapstructure:"base_url"`
		SenderID       string `mapstructure:"sender_id"`
		TemplateName   string `mapstructure:"template_name"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"sms"`

	OTP struct {
		Store string `mapstructure:"store"` // "memory" or "redis"
	} `mapstructure:"otp"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Monitor struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"monitor"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "ecosort")
	v.SetDefault("sms.provider", "prp")
	v.SetDefault("sms.base_url", "https://api.bulksmsadmin.com/BulkSMSapi/keyApiSendSMS")
	v.SetDefault("sms.template_name", "OSG_SMS_OTP")
	v.SetDefault("sms.timeout_seconds", 30)
	v.SetDefault("otp.store", "memory")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "recycle-backend")
	v.SetDefault("monitor.port", 9090)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override server settings from environment
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if debug := os.Getenv("APP_DEBUG"); debug != "" {
		cfg.Server.Debug = debug == "true" || debug == "1"
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	// Override SMS gateway settings from PRP_* environment variables
	if key := os.Getenv("PRP_API_KEY"); key != "" {
		cfg.SMS.APIKey = key
	}
	if base := os.Getenv("PRP_API_BASE_URL"); base != "" {
		cfg.SMS.BaseURL = base
	}
	if sender := os.Getenv("PRP_SENDER_ID"); sender != "" {
		cfg.SMS.SenderID = sender
	}
	if tmpl := os.Getenv("PRP_TEMPLATE_NAME"); tmpl != "" {
		cfg.SMS.TemplateName = tmpl
	}

	if store := os.Getenv("OTP_STORE"); store != "" {
		cfg.OTP.Store = store
	}
	if port := os.Getenv("MONITOR_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Monitor.Port = n
		}
	}

	// Override JWT secret from environment if not set
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			// Try to fetch from R2 backup (disaster recovery)
			log.Printf("[Config] JWT_SECRET not set, fetching from R2 backup...")
			cfg.JWT.Secret = fetchJWTSecretFromR2()
			if cfg.JWT.Secret == "" {
				log.Fatal("JWT_SECRET not found in environment or R2 backup")
			}
			log.Printf("[Config] JWT secret loaded from R2 backup")
		}
	}

	return &cfg
}

// fetchJWTSecretFromR2 fetches JWT secret from R2 backup for disaster recovery
func fetchJWTSecretFromR2() string {
	r2 := loadR2Config()
	if r2.AccessKey == "" || r2.SecretKey == "" {
		log.Printf("[Config] R2 credentials not configured")
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r2.AccessKey,
			r2.SecretKey,
			"",
		)),
		awsconfig.WithRegion(r2.Region),
	)
	if err != nil {
		log.Printf("[Config] Failed to configure R2 client: %v", err)
		return ""
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2.Endpoint)
	})

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r2.Bucket),
		Key:    aws.String("config/jwt_secret.txt"),
	})
	if err != nil {
		log.Printf("[Config] Failed to fetch JWT secret from R2: %v", err)
		return ""
	}
	defer result.Body.Close()

	secret, err := io.ReadAll(result.Body)
	if err != nil {
		log.Printf("[Config] Failed to read JWT secret: %v", err)
		return ""
	}

	return string(secret)
}
