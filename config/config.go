package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	awspkg "restaurant-service/pkg/aws"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds all environment variables for the restaurant service.
type Config struct {
	Port              string   // HTTP port (default: 5000)
	Env               string   // "production" switches logging and gin mode
	AccessTokenSecret string   // HS256 secret for bearer tokens
	PaymentSecretKey  string   // Stripe secret key
	PaymentCurrency   string   // currency used for payment intents
	DBDriver          string   // "mongo" or "memory"
	MongoURI          string   // full connection string
	DBName            string   // database holding the five collections
	AllowedOrigins    []string // CORS allowlist, "*" allows every origin
	PaymentTopicARN   string   // SNS topic for checkout events, optional
	UseAWSSecrets     bool     // read secrets from AWS Secrets Manager

	// SecretsFallback is set when Secrets Manager was requested but one or
	// more values could not be read and the environment values were kept.
	SecretsFallback error
}

// SecretGetter reads a named secret. Implemented by awspkg.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// LoadConfig loads environment variables into Config struct and validates them.
// If AWS_USE_SECRETS=true it will attempt to read secrets from Secrets Manager
// and fall back to env vars on failure, recording why in SecretsFallback.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := fromEnv()

	if cfg.UseAWSSecrets {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err != nil {
			cfg.SecretsFallback = err
		} else {
			cfg.SecretsFallback = applySecrets(context.Background(), cfg, awspkg.NewSecretsClient(awsCfg))
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		Env:               getEnv("ENV", "development"),
		AccessTokenSecret: strings.TrimSpace(os.Getenv("ACCESS_TOKEN_SECRET")),
		PaymentSecretKey:  strings.TrimSpace(getEnv("Payment_Secret_Key", os.Getenv("STRIPE_API_KEY"))),
		PaymentCurrency:   strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DriverMongo)),
		MongoURI:          os.Getenv("MONGO_URI"),
		DBName:            getEnv("DB_NAME", "Restro-QueenDB"),
		AllowedOrigins:    splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		PaymentTopicARN:   os.Getenv("PAYMENT_SNS_TOPIC_ARN"),
		UseAWSSecrets:     os.Getenv("AWS_USE_SECRETS") == "true",
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = buildMongoURI(os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_CLUSTER"))
	}
	return cfg
}

// applySecrets overrides the env values with the stored secrets. Secrets
// that cannot be read keep the env value and are reported in the result.
func applySecrets(ctx context.Context, cfg *Config, sm SecretGetter) error {
	var errs []error
	read := func(name string, dst *string) {
		v, err := sm.GetSecret(ctx, name)
		switch {
		case err != nil:
			errs = append(errs, err)
		case v == "":
			errs = append(errs, fmt.Errorf("secret %s is empty", name))
		default:
			*dst = v
		}
	}
	read("restro/ACCESS_TOKEN_SECRET", &cfg.AccessTokenSecret)
	read("restro/PAYMENT_SECRET_KEY", &cfg.PaymentSecretKey)
	return errors.Join(errs...)
}

func (c *Config) validate() error {
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.PaymentSecretKey == "" {
		return fmt.Errorf("Payment_Secret_Key is required")
	}
	switch c.DBDriver {
	case DriverMemory:
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI or DB_USER/DB_PASS/DB_CLUSTER is required")
		}
		if err := validateMongoURI(c.MongoURI); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func buildMongoURI(user, pass, cluster string) string {
	if user == "" || pass == "" || cluster == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     cluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

// validateMongoURI rejects connection strings the driver could never use.
// Reachability is not checked here, and multi-host seed lists are allowed.
func validateMongoURI(raw string) error {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || (scheme != "mongodb" && scheme != "mongodb+srv") {
		return fmt.Errorf("invalid MONGO_URI: scheme must be mongodb or mongodb+srv")
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if host, _, _ := strings.Cut(rest, "/"); strings.TrimSpace(host) == "" {
		return fmt.Errorf("invalid MONGO_URI: missing host")
	}
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(o), "/"))
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
