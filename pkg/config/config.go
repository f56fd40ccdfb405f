package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries everything the process needs from the environment. It is read
// once at startup and passed explicitly into constructors; nothing in this
// package keeps global state.
type Config struct {
	Port           string
	AllowedOrigins []string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Solana
	RPCEndpoint string
	// Base58 secret key of the general platform signer (fee payer for
	// token-creation submission).
	PlatformSignerKey string
	// Base58 secret key of the wallet that holds the platform-side LP
	// position for the shared-LP token.
	SharedLPSignerKey string
	// Mint address of the one token whose LP position is platform-held and
	// whose creator rewards are paid out in USDC via the split-payment flow.
	SharedLPTokenMint string
	// DAMM v2 pool address paired with SharedLPTokenMint.
	SharedLPPoolAddress string

	// AES passphrase protecting pending config / mint secret keys at rest.
	KeyVaultSecret string

	// HS256 secret for wallet session tokens.
	SessionSecret string

	// Optional; token-creation events are skipped when unset.
	RabbitMQURL string
}

// Load reads the configuration from the environment. Only the pieces every
// deployment needs are mandatory; signer keys are validated lazily by the
// components that use them so read-only deployments can run without them.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getenvDefault("PORT", "8080"),
		AllowedOrigins:      splitList(os.Getenv("ALLOWED_ORIGINS")),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              getenvDefault("DB_PORT", "5432"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		RPCEndpoint:         os.Getenv("SOLANA_RPC_ENDPOINT"),
		PlatformSignerKey:   os.Getenv("PLATFORM_SIGNER_SECRET"),
		SharedLPSignerKey:   os.Getenv("SHARED_LP_SIGNER_SECRET"),
		SharedLPTokenMint:   os.Getenv("SHARED_LP_TOKEN_MINT"),
		SharedLPPoolAddress: os.Getenv("SHARED_LP_POOL_ADDRESS"),
		KeyVaultSecret:      os.Getenv("KEY_VAULT_SECRET"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		RabbitMQURL:         os.Getenv("RABBITMQ_URL"),
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("database configuration incomplete: DB_HOST, DB_USER and DB_NAME are required")
	}
	if cfg.RPCEndpoint == "" {
		return nil, fmt.Errorf("SOLANA_RPC_ENDPOINT is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
