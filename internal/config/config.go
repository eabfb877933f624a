package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/galaxybank/ledger-core/internal/domain"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=galaxy_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultChannelID = "GalaxyTeller"
const defaultChannelKey = "GalaxyTellerKey001"

// CeilingPolicy controls what happens when a write would produce a balance
// or entry amount at/above the suspicious-magnitude ceiling.
type CeilingPolicy string

const (
	CeilingPolicyFlag   CeilingPolicy = "flag"
	CeilingPolicyReject CeilingPolicy = "reject"
)

type Config struct {
	Port          int
	LogLevel      string
	DatabaseDSN   string
	MigrationsDir string

	ChannelID      string
	ChannelKey     string
	ChannelKeyHash string

	SuspiciousCeiling domain.Money
	CeilingPolicy     CeilingPolicy

	CustomerDirectoryURL string
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	channelID := strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	if channelID == "" {
		channelID = defaultChannelID
	}

	channelKey := strings.TrimSpace(os.Getenv("CHANNEL_KEY"))
	if channelKey == "" {
		channelKey = defaultChannelKey
	}

	ceiling := domain.DefaultSuspiciousCeiling
	if raw := strings.TrimSpace(os.Getenv("SUSPICIOUS_CEILING")); raw != "" {
		parsed, err := domain.ParseMoney(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SUSPICIOUS_CEILING %q: %w", raw, err)
		}
		ceiling = parsed
	}

	policy := CeilingPolicyFlag
	if raw := strings.ToLower(strings.TrimSpace(os.Getenv("CEILING_POLICY"))); raw != "" {
		switch CeilingPolicy(raw) {
		case CeilingPolicyFlag, CeilingPolicyReject:
			policy = CeilingPolicy(raw)
		default:
			return Config{}, fmt.Errorf("invalid CEILING_POLICY %q: must be flag or reject", raw)
		}
	}

	return Config{
		Port:                 getEnvInt("PORT", 8080),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseDSN:          normalizeConnectionString(conn),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", filepath.Join("migrations")),
		ChannelID:            channelID,
		ChannelKey:           channelKey,
		ChannelKeyHash:       strings.TrimSpace(os.Getenv("CHANNEL_KEY_HASH")),
		SuspiciousCeiling:    ceiling,
		CeilingPolicy:        policy,
		CustomerDirectoryURL: getEnv("CUSTOMER_DIRECTORY_URL", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// normalizeConnectionString accepts either a libpq DSN or a semicolon
// separated .NET-style connection string and normalizes it to libpq form.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") && !strings.Contains(raw, "=") {
		return raw
	}
	if !strings.Contains(raw, ";") && strings.Contains(raw, " ") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
