package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Archive backend: "none" keeps the ledger session-only, "sqlite"
	// archives settled payments.
	ArchiveBackend string
	SQLiteDBPath   string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Payment simulator timing
	PayBaseDelay   time.Duration
	PayJitter      time.Duration
	PaySuccessHold time.Duration

	// Assistant
	AssistantDelay time.Duration

	// Statement export worker
	StatementSpreadsheetID string
	StatementSheetName     string
	SweepInterval          time.Duration
	SweepBatchSize         int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		ArchiveBackend: getEnv("ARCHIVE_BACKEND", "none"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/vaanipay.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "vaanipay"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "payment_completed"),

		PayBaseDelay:   getEnvDuration("PAY_BASE_DELAY", 1600*time.Millisecond),
		PayJitter:      getEnvDuration("PAY_JITTER", 500*time.Millisecond),
		PaySuccessHold: getEnvDuration("PAY_SUCCESS_HOLD", 1500*time.Millisecond),

		AssistantDelay: getEnvDuration("ASSISTANT_DELAY", 700*time.Millisecond),

		StatementSpreadsheetID: getEnv("STATEMENT_SPREADSHEET_ID", ""),
		StatementSheetName:     getEnv("STATEMENT_SHEET_NAME", "Statement"),
		SweepInterval:          getEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		SweepBatchSize:         getEnvInt("SWEEP_BATCH_SIZE", 10),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate archive backend
	switch c.ArchiveBackend {
	case "none", "sqlite":
	default:
		errors = append(errors, fmt.Sprintf("invalid archive backend '%s': must be one of [none sqlite]", c.ArchiveBackend))
	}

	// Validate SQLite configuration if archiving is enabled
	if c.ArchiveBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite archive")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Simulator delays: the processing delay must be non-negative and
	// bounded so a payment always eventually settles.
	if c.PayBaseDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid pay base delay %v: must not be negative", c.PayBaseDelay))
	} else if c.PayBaseDelay > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid pay base delay %v: must be at most 1 minute", c.PayBaseDelay))
	}
	if c.PayJitter < 0 {
		errors = append(errors, fmt.Sprintf("invalid pay jitter %v: must not be negative", c.PayJitter))
	} else if c.PayJitter > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid pay jitter %v: must be at most 1 minute", c.PayJitter))
	}
	if c.PaySuccessHold < 0 {
		errors = append(errors, fmt.Sprintf("invalid pay success hold %v: must not be negative", c.PaySuccessHold))
	}

	// Validate worker configuration
	if c.SweepBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid sweep batch size %d: must be at least 1", c.SweepBatchSize))
	} else if c.SweepBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid sweep batch size %d: must be at most 1000", c.SweepBatchSize))
	}
	if c.SweepInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sweep interval %v: must be at least 1 second", c.SweepInterval))
	} else if c.SweepInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sweep interval %v: must be at most 24 hours", c.SweepInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
