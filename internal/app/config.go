package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment variable names. The spreadsheet id names match the ones the
// deployment already defines, lower-case included.
const (
	EnvCredentials    = "GOOGLE_SERVICE_ACCOUNT_CREDENTIALS_BASE64"
	EnvSheetName      = "GOOGLE_SHEET_NAME"
	EnvLookupSheet    = "medicamentos"
	EnvPrimarySheet1  = "id_farmaminsaelagustino"
	EnvPrimarySheet2  = "id_famaminsaate"
	EnvPrimarySheet3  = "id_farmaminsachosica"
	EnvPort           = "PORT"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvSheetsTimeout  = "SHEETS_TIMEOUT"
)

const (
	DefaultSheetName     = "Hoja1"
	DefaultPort          = "8080"
	DefaultSheetsTimeout = 15 * time.Second
)

// DefaultAllowedOrigins are the front-ends allowed to call the API from a browser.
var DefaultAllowedOrigins = []string{
	"https://sismed-dirisle.googlesites.cloud",
	"https://luiscarrillo7.github.io",
	"https://sismed-frontend.onrender.com",
	"https://consulta-sismed.googlesites.cloud",
	"https://sismed-frontend.pages.dev",
	"https://sismed-frontend.vercel.app",
}

// Config holds every setting the service needs, read once at startup.
type Config struct {
	CredentialsBase64   string
	SheetName           string
	LookupSpreadsheetID string
	// PrimarySpreadsheetIDs is keyed by environment variable name.
	PrimarySpreadsheetIDs map[string]string

	Port           string
	AllowedOrigins []string
	SheetsTimeout  time.Duration
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	case "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		level, parseErr := zerolog.ParseLevel(levelStr)
		if parseErr != nil {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
			break
		}
		zerolog.SetGlobalLevel(level)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadConfig reads the configuration from the environment. Missing required
// settings are not fatal: they are logged here and reported to callers on
// every request that needs them.
func LoadConfig() Config {
	cfg := Config{
		CredentialsBase64:   os.Getenv(EnvCredentials),
		SheetName:           GetEnvWithDefault(EnvSheetName, DefaultSheetName),
		LookupSpreadsheetID: os.Getenv(EnvLookupSheet),
		PrimarySpreadsheetIDs: map[string]string{
			EnvPrimarySheet1: os.Getenv(EnvPrimarySheet1),
			EnvPrimarySheet2: os.Getenv(EnvPrimarySheet2),
			EnvPrimarySheet3: os.Getenv(EnvPrimarySheet3),
		},
		Port:           GetEnvWithDefault(EnvPort, DefaultPort),
		AllowedOrigins: parseOrigins(os.Getenv(EnvAllowedOrigins)),
		SheetsTimeout:  DefaultSheetsTimeout,
	}

	if raw := os.Getenv(EnvSheetsTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			log.Warn().
				Str("value", raw).
				Dur("default", DefaultSheetsTimeout).
				Msgf("Invalid %s, using default", EnvSheetsTimeout)
		} else {
			cfg.SheetsTimeout = timeout
		}
	}

	for _, key := range cfg.Missing() {
		log.Warn().Str("setting", key).Msg("Required environment variable is not set; requests depending on it will fail")
	}

	log.Debug().
		Str("sheet_name", cfg.SheetName).
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("sheets_timeout", cfg.SheetsTimeout).
		Msg("Loaded configuration")

	return cfg
}

// Missing lists the required settings that are empty, in a stable order.
func (c Config) Missing() []string {
	var missing []string
	if c.CredentialsBase64 == "" {
		missing = append(missing, EnvCredentials)
	}
	if c.LookupSpreadsheetID == "" {
		missing = append(missing, EnvLookupSheet)
	}
	for _, key := range []string{EnvPrimarySheet1, EnvPrimarySheet2, EnvPrimarySheet3} {
		if c.PrimarySpreadsheetIDs[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func parseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return DefaultAllowedOrigins
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return DefaultAllowedOrigins
	}
	return origins
}
