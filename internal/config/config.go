package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address for the plain HTTP server.
	Addr string
	// TLSAddr is the listen address used when TLS material is present.
	TLSAddr string
	// LLMBaseURL is the local inference server endpoint.
	LLMBaseURL string
	// LogsDir is where finished transcripts are archived.
	LogsDir        string
	Debug          bool
	AllowedOrigins []string
	// TLS holds HTTPS configuration. If nil, the server runs in plain HTTP
	// mode.
	TLS *TLSConfig
}

// TLSConfig holds file paths for serving HTTPS directly from the server.
type TLSConfig struct {
	// CertFile is a PEM-encoded certificate chain.
	CertFile string
	// KeyFile is a PEM-encoded private key.
	KeyFile string
}

// Overrides optionally overrides values from environment variables.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	Addr       *string
	LLMBaseURL *string
	LogsDir    *string
	Debug      *bool
	TLS        *TLSConfig
}

// Load loads server configuration from the environment (with a best-effort
// .env file) and applies any explicit overrides. TLS is enabled only when
// both certificate files exist on disk.
func Load(overrides Overrides) (*Config, error) {
	_ = godotenv.Load()

	port := 5000
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		port = p
	}

	addr := fmt.Sprintf(":%d", port)
	if overrides.Addr != nil {
		addr = *overrides.Addr
	}

	llmURL := os.Getenv("LLM_URL")
	if llmURL == "" {
		llmURL = "http://127.0.0.1:8080"
	}
	if overrides.LLMBaseURL != nil {
		llmURL = *overrides.LLMBaseURL
	}

	logsDir := os.Getenv("LOGS_DIR")
	if logsDir == "" {
		logsDir = "./logs"
	}
	if overrides.LogsDir != nil {
		logsDir = *overrides.LogsDir
	}

	debug := false
	if debugStr := os.Getenv("DEBUG"); debugStr == "true" || debugStr == "1" {
		debug = true
	}
	if overrides.Debug != nil {
		debug = *overrides.Debug
	}

	tls := overrides.TLS
	if tls == nil {
		certFile := envOr("TLS_CERT", "cert.pem")
		keyFile := envOr("TLS_KEY", "key.pem")
		if fileExists(certFile) && fileExists(keyFile) {
			tls = &TLSConfig{CertFile: certFile, KeyFile: keyFile}
		}
	}

	return &Config{
		Addr:           addr,
		TLSAddr:        ":443",
		LLMBaseURL:     llmURL,
		LogsDir:        logsDir,
		Debug:          debug,
		AllowedOrigins: []string{"*"}, // Single-operator demo, allow all origins
		TLS:            tls,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
