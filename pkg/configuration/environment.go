package configuration

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tasdonena/admin-console/pkg/logging"
)

const (
	DefaultAPIURL = "http://localhost:8000"
	appDir        = "tasdonena"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads the env files that exist and reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type APIOptions struct {
	URL             string        `env:"TASDONENA_API_URL"`
	LaravelAPI      string        `env:"TASDONENA_LARAVEL_API"`
	Timeout         time.Duration `env:"TASDONENA_HTTP_TIMEOUT" envDefault:"30s"`
	RequestIDHeader string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
}

// BaseURL resolves the API origin: explicit URL, then the Laravel API URL
// with its trailing /api removed, then the local default.
func (a *APIOptions) BaseURL() string {
	if v := strings.TrimSpace(a.URL); v != "" {
		return v
	}
	if v := strings.TrimSpace(a.LaravelAPI); v != "" {
		v = strings.TrimSuffix(v, "/")
		return strings.TrimSuffix(v, "/api")
	}
	return DefaultAPIURL
}

func (a *APIOptions) Validate() error {
	u, err := url.Parse(a.BaseURL())
	if err != nil {
		return fmt.Errorf("invalid API url %q: %w", a.BaseURL(), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API url %q: scheme must be http or https", a.BaseURL())
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API url %q: missing host", a.BaseURL())
	}
	if a.Timeout < 0 {
		return fmt.Errorf("http timeout must be non-negative, got %s", a.Timeout)
	}
	return nil
}

type SessionOptions struct {
	TokenFile string `env:"TASDONENA_TOKEN_FILE"`
}

// TokenPath returns the configured token file or the per-user default.
func (s *SessionOptions) TokenPath() (string, error) {
	if s.TokenFile != "" {
		return s.TokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, "token"), nil
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ExporterURL string `env:"OTEL_EXPORTER_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"tasdonena-admin"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/metrics"`
}

type Configuration struct {
	API           APIOptions
	Session       SessionOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions

	PageSize int    `env:"PAGE_SIZE" envDefault:"10"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath  string `env:"LOG_PATH"`

	logFile *os.File
	logger  *logrus.Logger
}

var allowedPageSizes = []int{10, 25, 50}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// Load reads the env files that exist, then the process environment, and
// opens the logger. Call Unload when done.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if n == 0 && c.LogLevel == "debug" {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

func (c *Configuration) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api configuration error: %w", err)
	}
	valid := false
	for _, size := range allowedPageSizes {
		if c.PageSize == size {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid PAGE_SIZE=%d (expected 10|25|50)", c.PageSize)
	}
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
