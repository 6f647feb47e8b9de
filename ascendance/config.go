package ascendance

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	DB        DBConfig        `toml:"db"`
	Web       WebConfig       `toml:"web"`
	Storage   StorageConfig   `toml:"storage"`
	Spaces    SpacesConfig    `toml:"spaces"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

// WebConfig configures the HTTP listener. ProxyHeader is only honoured for
// requests coming from one of TrustedProxies.
type WebConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowOrigins   []string `toml:"allow_origins"`
	BodyLimit      int      `toml:"body_limit"`
	ProxyHeader    string   `toml:"proxy_header"`
	TrustedProxies []string `toml:"trusted_proxies"`
}

// StorageConfig describes where uploaded illustrations and icons live.
// Driver is either "local" (files under Root) or "spaces" (S3 compatible bucket).
type StorageConfig struct {
	Driver             string   `toml:"driver"`
	Root               string   `toml:"root"`
	IllustrationsDir   string   `toml:"illustrations_dir"`
	IconsDir           string   `toml:"icons_dir"`
	MaxUploadSize      int64    `toml:"max_upload_size"`
	AllowedTypes       []string `toml:"allowed_types"`
	AllowedExtensions  []string `toml:"allowed_extensions"`
	MaxParallelUploads int64    `toml:"max_parallel_uploads"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Endpoint string `toml:"endpoint"`
	Root     string `toml:"root"`
}

type RateLimitConfig struct {
	Requests int      `toml:"requests"`
	Window   Duration `toml:"window"`
	MaxKeys  int      `toml:"max_keys"`
}

// Duration decodes TOML strings such as "30s" or "1m"
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

const (
	StorageDriverLocal  = "local"
	StorageDriverSpaces = "spaces"
)

// Validate fills in defaults and rejects unusable settings
func (c *Config) Validate() error {
	if c.Web.Host == "" {
		c.Web.Host = "0.0.0.0"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8000
	}
	if len(c.Web.AllowOrigins) == 0 {
		c.Web.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	if len(c.Web.TrustedProxies) > 0 && c.Web.ProxyHeader == "" {
		c.Web.ProxyHeader = "X-Forwarded-For"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.PoolSize == 0 {
		c.DB.PoolSize = 10
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverLocal
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "uploads"
	}
	if c.Storage.IllustrationsDir == "" {
		c.Storage.IllustrationsDir = "illustrations"
	}
	if c.Storage.IconsDir == "" {
		c.Storage.IconsDir = "icons"
	}
	if c.Storage.MaxUploadSize == 0 {
		c.Storage.MaxUploadSize = 10 * 1024 * 1024
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
	}
	if len(c.Storage.AllowedExtensions) == 0 {
		c.Storage.AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	}
	if c.Storage.MaxParallelUploads == 0 {
		c.Storage.MaxParallelUploads = 4
	}
	if c.Web.BodyLimit == 0 {
		// leave room for multipart framing around the largest accepted file
		c.Web.BodyLimit = int(c.Storage.MaxUploadSize) + 1024*1024
	}

	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = config.DefaultRateLimitRequests
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = Duration(config.DefaultRateLimitWindow)
	}
	if c.RateLimit.MaxKeys == 0 {
		c.RateLimit.MaxKeys = 10000
	}

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverSpaces:
		if c.Spaces.Bucket == "" || c.Spaces.Region == "" {
			return fmt.Errorf("storage driver %q requires [spaces] bucket and region", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.MaxUploadSize < 0 {
		return fmt.Errorf("storage.max_upload_size must be positive")
	}
	return nil
}
