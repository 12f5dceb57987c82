package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/extensions"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vangoext.json"

	// EnvPrefix prefixes environment variables that override the file,
	// e.g. VANGOEXT_SERVER_PORT.
	EnvPrefix = "VANGOEXT"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultBridgeTimeout bounds each bridge call.
	DefaultBridgeTimeout = 5 * time.Second

	// DefaultComponentsDir holds user markup components.
	DefaultComponentsDir = "components"

	// DefaultNamespace is the namespace user markup components load into.
	DefaultNamespace = "Local"

	// DefaultCatalogKey is the object key the catalog is published under.
	DefaultCatalogKey = "vangoext/catalog.json"
)

// Config represents the complete vangoext.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" mapstructure:"name"`

	// Server contains preview server configuration.
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Bridge contains backend bridge configuration.
	Bridge BridgeConfig `json:"bridge" mapstructure:"bridge"`

	// Theme maps styling variable ids to values, e.g. "color-accent".
	// Keys are case-insensitive and stored lower-case.
	Theme map[string]string `json:"theme,omitempty" mapstructure:"theme"`

	// Components contains user markup component configuration.
	Components ComponentsConfig `json:"components" mapstructure:"components"`

	// Publish contains catalog publishing configuration.
	Publish PublishConfig `json:"publish" mapstructure:"publish"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" mapstructure:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host" mapstructure:"host"`

	// Port is the port to listen on.
	Port int `json:"port" mapstructure:"port"`

	// Watch reloads user components when their files change.
	Watch bool `json:"watch,omitempty" mapstructure:"watch"`

	// AllowedOrigins restricts bridge WebSocket upgrades. Empty allows all.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" mapstructure:"allowedorigins"`
}

// BridgeConfig contains backend bridge settings.
type BridgeConfig struct {
	// URL is a remote bridge server (ws:// or wss://). Empty uses the
	// in-process backend.
	URL string `json:"url,omitempty" mapstructure:"url"`

	// Timeout bounds each bridge call, e.g. "5s".
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Disabled runs without any backend.
	Disabled bool `json:"disabled,omitempty" mapstructure:"disabled"`
}

// ComponentsConfig contains user markup component settings.
type ComponentsConfig struct {
	// Dir is the directory scanned for *.xmlui files.
	Dir string `json:"dir" mapstructure:"dir"`

	// Namespace is the namespace the components are loaded into.
	Namespace string `json:"namespace" mapstructure:"namespace"`
}

// PublishConfig contains catalog publishing settings.
type PublishConfig struct {
	// Bucket is the S3 bucket the catalog is uploaded to.
	Bucket string `json:"bucket,omitempty" mapstructure:"bucket"`

	// Key is the object key of the catalog.
	Key string `json:"key" mapstructure:"key"`

	// Region overrides the AWS region from the environment.
	Region string `json:"region,omitempty" mapstructure:"region"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" mapstructure:"level"`

	// Format is text or json.
	Format string `json:"format" mapstructure:"format"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Bridge: BridgeConfig{
			Timeout: DefaultBridgeTimeout,
		},
		Theme: map[string]string{},
		Components: ComponentsConfig{
			Dir:       DefaultComponentsDir,
			Namespace: DefaultNamespace,
		},
		Publish: PublishConfig{
			Key: DefaultCatalogKey,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory. A directory
// without vangoext.json yields the defaults, still subject to environment
// overrides.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return load("")
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("E120").
			WithDetail("cannot read " + path).
			WithSuggestion("Check the --config path").
			Wrap(err)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New("E120").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with the defaults so every key
// can be overridden from the environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := New()
	v.SetDefault("name", d.Name)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.watch", d.Server.Watch)
	v.SetDefault("server.allowedorigins", d.Server.AllowedOrigins)
	v.SetDefault("bridge.url", d.Bridge.URL)
	v.SetDefault("bridge.timeout", d.Bridge.Timeout)
	v.SetDefault("bridge.disabled", d.Bridge.Disabled)
	v.SetDefault("components.dir", d.Components.Dir)
	v.SetDefault("components.namespace", d.Components.Namespace)
	v.SetDefault("publish.bucket", d.Publish.Bucket)
	v.SetDefault("publish.key", d.Publish.Key)
	v.SetDefault("publish.region", d.Publish.Region)
	v.SetDefault("publish.endpoint", d.Publish.Endpoint)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	return v
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Bridge.Timeout <= 0 {
		c.Bridge.Timeout = DefaultBridgeTimeout
	}
	if c.Theme == nil {
		c.Theme = map[string]string{}
	}
	if c.Components.Dir == "" {
		c.Components.Dir = DefaultComponentsDir
	}
	if c.Components.Namespace == "" {
		c.Components.Namespace = DefaultNamespace
	}
	if c.Publish.Key == "" {
		c.Publish.Key = DefaultCatalogKey
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetailf("server.port is %d", c.Server.Port)
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("E120").
			WithDetailf("log.level %q", c.Log.Level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E120").
			WithDetailf("log.format %q", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if ns := c.Components.Namespace; !component.IsIdentifier(ns) || ns == extensions.Namespace {
		return errors.New("E120").
			WithDetailf("components.namespace %q", ns).
			WithSuggestion("Use an identifier other than " + extensions.Namespace)
	}
	if u := c.Bridge.URL; u != "" && !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
		return errors.New("E120").
			WithDetailf("bridge.url %q", u).
			WithSuggestion("Use a ws:// or wss:// URL")
	}
	return nil
}

// ValidatePublish checks the settings needed to publish the catalog.
func (c *Config) ValidatePublish() error {
	if c.Publish.Bucket == "" {
		return errors.New("E121").
			WithDetail("publish.bucket is not set").
			WithSuggestion("Set publish.bucket in " + ConfigFileName + " or " + EnvPrefix + "_PUBLISH_BUCKET")
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// Addr returns the preview server listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the preview server base URL.
func (c *Config) URL() string {
	return "http://" + c.Addr()
}

// ComponentsPath returns the absolute path to the components directory.
func (c *Config) ComponentsPath() string {
	if filepath.IsAbs(c.Components.Dir) {
		return c.Components.Dir
	}
	return filepath.Join(c.Dir(), c.Components.Dir)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger returns a logger writing to w at the configured level and
// format.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levels[strings.ToLower(c.Level)]}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
