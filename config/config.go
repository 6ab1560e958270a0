// Package config loads the YAML configuration of the API server.
package config

import (
	"io/ioutil"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/illuscio-dev/apiwire-go/encoding"
	"github.com/illuscio-dev/apiwire-go/mimetype"
)

// Environment variables overriding file values.
const (
	EnvHost = "APIWIRE_HOST"
	EnvPort = "APIWIRE_PORT"
)

var versionIDRegex = regexp.MustCompile(`^v\d+(\.\d+)?$`)

// Config is the static configuration of the server. It is read once at startup.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Logging    LoggingConfig   `yaml:"logging"`
	AdminRoles []string        `yaml:"admin_roles"`
	MediaType  MediaTypeConfig `yaml:"media_type"`
	XML        XMLConfig       `yaml:"xml"`
	Versions   []VersionConfig `yaml:"versions"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Maximum number of connections served at once.
	Threads           int           `yaml:"threads"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the host:port the server listens on.
func (server ServerConfig) Addr() string {
	return net.JoinHostPort(server.Host, strconv.Itoa(server.Port))
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MediaTypeConfig holds the vendor of the versioned media types, as in
// application/<vendor>+json, and the XML namespace of rendered documents.
type MediaTypeConfig struct {
	Vendor    string `yaml:"vendor"`
	Namespace string `yaml:"xmlns"`
}

// XMLConfig holds the XML shape tables. Plurals maps collection tags to their item
// tags, empty to derive the item tag. Attributes maps element tags to the fields
// rendered as attributes.
type XMLConfig struct {
	Plurals    map[string]string   `yaml:"plurals"`
	Attributes map[string][]string `yaml:"attributes"`
}

// VersionConfig describes one mounted API version.
type VersionConfig struct {
	ID      string `yaml:"id"`
	Status  string `yaml:"status"`
	Updated string `yaml:"updated"`
}

// Prefix returns the URL prefix of the version, e.g. "/v1.0".
func (version VersionConfig) Prefix() string {
	return "/" + version.ID
}

// XMLSchema builds the read-only schema handed to the XML encoder.
func (cfg *Config) XMLSchema() *encoding.XMLSchema {
	return encoding.NewXMLSchema(cfg.MediaType.Namespace, cfg.XML.Plurals, cfg.XML.Attributes)
}

// IsAdminRole reports whether role is one of the configured admin roles. The
// comparison ignores case and surrounding whitespace.
func (cfg *Config) IsAdminRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	for _, adminRole := range cfg.AdminRoles {
		if strings.ToLower(adminRole) == role {
			return true
		}
	}
	return false
}

// Validate checks the configuration for values the server cannot run with.
func (cfg *Config) Validate() error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return xerrors.Errorf("server.port must be within 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.Threads < 1 {
		return xerrors.Errorf("server.threads must be positive, got %d", cfg.Server.Threads)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return xerrors.New("server.shutdown_timeout must not be negative")
	}
	if cfg.MediaType.Vendor == "" {
		return xerrors.New("media_type.vendor must be set")
	}
	if strings.ContainsAny(cfg.MediaType.Vendor, "/+; ") {
		return xerrors.Errorf("media_type.vendor %q contains reserved characters", cfg.MediaType.Vendor)
	}
	if len(cfg.Versions) == 0 {
		return xerrors.New("at least one version must be configured")
	}

	seen := make(map[string]bool, len(cfg.Versions))
	for _, version := range cfg.Versions {
		if !versionIDRegex.MatchString(version.ID) {
			return xerrors.Errorf("version id %q must look like v1 or v1.0", version.ID)
		}
		if seen[version.ID] {
			return xerrors.Errorf("version id %q configured twice", version.ID)
		}
		seen[version.ID] = true
	}

	return nil
}

// Default returns the configuration used when no file is passed.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8779,
			Threads:           1000,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		AdminRoles: []string{"admin"},
		MediaType: MediaTypeConfig{
			Vendor:    mimetype.DefaultVendor,
			Namespace: encoding.DefaultNamespace,
		},
		XML: XMLConfig{
			Plurals:    encoding.DefaultPlurals(),
			Attributes: encoding.DefaultAttributes(),
		},
		Versions: []VersionConfig{
			{ID: "v1.0", Status: "CURRENT", Updated: "2012-08-01T00:00:00Z"},
		},
	}
}

// Load reads the YAML file at path over the defaults, applies environment overrides
// and validates the result. An empty path loads the defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("read config file: %w", err)
		}
		if err := Parse(raw, cfg); err != nil {
			return nil, xerrors.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, xerrors.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes raw YAML into cfg. Unknown keys are an error. Mappings in the file are
// merged into the values already in cfg, lists replace them.
func Parse(raw []byte, cfg *Config) error {
	return yaml.UnmarshalStrict(raw, cfg)
}

func applyEnv(cfg *Config) error {
	if host, ok := os.LookupEnv(EnvHost); ok {
		cfg.Server.Host = host
	}
	if portValue, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(portValue)
		if err != nil {
			return xerrors.Errorf("%s is not an integer: %q", EnvPort, portValue)
		}
		cfg.Server.Port = port
	}
	return nil
}
