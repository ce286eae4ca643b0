package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/spf13/pflag"
)

const EnvPrefix = "NOTEFOLIO_"

const DefaultServerURL = "http://127.0.0.1:5000"

// Config holds the application configuration
type Config struct {
	Server ServerConfig `koanf:"server"`
	Data   DataConfig   `koanf:"data"`
	Log    LogConfig    `koanf:"log"`
}

type ServerConfig struct {
	URL string `koanf:"url"`
	// Timeout of 0 means requests never time out
	Timeout time.Duration `koanf:"timeout"`
}

type DataConfig struct {
	Dir string `koanf:"dir"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"server-url": "server.url",
	"timeout":    "server.timeout",
	"data-dir":   "data.dir",
	"log-level":  "log.level",
	"log-file":   "log.file",
}

func DefaultConfig() *Config {
	dataDir, err := utils.GetAppDataDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			homeDir = "."
		}
		dataDir = filepath.Join(homeDir, ".notefolio")
	}

	return &Config{
		Server: ServerConfig{URL: DefaultServerURL},
		Data:   DataConfig{Dir: dataDir},
		Log:    LogConfig{Level: "info"},
	}
}

// Load merges defaults, the config file, NOTEFOLIO_* environment variables
// and changed CLI flags, in that order of precedence.
func Load(flagSet *pflag.FlagSet, configFile string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if configFile != "" {
		parser, err := parserForFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unsupported config file format: %w", err)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Load from environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	// Load from CLI args (highest precedence)
	if flagSet != nil {
		if err := k.Load(posflag.ProviderWithFlag(flagSet, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flagSet, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish fills derived defaults and validates the result
func (c *Config) finish() error {
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server.url %q", c.Server.URL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}

	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.Data.Dir, "notefolio.log")
	}
	return nil
}

// EnsureDirs creates the data directory
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.Data.Dir, 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", c.Data.Dir, err)
	}
	return nil
}

// AddFlags registers the flags Load understands
func AddFlags(fs *pflag.FlagSet) {
	fs.String("server-url", DefaultServerURL, "Base URL of the notes backend")
	fs.Duration("timeout", 0, "HTTP timeout (0 disables)")
	fs.String("data-dir", "", "Directory for preferences and logs")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-file", "", "Log file path (default <data-dir>/notefolio.log)")
}

// envKey turns NOTEFOLIO_SERVER_URL (or SERVER_URL in a .env file) into server.url
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.ParserEnv("", ".", envKey), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}
