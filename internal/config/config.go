// Package config loads plexus settings from defaults, an optional TOML file
// and PLEXUS_* environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
)

const (
	EnvMailboxCapacity = "PLEXUS_MAILBOX_CAPACITY"
	EnvShutdownTimeout = "PLEXUS_SHUTDOWN_TIMEOUT"
	EnvLogLevel        = "PLEXUS_LOG_LEVEL"
	EnvLogFormat       = "PLEXUS_LOG_FORMAT"
	EnvDescriptors     = "PLEXUS_DESCRIPTORS"
)

// Config describes the TOML configuration.
type Config struct {
	// Descriptors is the default descriptor file.
	Descriptors string    `toml:"descriptors"`
	Graph       graphConf `toml:"graph"`
	Logging     logConf   `toml:"logging"`
}

type graphConf struct {
	MailboxCapacity int           `toml:"mailbox-capacity"`
	ShutdownTimeout time.Duration `toml:"shutdown-timeout"`
}

type logConf struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		Graph: graphConf{
			MailboxCapacity: 10,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: logConf{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads filename on top of the defaults, when it is not empty, and then
// applies environment overrides.
func Load(filename string) (Config, error) {
	conf := Default()
	if filename != "" {
		md, err := toml.DecodeFile(filename, &conf)
		if err != nil {
			return conf, fmt.Errorf("read config %s: %w", filename, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return conf, fmt.Errorf("read config %s: unknown keys %s", filename, strings.Join(keys, ", "))
		}
	}

	if err := conf.applyEnv(); err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}

func (c *Config) applyEnv() error {
	var result *multierror.Error

	if v, ok := os.LookupEnv(EnvMailboxCapacity); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", EnvMailboxCapacity, err))
		} else {
			c.Graph.MailboxCapacity = n
		}
	}
	if v, ok := os.LookupEnv(EnvShutdownTimeout); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", EnvShutdownTimeout, err))
		} else {
			c.Graph.ShutdownTimeout = d
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Logging.Format = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvDescriptors); ok {
		c.Descriptors = strings.TrimSpace(v)
	}
	return result.ErrorOrNil()
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Graph.MailboxCapacity < 1 {
		result = multierror.Append(result, fmt.Errorf("graph.mailbox-capacity must be at least 1, got %d", c.Graph.MailboxCapacity))
	}
	if c.Graph.ShutdownTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("graph.shutdown-timeout must be positive, got %s", c.Graph.ShutdownTimeout))
	}
	if _, err := c.Level(); err != nil {
		result = multierror.Append(result, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	return result.ErrorOrNil()
}

// Level parses the configured log level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}
