/* config.go
 * Contains the runtime configuration. Values are layered: defaults, then an optional config file, then COMPANION_*
 * environment variables (a .env file is loaded first if present), then command line flags
 * Authors: Zachary Bower
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "COMPANION"

// Run modes
const (
	ModeBot = "bot"
	ModeWeb = "web"
	ModeAll = "all"
)

type Config struct {
	Level      string `mapstructure:"level"`
	Mode       string `mapstructure:"mode"`
	ConfigFile string `mapstructure:"config"`

	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		Database int    `mapstructure:"database"`
	} `mapstructure:"redis"`

	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`

	Discord struct {
		Token   string `mapstructure:"token"`
		Webhook string `mapstructure:"webhook"`
	} `mapstructure:"discord"`

	HTTP struct {
		Bind      string  `mapstructure:"bind"`
		RateLimit float64 `mapstructure:"rate_limit"`
		Burst     int     `mapstructure:"burst"`
	} `mapstructure:"http"`

	Tasks struct {
		Interval    time.Duration `mapstructure:"interval"`
		Timeout     time.Duration `mapstructure:"timeout"`
		MaxAttempts int           `mapstructure:"max_attempts"`
	} `mapstructure:"tasks"`
}

var defaults = map[string]interface{}{
	"level":              "info",
	"mode":               ModeAll,
	"config":             "",
	"mongo.uri":          "mongodb://localhost:27017",
	"mongo.database":     "companion",
	"redis.address":      "",
	"redis.password":     "",
	"redis.database":     0,
	"cache.ttl":          5 * time.Minute,
	"discord.token":      "",
	"discord.webhook":    "",
	"http.bind":          ":8080",
	"http.rate_limit":    20.0,
	"http.burst":         40,
	"tasks.interval":     10 * time.Second,
	"tasks.timeout":      30 * time.Second,
	"tasks.max_attempts": 3,
}

// Load builds the configuration from args (without the program name)
// Preconditions: Receives the command line arguments
// Postconditions: Returns the validated Config, or an error if flags, the config file or a value are invalid
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	// AutomaticEnv only resolves keys viper already knows about, every key needs a default
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := pflag.NewFlagSet("companion", pflag.ContinueOnError)
	flags.String("config", "", "Config file location")
	flags.String("level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("mode", ModeAll, "What to run: bot, web or all")
	flags.String("http.bind", ":8080", "Address the HTTP server listens on")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	// only flags set on the command line override env and file values
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			v.Set(f.Name, f.Value.String())
		}
	})

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		logrus.WithField("file", file).Debug("loaded config file")
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values that cannot be defaulted away
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBot, ModeWeb, ModeAll:
	default:
		return fmt.Errorf("invalid mode '%s', expected bot, web or all", c.Mode)
	}
	if _, err := logrus.ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return fmt.Errorf("mongo uri and database are required")
	}
	if c.Mode != ModeWeb && c.Discord.Token == "" {
		return fmt.Errorf("discord token is required in %s mode", c.Mode)
	}
	if c.Tasks.Interval <= 0 {
		return fmt.Errorf("tasks interval must be positive")
	}
	return nil
}

// InitLogging applies the configured log level to the standard logrus logger
func (c *Config) InitLogging() {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
