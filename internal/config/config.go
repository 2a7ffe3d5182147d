// Package config resolves postbrowser settings from defaults, an optional
// config file and POSTBROWSER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "postbrowser"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration keys, their defaults and meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "site.title", Default: "Blog", Comment: "Title shown above the post list"},
		{Key: "source.url", Default: "http://localhost:8080/posts", Comment: "Where posts.json and the posts live: http(s)://, github://owner/repo/dir?ref=; file:// is refused"},
		{Key: "source.timeout", Default: time.Duration(0), Comment: "Per-request timeout for fetching posts; 0 waits forever"},
		{Key: "browser.ordered_list", Default: true, Comment: "List posts in manifest order once all titles resolve, instead of as they arrive. With source.timeout at 0 a post that never answers keeps the list empty; set a timeout or turn this off"},
		{Key: "render.link_base", Default: "/posts", Comment: "Prefix for relative links and images inside posts; empty leaves them untouched"},
		{Key: "serve.addr", Default: ":8080", Comment: "HTTP listen address"},
		{Key: "serve.posts_dir", Default: "./posts", Comment: "Directory served at /posts; empty disables the file server"},
		{Key: "serve.shutdown_timeout", Default: 5 * time.Second, Comment: "Grace period for in-flight requests on shutdown"},
		{Key: "log.level", Default: "info", Comment: "zerolog level: trace, debug, info, warn, error"},
		{Key: "log.pretty", Default: false, Comment: "Human-readable console logs instead of JSON"},
	}
}

// Config is the resolved configuration.
type Config struct {
	SiteTitle       string
	SourceURL       string
	SourceTimeout   time.Duration
	OrderedList     bool
	LinkBase        string
	Addr            string
	PostsDir        string
	ShutdownTimeout time.Duration
	LogLevel        string
	LogPretty       bool
}

// Load resolves configuration with precedence: defaults < file < env.
// cfgPath may be empty, in which case ./postbrowser.{yaml,toml,json} is used if present.
func Load(v *viper.Viper, cfgPath string) (*Config, error) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
		}
	} else {
		v.SetConfigName("postbrowser")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		SiteTitle:       v.GetString("site.title"),
		SourceURL:       strings.TrimSpace(v.GetString("source.url")),
		SourceTimeout:   v.GetDuration("source.timeout"),
		OrderedList:     v.GetBool("browser.ordered_list"),
		LinkBase:        v.GetString("render.link_base"),
		Addr:            v.GetString("serve.addr"),
		PostsDir:        v.GetString("serve.posts_dir"),
		ShutdownTimeout: v.GetDuration("serve.shutdown_timeout"),
		LogLevel:        v.GetString("log.level"),
		LogPretty:       v.GetBool("log.pretty"),
	}

	if cfg.SourceTimeout < 0 {
		return nil, fmt.Errorf("source.timeout must not be negative, got %s", cfg.SourceTimeout)
	}

	return cfg, nil
}

// SetupLogging configures the global zerolog logger.
func (c *Config) SetupLogging() error {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	return nil
}
