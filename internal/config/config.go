package config

import (
	"fmt"
	"strings"
	"time"

	"blog-client/internal/api"
	"blog-client/internal/relay"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BLOG"

const (
	KeyAPIURL  = "api-url"
	KeyAPIKey  = "api-key"
	KeyTimeout = "timeout"
	KeyRedis   = "redis"
	KeyChannel = "channel"
	KeyVerbose = "verbose"
)

type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
	// RedisAddr enables the relay when non-empty.
	RedisAddr string
	Channel   string
	Verbose   bool
}

// New returns a viper instance with defaults and BLOG_* environment lookup,
// so BLOG_API_URL overrides --api-url's default.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, api.DefaultBaseURL)
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyTimeout, 15*time.Second)
	v.SetDefault(KeyRedis, "")
	v.SetDefault(KeyChannel, relay.DefaultChannel)
	v.SetDefault(KeyVerbose, false)
	return v
}

// RegisterFlags adds the persistent flags and binds them to v.
func RegisterFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	flags.String(KeyAPIURL, api.DefaultBaseURL, "Base URL of the posts API")
	flags.String(KeyAPIKey, "", "API key sent as ?key=")
	flags.Duration(KeyTimeout, 15*time.Second, "Per-request timeout")
	flags.String(KeyRedis, "", "Redis address for the action relay (empty disables it)")
	flags.String(KeyChannel, relay.DefaultChannel, "Redis channel actions are relayed on")
	flags.BoolP(KeyVerbose, "v", false, "Verbose development logging")

	return v.BindPFlags(flags)
}

// Load reads the effective configuration.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIURL:    strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		APIKey:    v.GetString(KeyAPIKey),
		Timeout:   v.GetDuration(KeyTimeout),
		RedisAddr: v.GetString(KeyRedis),
		Channel:   v.GetString(KeyChannel),
		Verbose:   v.GetBool(KeyVerbose),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyAPIURL)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyTimeout, cfg.Timeout)
	}
	if cfg.Channel == "" {
		cfg.Channel = relay.DefaultChannel
	}
	return cfg, nil
}
