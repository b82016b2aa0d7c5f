package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = "podctl"
	envPrefix         = "PODCTL"

	DefaultEndpoint       = "https://api.runpod.io/graphql"
	DefaultMaxParallel    = 50
	fallbackMaxParallel   = 10
	DefaultKillTimeout    = 300 * time.Second
	DefaultPollInterval   = 10 * time.Second
	DefaultCallDelay      = time.Second
	DefaultSSHTimeout     = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Config is the full podctl configuration, populated once at startup.
type Config struct {
	Runpod  RunpodConfig  `mapstructure:"runpod"`
	Kill    KillConfig    `mapstructure:"kill"`
	Keys    KeysConfig    `mapstructure:"keys"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type RunpodConfig struct {
	APIKey         SecretValue   `mapstructure:"api_key"`
	Endpoint       string        `mapstructure:"endpoint"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// KillConfig holds the pacing policy of the stop/delete lifecycle
type KillConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	CallDelay    time.Duration `mapstructure:"call_delay"` // delay between consecutive stop or delete calls
}

type KeysConfig struct {
	Dir         string            `mapstructure:"dir"`
	MaxParallel int               `mapstructure:"-"`
	SSHTimeout  time.Duration     `mapstructure:"ssh_timeout"`
	RCFiles     []string          `mapstructure:"rc_files"`
	Sources     []KeySourceConfig `mapstructure:"sources"`
}

// KeySourceConfig binds a CSV file of hostname,key rows to an environment variable name
type KeySourceConfig struct {
	File   string `mapstructure:"file"`
	EnvVar string `mapstructure:"env_var"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runpod.endpoint", DefaultEndpoint)
	v.SetDefault("runpod.request_timeout", DefaultRequestTimeout)
	v.SetDefault("kill.timeout", DefaultKillTimeout)
	v.SetDefault("kill.poll_interval", DefaultPollInterval)
	v.SetDefault("kill.call_delay", DefaultCallDelay)
	v.SetDefault("keys.dir", "keys")
	v.SetDefault("keys.ssh_timeout", DefaultSSHTimeout)
	v.SetDefault("keys.rc_files", []string{"~/.bashrc", "~/.zshrc"})
	v.SetDefault("keys.sources", []map[string]any{
		{"file": "openai_api_keys.csv", "env_var": "OPENAI_API_KEY"},
		{"file": "anthropic_api_keys.csv", "env_var": "ANTHROPIC_API_KEY"},
		{"file": "openrouter_api_keys.csv", "env_var": "OPENROUTER_API_KEY"},
	})
	v.SetDefault("logging.level", "info")
}

// Load reads the configuration. configFile may be empty, in which case
// podctl.toml is searched in $HOME/.config/podctl and the working directory;
// a missing file is not an error.
func Load(configFile string) (Config, error) {
	var cfg Config
	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}

	v := viper.New()
	setDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "podctl"))
		}
		v.AddConfigPath(".")
		v.SetConfigName(defaultConfigName)
	}
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("runpod.api_key", envPrefix+"_RUNPOD_API_KEY", "RUNPOD_API_KEY")
	_ = v.BindEnv("keys.max_parallel", envPrefix+"_KEYS_MAX_PARALLEL", "API_KEYS_MAX_PARALLEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.Keys.MaxParallel = parseMaxParallel(v.GetString("keys.max_parallel"))
	return cfg, nil
}

// parseMaxParallel mirrors the historical API_KEYS_MAX_PARALLEL handling:
// unset means the default, an unparsable value means a conservative fallback.
func parseMaxParallel(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultMaxParallel
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallbackMaxParallel
	}
	return n
}

// LoadDotEnv exports the variables of a dotenv file into the process
// environment without overriding variables that are already set.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}
