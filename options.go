package main

import (
	"context"
	"fmt"
	"time"

	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/pkg/logger"
	"github.com/arenainfra/podctl/render"
	"github.com/arenainfra/podctl/service"
	"github.com/spf13/pflag"
)

// GlobalOptions contains the persistent command line options
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

func (o *GlobalOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", "", "Path to a podctl.toml configuration file (defaults to $HOME/.config/podctl/podctl.toml or ./podctl.toml)")
	fs.StringVar(&o.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides logging.level)")
}

// KillCommandOptions contains the options of the kill command
type KillCommandOptions struct {
	Include      []string
	Exclude      []string
	Timeout      int
	TimeoutSet   bool // --timeout was given explicitly, so 0 means no wait
	PollInterval int
	CallDelay    time.Duration
	MetricsFile  string
}

func (o *KillCommandOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.Include, "include", nil, "Only kill pods with these names (space or comma separated, or repeat the flag)")
	fs.StringSliceVar(&o.Exclude, "exclude", nil, "Never kill pods with these names (space or comma separated); wins over --include")
	fs.IntVar(&o.Timeout, "timeout", 0, "Seconds to wait for pods to stop; 0 deletes only pods already EXITED (default from kill.timeout, 300)")
	fs.IntVar(&o.PollInterval, "poll-interval", 0, "Seconds between inventory polls while waiting (default from kill.poll_interval, 10)")
	fs.DurationVar(&o.CallDelay, "call-delay", 0, "Delay between consecutive stop or delete calls (default from kill.call_delay, 1s)")
	fs.StringVar(&o.MetricsFile, "metrics-file", "", "Write run counters to this file in the node_exporter textfile format")
}

func (o *KillCommandOptions) Validate() error {
	if o.Timeout < 0 {
		return fmt.Errorf("--timeout must not be negative, got %d", o.Timeout)
	}
	if o.PollInterval < 0 {
		return fmt.Errorf("--poll-interval must not be negative, got %d", o.PollInterval)
	}
	if o.CallDelay < 0 {
		return fmt.Errorf("--call-delay must not be negative, got %s", o.CallDelay)
	}
	return nil
}

func (o *KillCommandOptions) KillOptions() service.KillOptions {
	return service.KillOptions{
		Include:      o.Include,
		Exclude:      o.Exclude,
		StopTimeout:  time.Duration(o.Timeout) * time.Second,
		PollInterval: time.Duration(o.PollInterval) * time.Second,
		CallDelay:    o.CallDelay,
		NoWait:       o.TimeoutSet && o.Timeout == 0,
	}
}

// ListCommandOptions contains the options of the list command
type ListCommandOptions struct {
	Output string
}

func (o *ListCommandOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", string(render.EncodingTable), fmt.Sprintf("Output format, one of %v", render.Encodings()))
}

func (o *ListCommandOptions) Validate() error {
	for _, enc := range render.Encodings() {
		if o.Output == enc {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q, want one of %v", o.Output, render.Encodings())
}

// KeysCommandOptions contains the options of the keys distribute command
type KeysCommandOptions struct {
	Dir      string
	Parallel int
	RCFiles  []string
}

func (o *KeysCommandOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Dir, "dir", "", "Directory holding the hostname,key CSV files (default from keys.dir)")
	fs.IntVar(&o.Parallel, "parallel", 0, "Maximum hosts processed at once (default from API_KEYS_MAX_PARALLEL, 50)")
	fs.StringSliceVar(&o.RCFiles, "rc-file", nil, "Remote shell rc files to append to (default ~/.bashrc,~/.zshrc)")
}

func (o *KeysCommandOptions) KeyOptions() service.KeyOptions {
	return service.KeyOptions{
		Dir:      o.Dir,
		Parallel: o.Parallel,
		RCFiles:  o.RCFiles,
	}
}

// PrintConfig logs the effective configuration at debug level
func PrintConfig(ctx context.Context, cfg config.Config) {
	log := logger.Logger(ctx).Debug()
	log.Str("endpoint", cfg.Runpod.Endpoint).
		Stringer("api_key", cfg.Runpod.APIKey).
		Dur("request_timeout", cfg.Runpod.RequestTimeout).
		Dur("kill_timeout", cfg.Kill.Timeout).
		Dur("poll_interval", cfg.Kill.PollInterval).
		Dur("call_delay", cfg.Kill.CallDelay).
		Str("keys_dir", cfg.Keys.Dir).
		Int("keys_max_parallel", cfg.Keys.MaxParallel).
		Msg("configuration")
}
