package app

import (
	"io"

	"github.com/arenainfra/podctl/adapter/prompt"
	"github.com/arenainfra/podctl/adapter/runpod"
	"github.com/arenainfra/podctl/adapter/ssh"
	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/service"
	"go.uber.org/fx"
	"k8s.io/utils/clock"
)

// Streams are the terminal streams of one command invocation
type Streams struct {
	In  io.Reader
	Out io.Writer
}

func ConfigModule(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Provide(func() config.Config {
			return cfg
		}),
		fx.Provide(func(c config.Config) config.RunpodConfig {
			return c.Runpod
		}),
		fx.Provide(func(c config.Config) config.KillConfig {
			return c.Kill
		}),
		fx.Provide(func(c config.Config) config.KeysConfig {
			return c.Keys
		}),
	)
}

// ProviderModule provides the RunPod client as domain.PodProvider. It fails
// at construction when no API key is configured, so commands that never talk
// to RunPod leave it out.
func ProviderModule() fx.Option {
	return fx.Provide(
		fx.Annotate(runpod.NewClient, fx.As(new(domain.PodProvider))),
	)
}

// AdapterModule provides the terminal, remote execution and clock adapters
func AdapterModule(streams Streams) fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(func() io.Writer {
				return streams.Out
			}, fx.ResultTags(`name:"stdout"`)),
		),
		fx.Provide(
			fx.Annotate(func() *prompt.Confirmer {
				return prompt.NewConfirmer(streams.In, streams.Out)
			}, fx.As(new(domain.Confirmer))),
		),
		fx.Provide(
			fx.Annotate(func(keys config.KeysConfig) *ssh.Executor {
				return ssh.NewExecutor(ssh.ExecutorParams{Timeout: keys.SSHTimeout})
			}, fx.As(new(domain.RemoteExecutor))),
		),
		fx.Provide(func() clock.Clock {
			return clock.RealClock{}
		}),
	)
}

// ServiceModule creates an Fx module that provides *service.Service and its *service.Metrics
func ServiceModule(cfg config.Config, streams Streams, extra ...fx.Option) fx.Option {
	return fx.Options(
		ConfigModule(cfg),
		AdapterModule(streams),
		fx.Options(extra...),
		fx.Provide(service.NewMetrics),
		fx.Provide(service.NewService),
	)
}

// BuildService resolves the dependency graph of module without starting any
// lifecycle hooks.
func BuildService(module fx.Option) (*service.Service, *service.Metrics, error) {
	var (
		svc     *service.Service
		metrics *service.Metrics
	)
	app := fx.New(
		module,
		fx.NopLogger,
		fx.Populate(&svc, &metrics),
	)
	if err := app.Err(); err != nil {
		return nil, nil, err
	}
	return svc, metrics, nil
}
