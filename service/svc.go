package service

import (
	"io"

	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"go.uber.org/fx"
	"k8s.io/utils/clock"
)

// Params holds the parameters for creating a new Service
type Params struct {
	fx.In
	Provider   domain.PodProvider `optional:"true"`
	Confirmer  domain.Confirmer
	Executor   domain.RemoteExecutor
	Clock      clock.Clock
	Metrics    *Metrics
	Out        io.Writer `name:"stdout"`
	KillConfig config.KillConfig
	KeysConfig config.KeysConfig
}

// NewService creates a new Service instance
func NewService(params Params) *Service {
	return &Service{
		Provider:   params.Provider,
		Confirmer:  params.Confirmer,
		Executor:   params.Executor,
		Clock:      params.Clock,
		Metrics:    params.Metrics,
		Out:        params.Out,
		KillConfig: params.KillConfig,
		KeysConfig: params.KeysConfig,
	}
}

// Service runs the pod lifecycle, listing and key distribution operations.
// Zero-valued optional fields fall back to the real clock, a discarded
// output stream and unrecorded metrics.
type Service struct {
	Provider   domain.PodProvider
	Confirmer  domain.Confirmer
	Executor   domain.RemoteExecutor
	Clock      clock.Clock
	Metrics    *Metrics
	Out        io.Writer
	KillConfig config.KillConfig
	KeysConfig config.KeysConfig
}

func (svc *Service) clock() clock.Clock {
	if svc.Clock == nil {
		return clock.RealClock{}
	}
	return svc.Clock
}

func (svc *Service) out() io.Writer {
	if svc.Out == nil {
		return io.Discard
	}
	return svc.Out
}
