package domain

import (
	"context"
)

// PodProvider is the cloud provider's pod API
type PodProvider interface {
	// FetchPods returns the current inventory of pods. It never retries.
	FetchPods(ctx context.Context) ([]*Pod, error)
	// StopPod requests that the pod with the given ID be stopped
	StopPod(ctx context.Context, podID string) error
	// TerminatePod requests that the pod with the given ID be deleted
	TerminatePod(ctx context.Context, podID string) error
}

// Confirmer is a synchronous yes/no checkpoint before an irreversible phase.
// It returns true only on an explicit affirmative answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string, pods []*Pod) (bool, error)
}

// RemoteExecutor runs a shell command on a remote host
type RemoteExecutor interface {
	Run(ctx context.Context, host string, command string) (CommandResult, error)
}
