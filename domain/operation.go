package domain

import "time"

// PodState is the lifecycle state of a single pod during one kill run.
type PodState string

const (
	PodStateSelected        PodState = "SELECTED"
	PodStateStopRequested   PodState = "STOP_REQUESTED"
	PodStateStopError       PodState = "STOP_ERROR"
	PodStateStopped         PodState = "STOPPED"
	PodStateStopTimeout     PodState = "STOP_TIMEOUT"
	PodStateDeleteRequested PodState = "DELETE_REQUESTED"
	PodStateDeleted         PodState = "DELETED"
	PodStateDeleteError     PodState = "DELETE_ERROR"
)

// KillOutcome is how a kill run ended.
type KillOutcome string

const (
	KillOutcomeCompleted      KillOutcome = "completed"
	KillOutcomeNothingToDo    KillOutcome = "nothing-to-do"
	KillOutcomeStopDeclined   KillOutcome = "stop-declined"
	KillOutcomeDeleteDeclined KillOutcome = "delete-declined"
	KillOutcomeNoneStopped    KillOutcome = "none-stopped"
)

// OperationRecord is the latest known outcome for one pod. It is never persisted.
type OperationRecord struct {
	PodID     string
	PodName   string
	State     PodState
	Err       error
	UpdatedAt time.Time
}

// KillReport summarises one kill run
type KillReport struct {
	Outcome          KillOutcome
	Selected         int
	RequestedStop    int
	StopErrors       int
	ConfirmedStopped int
	TimedOut         int
	RequestedDelete  int
	Deleted          int
	DeleteErrors     int
	PollRounds       int
	StartedAt        time.Time
	StopWait         time.Duration
	Duration         time.Duration
	Records          []*OperationRecord
}

// RecordsIn returns the records currently in any of the given states, in selection order.
func (r *KillReport) RecordsIn(states ...PodState) []*OperationRecord {
	results := make([]*OperationRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		for _, state := range states {
			if rec.State == state {
				results = append(results, rec)
				break
			}
		}
	}
	return results
}

// CommandResult is the outcome of one remote command execution
type CommandResult struct {
	Host     string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns the most useful captured output for error messages.
func (r CommandResult) Output() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	return "No output"
}

// KeySource is one file of hostname to secret mappings and the variable it is exported as
type KeySource struct {
	File   string
	EnvVar string
	Keys   map[string]string
}

// KeyReport summarises one key distribution run
type KeyReport struct {
	Hosts     int
	Attempted int
	Succeeded int
	Failed    int
	Duration  time.Duration
}
