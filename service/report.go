package service

import (
	"time"

	"github.com/arenainfra/podctl/domain"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"
)

const metricsNamespace = "podctl"

// NewMetrics builds the podctl counters on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		podOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pod_operations_total",
			Help:      "Pod lifecycle transitions by phase and result.",
		}, []string{"phase", "result"}),
		killRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "kill_runs_total",
			Help:      "Kill runs by outcome.",
		}, []string{"outcome"}),
		pollRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_rounds_total",
			Help:      "Inventory polls issued while waiting for pods to stop.",
		}),
		keyCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "key_commands_total",
			Help:      "Remote key export commands by result.",
		}, []string{"result"}),
	}
	m.Registry.MustRegister(m.podOperations, m.killRuns, m.pollRounds, m.keyCommands)
	return m
}

// Metrics are the prometheus counters of podctl operations
type Metrics struct {
	Registry      *prometheus.Registry
	podOperations *prometheus.CounterVec
	killRuns      *prometheus.CounterVec
	pollRounds    prometheus.Counter
	keyCommands   *prometheus.CounterVec
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.WithMessagef(err, "write metrics to %s", path)
	}
	return nil
}

func (m *Metrics) observeKeyCommand(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	m.keyCommands.WithLabelValues(result).Inc()
}

var stateLabels = map[domain.PodState][2]string{
	domain.PodStateStopRequested:   {"stop", "requested"},
	domain.PodStateStopError:       {"stop", "error"},
	domain.PodStateStopped:         {"poll", "stopped"},
	domain.PodStateStopTimeout:     {"poll", "timeout"},
	domain.PodStateDeleteRequested: {"delete", "requested"},
	domain.PodStateDeleted:         {"delete", "deleted"},
	domain.PodStateDeleteError:     {"delete", "error"},
}

// NewReporter starts a KillReport for a run beginning now.
func NewReporter(clk clock.PassiveClock, metrics *Metrics) *Reporter {
	return &Reporter{
		clock:   clk,
		metrics: metrics,
		report:  &domain.KillReport{StartedAt: clk.Now()},
		records: map[string]*domain.OperationRecord{},
	}
}

// Reporter accumulates per-pod lifecycle records and counts for one kill run
type Reporter struct {
	clock   clock.PassiveClock
	metrics *Metrics
	report  *domain.KillReport
	records map[string]*domain.OperationRecord
}

// Select records the target set in selection order.
func (r *Reporter) Select(pods []*domain.Pod) {
	now := r.clock.Now()
	for _, pod := range pods {
		rec := &domain.OperationRecord{
			PodID:     pod.ID,
			PodName:   pod.Name,
			State:     domain.PodStateSelected,
			UpdatedAt: now,
		}
		r.records[pod.ID] = rec
		r.report.Records = append(r.report.Records, rec)
	}
	r.report.Selected = len(pods)
}

// Transition moves a selected pod to state. err is kept for error states.
func (r *Reporter) Transition(pod *domain.Pod, state domain.PodState, err error) {
	rec, ok := r.records[pod.ID]
	if !ok {
		return
	}
	rec.State = state
	rec.Err = err
	rec.UpdatedAt = r.clock.Now()

	switch state {
	case domain.PodStateStopRequested:
		r.report.RequestedStop++
	case domain.PodStateStopError:
		r.report.StopErrors++
	case domain.PodStateStopped:
		r.report.ConfirmedStopped++
	case domain.PodStateStopTimeout:
		r.report.TimedOut++
	case domain.PodStateDeleteRequested:
		r.report.RequestedDelete++
	case domain.PodStateDeleted:
		r.report.Deleted++
	case domain.PodStateDeleteError:
		r.report.DeleteErrors++
	}
	if labels, ok := stateLabels[state]; ok && r.metrics != nil {
		r.metrics.podOperations.WithLabelValues(labels[0], labels[1]).Inc()
	}
}

// PollRound records one inventory poll of the stop wait.
func (r *Reporter) PollRound() {
	r.report.PollRounds++
	if r.metrics != nil {
		r.metrics.pollRounds.Inc()
	}
}

// StopWaitEnded records how long the run waited for pods to stop.
func (r *Reporter) StopWaitEnded(started time.Time) {
	r.report.StopWait = r.clock.Since(started)
}

// Finish stamps the outcome and duration and returns the report.
func (r *Reporter) Finish(outcome domain.KillOutcome) *domain.KillReport {
	r.report.Outcome = outcome
	r.report.Duration = r.clock.Since(r.report.StartedAt)
	if r.metrics != nil {
		r.metrics.killRuns.WithLabelValues(string(outcome)).Inc()
	}
	return r.report
}
