package service_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/errs"
	"github.com/arenainfra/podctl/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	clocktesting "k8s.io/utils/clock/testing"
)

const (
	testTimeout      = 30 * time.Second
	testPollInterval = 10 * time.Second
	testCallDelay    = time.Second
)

type KillPodsSuite struct {
	suite.Suite
	ctx       context.Context
	start     time.Time
	clock     *clocktesting.FakeClock
	provider  *domain.MockPodProvider
	confirmer *domain.MockConfirmer
	metrics   *service.Metrics
	out       *bytes.Buffer
	svc       *service.Service

	mu          sync.Mutex
	stopCalls   []string
	deleteCalls []string
}

func TestKillPodsSuite(t *testing.T) {
	suite.Run(t, new(KillPodsSuite))
}

func (s *KillPodsSuite) SetupTest() {
	s.ctx = context.Background()
	s.start = time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	s.clock = clocktesting.NewFakeClock(s.start)
	s.provider = domain.NewMockPodProvider(s.T())
	s.confirmer = domain.NewMockConfirmer(s.T())
	s.metrics = service.NewMetrics()
	s.out = &bytes.Buffer{}
	s.stopCalls = nil
	s.deleteCalls = nil
	s.svc = &service.Service{
		Provider:  s.provider,
		Confirmer: s.confirmer,
		Clock:     s.clock,
		Metrics:   s.metrics,
		Out:       s.out,
		KillConfig: config.KillConfig{
			Timeout:      testTimeout,
			PollInterval: testPollInterval,
			CallDelay:    testCallDelay,
		},
	}
}

func running(id, name string) *domain.Pod {
	return &domain.Pod{ID: id, Name: name, DesiredStatus: domain.PodStatusRunning}
}

// inventory serves pods whose status flips to EXITED once the fake clock is
// exitAfter past the start of the test. Pods without an entry keep running.
func (s *KillPodsSuite) inventory(pods []*domain.Pod, exitAfter map[string]time.Duration) func(context.Context) ([]*domain.Pod, error) {
	return func(context.Context) ([]*domain.Pod, error) {
		elapsed := s.clock.Since(s.start)
		snapshot := make([]*domain.Pod, 0, len(pods))
		for _, p := range pods {
			cp := *p
			if d, ok := exitAfter[p.ID]; ok && elapsed >= d {
				cp.DesiredStatus = domain.PodStatusExited
			}
			snapshot = append(snapshot, &cp)
		}
		return snapshot, nil
	}
}

func (s *KillPodsSuite) expectStops(ids ...string) {
	for _, id := range ids {
		s.provider.EXPECT().StopPod(mock.Anything, id).
			Run(func(_ context.Context, podID string) {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.stopCalls = append(s.stopCalls, podID)
			}).
			Return(nil).Once()
	}
}

func (s *KillPodsSuite) expectDeletes(ids ...string) {
	for _, id := range ids {
		s.provider.EXPECT().TerminatePod(mock.Anything, id).
			Run(func(_ context.Context, podID string) {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.deleteCalls = append(s.deleteCalls, podID)
			}).
			Return(nil).Once()
	}
}

func (s *KillPodsSuite) expectConfirm(prompt string, answer bool) {
	s.confirmer.EXPECT().Confirm(mock.Anything, prompt, mock.Anything).Return(answer, nil).Once()
}

func recordStates(report *domain.KillReport) map[string]domain.PodState {
	states := map[string]domain.PodState{}
	for _, rec := range report.Records {
		states[rec.PodID] = rec.State
	}
	return states
}

func (s *KillPodsSuite) TestHappyPath() {
	pods := []*domain.Pod{
		running("a", "trainer-a"),
		running("b", "trainer-b"),
		running("c", "trainer-c"),
		{ID: "d", Name: "parked", DesiredStatus: domain.PodStatusExited},
	}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": 5 * time.Second, "b": 12 * time.Second, "c": 12 * time.Second}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 3 pods?", true)
	s.expectStops("a", "b", "c")
	s.expectConfirm("Proceed with deleting these 3 stopped pods?", true)
	s.expectDeletes("a", "b", "c")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)

	s.Equal(domain.KillOutcomeCompleted, report.Outcome)
	s.Equal(3, report.Selected)
	s.Equal(3, report.RequestedStop)
	s.Equal(3, report.ConfirmedStopped)
	s.Equal(0, report.TimedOut)
	s.Equal(3, report.RequestedDelete)
	s.Equal(3, report.Deleted)
	// stops at 0s, 1s, 2s; polls at 2s and 12s
	s.Equal(2, report.PollRounds)
	s.Equal(10*time.Second, report.StopWait)
	s.Equal(14*time.Second, report.Duration)
	s.Equal([]string{"a", "b", "c"}, s.stopCalls)
	s.Equal([]string{"a", "b", "c"}, s.deleteCalls)
	for id, state := range recordStates(report) {
		s.Equal(domain.PodStateDeleted, state, id)
	}
	s.Contains(s.out.String(), "✓ deleted trainer-b (ID: b)")

	expected := `
# HELP podctl_kill_runs_total Kill runs by outcome.
# TYPE podctl_kill_runs_total counter
podctl_kill_runs_total{outcome="completed"} 1
# HELP podctl_pod_operations_total Pod lifecycle transitions by phase and result.
# TYPE podctl_pod_operations_total counter
podctl_pod_operations_total{phase="delete",result="deleted"} 3
podctl_pod_operations_total{phase="delete",result="requested"} 3
podctl_pod_operations_total{phase="poll",result="stopped"} 3
podctl_pod_operations_total{phase="stop",result="requested"} 3
`
	s.NoError(testutil.GatherAndCompare(s.metrics.Registry, strings.NewReader(expected),
		"podctl_kill_runs_total", "podctl_pod_operations_total"))
}

func (s *KillPodsSuite) TestNothingToDo() {
	pods := []*domain.Pod{{ID: "d", Name: "parked", DesiredStatus: domain.PodStatusExited}}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeNothingToDo, report.Outcome)
	s.Zero(report.Selected)
	s.Contains(s.out.String(), "Nothing to do")
}

func (s *KillPodsSuite) TestIncludeAndExcludeNarrowTargets() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b"), running("c", "trainer-c")}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()
	s.confirmer.EXPECT().Confirm(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, _ string, targets []*domain.Pod) {
			s.Require().Len(targets, 1)
			s.Equal("c", targets[0].ID)
		}).
		Return(false, nil).Once()

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{
		Include: []string{"trainer-a", "trainer-c"},
		Exclude: []string{"trainer-a"},
	})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeStopDeclined, report.Outcome)
}

func (s *KillPodsSuite) TestStopDeclinedMakesNoCalls() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", false)

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeStopDeclined, report.Outcome)
	s.Zero(report.RequestedStop)
	s.Empty(s.stopCalls)
	s.provider.AssertNotCalled(s.T(), "StopPod", mock.Anything, mock.Anything)
}

func (s *KillPodsSuite) TestConfirmErrorIsDecline() {
	pods := []*domain.Pod{running("a", "trainer-a")}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()
	s.confirmer.EXPECT().Confirm(mock.Anything, mock.Anything, mock.Anything).
		Return(false, stderrors.New("stdin closed")).Once()

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeStopDeclined, report.Outcome)
}

func (s *KillPodsSuite) TestDeleteDeclinedMakesNoCalls() {
	pods := []*domain.Pod{running("a", "trainer-a")}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": time.Second}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 1 pods?", true)
	s.expectStops("a")
	s.expectConfirm("Proceed with deleting these 1 stopped pods?", false)

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeDeleteDeclined, report.Outcome)
	s.Equal(1, report.ConfirmedStopped)
	s.Zero(report.RequestedDelete)
	s.provider.AssertNotCalled(s.T(), "TerminatePod", mock.Anything, mock.Anything)
	s.Equal(domain.PodStateStopped, recordStates(report)["a"])
}

func (s *KillPodsSuite) TestPartialTimeout() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": 5 * time.Second}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.expectStops("a", "b")
	s.confirmer.EXPECT().Confirm(mock.Anything, "Proceed with deleting these 1 stopped pods?", mock.Anything).
		Run(func(_ context.Context, _ string, stopped []*domain.Pod) {
			s.Require().Len(stopped, 1)
			s.Equal("a", stopped[0].ID)
		}).
		Return(true, nil).Once()
	s.expectDeletes("a")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeCompleted, report.Outcome)
	s.Equal(1, report.ConfirmedStopped)
	s.Equal(1, report.TimedOut)
	s.Equal(1, report.Deleted)
	// polls at 1s, 11s, 21s and a final one at the 31s deadline
	s.Equal(4, report.PollRounds)
	s.Equal(testTimeout, report.StopWait)
	s.Equal([]string{"a"}, s.deleteCalls)

	states := recordStates(report)
	s.Equal(domain.PodStateDeleted, states["a"])
	s.Equal(domain.PodStateStopTimeout, states["b"])
	s.Contains(s.out.String(), "trainer-b (ID: b) did not stop in time")
}

func (s *KillPodsSuite) TestAllTimedOutSkipsDeleteGate() {
	pods := []*domain.Pod{running("a", "trainer-a")}
	s.provider.EXPECT().FetchPods(mock.Anything).RunAndReturn(s.inventory(pods, nil))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 1 pods?", true)
	s.expectStops("a")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{StopTimeout: 15 * time.Second, PollInterval: 5 * time.Second})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeNoneStopped, report.Outcome)
	s.Equal(1, report.TimedOut)
	s.Equal(4, report.PollRounds)
	s.Equal(15*time.Second, s.clock.Since(s.start))
}

func (s *KillPodsSuite) TestStopFailureDoesNotBlockLaterPods() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b"), running("c", "trainer-c")}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": time.Second, "b": time.Second, "c": time.Second}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 3 pods?", true)
	s.provider.EXPECT().StopPod(mock.Anything, "a").
		Return(errs.NewProviderError("stop pod a", http.StatusInternalServerError, "boom", nil)).Once()
	s.expectStops("b", "c")
	s.expectConfirm("Proceed with deleting these 2 stopped pods?", true)
	s.expectDeletes("b", "c")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(1, report.StopErrors)
	s.Equal(2, report.RequestedStop)
	s.Equal(2, report.Deleted)
	s.Equal([]string{"b", "c"}, s.deleteCalls)

	errored := report.RecordsIn(domain.PodStateStopError)
	s.Require().Len(errored, 1)
	s.Equal("a", errored[0].PodID)
	var opErr *errs.PodOperationError
	s.Require().ErrorAs(errored[0].Err, &opErr)
	s.Equal("stop", opErr.Op)
	s.Contains(s.out.String(), "failed to stop trainer-a (ID: a)")
}

func (s *KillPodsSuite) TestDeleteFailureContinuesBatch() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": time.Second, "b": time.Second}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.expectStops("a", "b")
	s.expectConfirm("Proceed with deleting these 2 stopped pods?", true)
	s.provider.EXPECT().TerminatePod(mock.Anything, "a").Return(stderrors.New("pod is locked")).Once()
	s.expectDeletes("b")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeCompleted, report.Outcome)
	s.Equal(2, report.RequestedDelete)
	s.Equal(1, report.Deleted)
	s.Equal(1, report.DeleteErrors)
	s.Equal(domain.PodStateDeleteError, recordStates(report)["a"])
}

func (s *KillPodsSuite) TestAllStopsFailed() {
	pods := []*domain.Pod{running("a", "trainer-a")}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 1 pods?", true)
	s.provider.EXPECT().StopPod(mock.Anything, "a").Return(stderrors.New("gone")).Once()

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeNoneStopped, report.Outcome)
	s.Zero(report.PollRounds)
}

func (s *KillPodsSuite) TestPollErrorCountsAsUnknown() {
	pods := []*domain.Pod{running("a", "trainer-a")}
	calls := 0
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(func(context.Context) ([]*domain.Pod, error) {
			calls++
			switch calls {
			case 1:
				return pods, nil
			case 2:
				return nil, errs.NewProviderError("fetch pods", http.StatusBadGateway, "bad gateway", nil)
			default:
				return []*domain.Pod{{ID: "a", Name: "trainer-a", DesiredStatus: domain.PodStatusExited}}, nil
			}
		})
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 1 pods?", true)
	s.expectStops("a")
	s.expectConfirm("Proceed with deleting these 1 stopped pods?", true)
	s.expectDeletes("a")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Require().NoError(err)
	s.Equal(domain.KillOutcomeCompleted, report.Outcome)
	s.Equal(2, report.PollRounds)
}

func (s *KillPodsSuite) TestLatestRoundDecides() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	calls := 0
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(func(context.Context) ([]*domain.Pod, error) {
			calls++
			switch calls {
			case 1:
				return pods, nil
			case 2:
				return []*domain.Pod{
					{ID: "a", Name: "trainer-a", DesiredStatus: domain.PodStatusExited},
					running("b", "trainer-b"),
				}, nil
			default:
				// a vanished from the inventory, b finally exited
				return []*domain.Pod{{ID: "b", Name: "trainer-b", DesiredStatus: domain.PodStatusExited}}, nil
			}
		})
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.expectStops("a", "b")
	s.expectConfirm("Proceed with deleting these 1 stopped pods?", true)
	s.expectDeletes("b")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{StopTimeout: 10 * time.Second})
	s.Require().NoError(err)
	s.Equal(2, report.PollRounds)
	states := recordStates(report)
	s.Equal(domain.PodStateStopTimeout, states["a"])
	s.Equal(domain.PodStateDeleted, states["b"])
}

func (s *KillPodsSuite) TestFatalStopErrorAborts() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.provider.EXPECT().StopPod(mock.Anything, "a").
		Return(errs.NewProviderError("stop pod a", http.StatusUnauthorized, "unauthorized", nil)).Once()

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Nil(report)
	s.Require().Error(err)
	s.True(errs.IsFatal(err))
	s.ErrorIs(err, errs.ErrMissingCredential)
}

func (s *KillPodsSuite) TestInventoryFailure() {
	s.provider.EXPECT().FetchPods(mock.Anything).
		Return(nil, errs.NewProviderError("fetch pods", http.StatusServiceUnavailable, "down", nil)).Once()

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{})
	s.Nil(report)
	s.Require().Error(err)
	_, ok := errs.IsProviderError(err)
	s.True(ok)
}

func (s *KillPodsSuite) TestCancelBetweenStopCalls() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).Return(pods, nil).Once()
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.provider.EXPECT().StopPod(mock.Anything, "a").
		Run(func(context.Context, string) { cancel() }).
		Return(nil).Once()

	report, err := s.svc.KillPods(ctx, service.KillOptions{})
	s.Nil(report)
	s.ErrorIs(err, context.Canceled)
	s.provider.AssertNotCalled(s.T(), "StopPod", mock.Anything, "b")
}

func (s *KillPodsSuite) TestOptionsOverrideConfig() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": time.Minute, "b": time.Minute}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.expectStops("a", "b")
	s.expectConfirm("Proceed with deleting these 2 stopped pods?", true)
	s.expectDeletes("a", "b")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{
		StopTimeout:  2 * time.Minute,
		PollInterval: 20 * time.Second,
		CallDelay:    5 * time.Second,
	})
	s.Require().NoError(err)
	// stops at 0s and 5s; polls at 5s, 25s, 45s and 65s
	s.Equal(4, report.PollRounds)
	s.Equal(60*time.Second, report.StopWait)
}

func (s *KillPodsSuite) TestNoWaitDeletesOnlyAlreadyExited() {
	pods := []*domain.Pod{running("a", "trainer-a"), running("b", "trainer-b")}
	s.provider.EXPECT().FetchPods(mock.Anything).
		RunAndReturn(s.inventory(pods, map[string]time.Duration{"a": time.Second, "b": time.Minute}))
	s.expectConfirm("Are you sure you want to KILL (stop and delete) these 2 pods?", true)
	s.expectStops("a", "b")
	s.expectConfirm("Proceed with deleting these 1 stopped pods?", true)
	s.expectDeletes("a")

	report, err := s.svc.KillPods(s.ctx, service.KillOptions{NoWait: true})
	s.Require().NoError(err)
	s.Equal(1, report.PollRounds)
	s.Equal(time.Duration(0), report.StopWait)
	s.Equal(1, report.TimedOut)
	s.Equal([]string{"a"}, s.deleteCalls)
	s.Equal(time.Second, s.clock.Since(s.start))
	s.Equal(domain.PodStateStopTimeout, recordStates(report)["b"])
}
