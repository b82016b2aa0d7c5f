package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arenainfra/podctl/config"
	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/errs"
	"github.com/arenainfra/podctl/pkg/logger"
	"github.com/pkg/errors"
)

const (
	stopPrompt   = "Are you sure you want to KILL (stop and delete) these %d pods?"
	deletePrompt = "Proceed with deleting these %d stopped pods?"

	// upper bound on how long a wait goes without checking for cancellation
	sleepSlice = 250 * time.Millisecond
)

// KillOptions selects the pods of a kill run and paces it. Zero durations
// fall back to the kill section of the configuration.
type KillOptions struct {
	Include      []string
	Exclude      []string
	StopTimeout  time.Duration
	PollInterval time.Duration
	CallDelay    time.Duration

	// NoWait skips waiting: the inventory is polled once right after the
	// stop calls and only pods already EXITED go on to the delete phase.
	NoWait bool
}

func (svc *Service) resolveKillOptions(opt KillOptions) KillOptions {
	if opt.NoWait {
		opt.StopTimeout = 0
	} else {
		opt.StopTimeout = firstPositive(opt.StopTimeout, svc.KillConfig.Timeout, config.DefaultKillTimeout)
	}
	opt.PollInterval = firstPositive(opt.PollInterval, svc.KillConfig.PollInterval, config.DefaultPollInterval)
	opt.CallDelay = firstPositive(opt.CallDelay, svc.KillConfig.CallDelay, config.DefaultCallDelay)
	return opt
}

func firstPositive(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// KillPods stops the selected running pods, waits for them to report EXITED
// and deletes the ones that did. Each phase is gated by the Confirmer.
// Declined gates and timeouts are outcomes on the returned report; only a
// failed initial inventory, a fatal error or cancellation is returned as error.
func (svc *Service) KillPods(ctx context.Context, opt KillOptions) (*domain.KillReport, error) {
	opt = svc.resolveKillOptions(opt)
	out := svc.out()
	reporter := NewReporter(svc.clock(), svc.Metrics)

	pods, err := svc.Provider.FetchPods(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "fetch pods")
	}
	targets := SelectTargets(pods, opt.Include, opt.Exclude)
	if len(targets) == 0 {
		fmt.Fprintln(out, "No running pods match the selection. Nothing to do.")
		return reporter.Finish(domain.KillOutcomeNothingToDo), nil
	}
	reporter.Select(targets)
	logger.Logger(ctx).Info().Msgf("selected %d of %d pods", len(targets), len(pods))

	ok, err := svc.confirm(ctx, fmt.Sprintf(stopPrompt, len(targets)), targets)
	if err != nil {
		return nil, err
	}
	if !ok {
		fmt.Fprintln(out, "Aborted. No pods were stopped.")
		return reporter.Finish(domain.KillOutcomeStopDeclined), nil
	}

	requested, err := svc.stopPods(ctx, targets, opt.CallDelay, reporter)
	if err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		fmt.Fprintln(out, "No stop requests succeeded. Nothing to delete.")
		return reporter.Finish(domain.KillOutcomeNoneStopped), nil
	}

	stopped, err := svc.waitForStopped(ctx, requested, opt, reporter)
	if err != nil {
		return nil, err
	}
	if len(stopped) == 0 {
		fmt.Fprintln(out, "No pods reached EXITED before the timeout. Nothing to delete.")
		return reporter.Finish(domain.KillOutcomeNoneStopped), nil
	}

	ok, err = svc.confirm(ctx, fmt.Sprintf(deletePrompt, len(stopped)), stopped)
	if err != nil {
		return nil, err
	}
	if !ok {
		fmt.Fprintln(out, "Aborted. Stopped pods were not deleted.")
		return reporter.Finish(domain.KillOutcomeDeleteDeclined), nil
	}

	if err := svc.deletePods(ctx, stopped, opt.CallDelay, reporter); err != nil {
		return nil, err
	}
	return reporter.Finish(domain.KillOutcomeCompleted), nil
}

// confirm treats a failed prompt as a decline unless the run was canceled.
func (svc *Service) confirm(ctx context.Context, prompt string, pods []*domain.Pod) (bool, error) {
	ok, err := svc.Confirmer.Confirm(ctx, prompt, pods)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		logger.Logger(ctx).Warn().Err(err).Msg("confirmation failed, treating as decline")
		return false, nil
	}
	return ok, nil
}

func (svc *Service) stopPods(ctx context.Context, targets []*domain.Pod, delay time.Duration, reporter *Reporter) ([]*domain.Pod, error) {
	out := svc.out()
	fmt.Fprintf(out, "\nStopping %d pods...\n", len(targets))

	requested := make([]*domain.Pod, 0, len(targets))
	for i, pod := range targets {
		if i > 0 {
			if err := svc.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		if err := svc.Provider.StopPod(ctx, pod.ID); err != nil {
			if errs.IsFatal(err) {
				return nil, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			opErr := errs.NewPodOperationError("stop", pod.ID, pod.Name, err)
			logger.Logger(ctx).Error().Err(opErr).Msg("stop request failed")
			fmt.Fprintf(out, "  ✗ failed to stop %s: %v\n", pod, err)
			reporter.Transition(pod, domain.PodStateStopError, opErr)
			continue
		}
		reporter.Transition(pod, domain.PodStateStopRequested, nil)
		fmt.Fprintf(out, "  ✓ stop requested for %s\n", pod)
		requested = append(requested, pod)
	}
	return requested, nil
}

// waitForStopped polls the inventory until every requested pod reports EXITED
// or the deadline has passed, then classifies the pods from the latest round.
func (svc *Service) waitForStopped(ctx context.Context, requested []*domain.Pod, opt KillOptions, reporter *Reporter) ([]*domain.Pod, error) {
	out := svc.out()
	clk := svc.clock()
	start := clk.Now()
	deadline := start.Add(opt.StopTimeout)
	defer reporter.StopWaitEnded(start)

	fmt.Fprintf(out, "\nWaiting up to %s for %d pods to stop...\n", opt.StopTimeout, len(requested))
	var round domain.PollRound
	for {
		var err error
		round, err = svc.pollRound(ctx, requested, reporter)
		if err != nil {
			return nil, err
		}
		if round.AllStopped(len(requested)) {
			break
		}
		remaining := deadline.Sub(clk.Now())
		if remaining <= 0 {
			break
		}
		fmt.Fprintf(out, "  %d/%d stopped (%d running, %d unknown), %s left\n",
			len(round.Stopped), len(requested), len(round.Running), len(round.Unknown), remaining.Round(time.Second))
		if err := svc.sleep(ctx, min(opt.PollInterval, remaining)); err != nil {
			return nil, err
		}
	}

	stoppedIDs := toSet(round.Stopped)
	stopped := make([]*domain.Pod, 0, len(round.Stopped))
	for _, pod := range requested {
		if _, ok := stoppedIDs[pod.ID]; ok {
			reporter.Transition(pod, domain.PodStateStopped, nil)
			stopped = append(stopped, pod)
			continue
		}
		reporter.Transition(pod, domain.PodStateStopTimeout, nil)
		logger.Logger(ctx).Warn().Msgf("%s did not stop within %s", pod, opt.StopTimeout)
		fmt.Fprintf(out, "  ✗ %s did not stop in time\n", pod)
	}
	fmt.Fprintf(out, "%d/%d pods stopped\n", len(stopped), len(requested))
	return stopped, nil
}

// pollRound classifies the requested pods against one fresh inventory. A
// failed query marks every pod unknown for this round.
func (svc *Service) pollRound(ctx context.Context, requested []*domain.Pod, reporter *Reporter) (domain.PollRound, error) {
	round := domain.PollRound{At: svc.clock().Now()}
	reporter.PollRound()

	pods, err := svc.Provider.FetchPods(ctx)
	if err != nil {
		if errs.IsFatal(err) {
			return round, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return round, ctxErr
		}
		logger.Logger(ctx).Warn().Err(err).Msg("poll inventory failed, pod states unknown this round")
		for _, pod := range requested {
			round.Unknown = append(round.Unknown, pod.ID)
		}
		return round, nil
	}

	idx := domain.NewPodIndex(pods)
	for _, pod := range requested {
		current, ok := idx[pod.ID]
		switch {
		case ok && current.IsExited():
			round.Stopped = append(round.Stopped, pod.ID)
		case ok && current.IsRunning():
			round.Running = append(round.Running, pod.ID)
		default:
			round.Unknown = append(round.Unknown, pod.ID)
		}
	}
	logger.Logger(ctx).Debug().Msgf("poll: %d stopped, %d running, %d unknown",
		len(round.Stopped), len(round.Running), len(round.Unknown))
	return round, nil
}

func (svc *Service) deletePods(ctx context.Context, stopped []*domain.Pod, delay time.Duration, reporter *Reporter) error {
	out := svc.out()
	fmt.Fprintf(out, "\nDeleting %d pods...\n", len(stopped))

	for i, pod := range stopped {
		if i > 0 {
			if err := svc.sleep(ctx, delay); err != nil {
				return err
			}
		}
		reporter.Transition(pod, domain.PodStateDeleteRequested, nil)
		if err := svc.Provider.TerminatePod(ctx, pod.ID); err != nil {
			if errs.IsFatal(err) {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			opErr := errs.NewPodOperationError("delete", pod.ID, pod.Name, err)
			logger.Logger(ctx).Error().Err(opErr).Msg("delete request failed")
			fmt.Fprintf(out, "  ✗ failed to delete %s: %v\n", pod, err)
			reporter.Transition(pod, domain.PodStateDeleteError, opErr)
			continue
		}
		reporter.Transition(pod, domain.PodStateDeleted, nil)
		fmt.Fprintf(out, "  ✓ deleted %s\n", pod)
	}
	return nil
}

// sleep waits d on the service clock in short slices, returning early with
// the context error once ctx is done.
func (svc *Service) sleep(ctx context.Context, d time.Duration) error {
	clk := svc.clock()
	for d > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := min(d, sleepSlice)
		clk.Sleep(step)
		d -= step
	}
	return ctx.Err()
}
