package service

import "github.com/arenainfra/podctl/domain"

// SelectTargets returns the running pods that survive the name filters, in
// input order. Excluded names are dropped first; a non-empty include list then
// acts as a whitelist, so a name on both lists is never selected.
func SelectTargets(pods []*domain.Pod, include, exclude []string) []*domain.Pod {
	excluded := toSet(exclude)
	included := toSet(include)

	targets := make([]*domain.Pod, 0, len(pods))
	for _, pod := range pods {
		if pod == nil || !pod.IsRunning() {
			continue
		}
		if _, ok := excluded[pod.Name]; ok {
			continue
		}
		if len(included) > 0 {
			if _, ok := included[pod.Name]; !ok {
				continue
			}
		}
		targets = append(targets, pod)
	}
	return targets
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
