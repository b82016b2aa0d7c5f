package service

import (
	"testing"

	"github.com/arenainfra/podctl/domain"
	"github.com/stretchr/testify/assert"
)

func pod(id, name string, status domain.PodStatus) *domain.Pod {
	return &domain.Pod{ID: id, Name: name, DesiredStatus: status}
}

func names(pods []*domain.Pod) []string {
	result := make([]string, 0, len(pods))
	for _, p := range pods {
		result = append(result, p.Name)
	}
	return result
}

func TestSelectTargets(t *testing.T) {
	inventory := []*domain.Pod{
		pod("1", "alpha", domain.PodStatusRunning),
		pod("2", "beta", domain.PodStatusExited),
		pod("3", "gamma", domain.PodStatusRunning),
		nil,
		pod("4", "delta", "CREATED"),
		pod("5", "epsilon", domain.PodStatusRunning),
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{name: "all running", want: []string{"alpha", "gamma", "epsilon"}},
		{name: "exclude", exclude: []string{"gamma"}, want: []string{"alpha", "epsilon"}},
		{name: "include", include: []string{"epsilon", "alpha"}, want: []string{"alpha", "epsilon"}},
		{name: "include names a stopped pod", include: []string{"beta"}, want: []string{}},
		{name: "exclude wins over include", include: []string{"alpha", "gamma"}, exclude: []string{"alpha"}, want: []string{"gamma"}},
		{name: "unknown names", include: []string{"zeta"}, exclude: []string{"omega"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectTargets(inventory, tt.include, tt.exclude)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestSelectTargetsNeverReturnsExcluded(t *testing.T) {
	inventory := []*domain.Pod{
		pod("1", "a", domain.PodStatusRunning),
		pod("2", "b", domain.PodStatusRunning),
		pod("3", "c", domain.PodStatusRunning),
	}
	lists := [][]string{nil, {"a"}, {"b", "c"}, {"a", "b", "c"}, {"x"}}
	for _, include := range lists {
		for _, exclude := range lists {
			excluded := toSet(exclude)
			for _, p := range SelectTargets(inventory, include, exclude) {
				_, bad := excluded[p.Name]
				assert.False(t, bad, "include=%v exclude=%v selected %s", include, exclude, p.Name)
				assert.True(t, p.IsRunning())
			}
		}
	}
}

func TestSelectTargetsDuplicateNames(t *testing.T) {
	inventory := []*domain.Pod{
		pod("1", "worker", domain.PodStatusRunning),
		pod("2", "worker", domain.PodStatusRunning),
	}
	got := SelectTargets(inventory, []string{"worker"}, nil)
	assert.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}
