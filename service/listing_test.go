package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 {
	return &v
}

func TestListPodsSortedRows(t *testing.T) {
	provider := domain.NewMockPodProvider(t)
	provider.EXPECT().FetchPods(mock.Anything).Return([]*domain.Pod{
		{
			ID:               "p2",
			Name:             "zeta",
			DesiredStatus:    domain.PodStatusRunning,
			CostPerHr:        float(0.44),
			LastStatusChange: "Rented by User: Tue Jun 04 2024 10:00:00 GMT+0000 (Coordinated Universal Time)",
			Machine:          &domain.PodMachine{GPUDisplayName: "RTX 4090"},
			Runtime: &domain.PodRuntime{Ports: []domain.PodPort{
				{IP: "10.0.0.2", IsIPPublic: false, PublicPort: 22, Type: "tcp"},
				{IP: "203.0.113.7", IsIPPublic: true, PublicPort: 8888, Type: "http"},
				{IP: "203.0.113.7", IsIPPublic: true, PublicPort: 40022, Type: "tcp"},
			}},
		},
		nil,
		{ID: "p1", Name: "alpha", DesiredStatus: domain.PodStatusExited, Ports: "8888/http,22/tcp"},
	}, nil).Once()

	svc := &Service{Provider: provider}
	rows, err := svc.ListPods(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.PodRow{
		Name:          "alpha",
		ID:            "p1",
		PublicIP:      "N/A",
		SSHPort:       "22",
		CostPerHr:     "$0.00",
		Status:        "N/A",
		StatusTime:    "N/A",
		DesiredStatus: domain.PodStatusExited,
		GPU:           "N/A",
	}, rows[0])
	assert.Equal(t, domain.PodRow{
		Name:          "zeta",
		ID:            "p2",
		PublicIP:      "203.0.113.7",
		SSHPort:       "40022",
		CostPerHr:     "$0.44",
		Status:        "Rented by User",
		StatusTime:    "Tue Jun 04 2024 10:00:00",
		DesiredStatus: domain.PodStatusRunning,
		GPU:           "RTX 4090",
	}, rows[1])
}

func TestListPodsFetchError(t *testing.T) {
	provider := domain.NewMockPodProvider(t)
	provider.EXPECT().FetchPods(mock.Anything).
		Return(nil, errs.NewProviderError("fetch pods", http.StatusForbidden, "forbidden", nil)).Once()

	svc := &Service{Provider: provider}
	_, err := svc.ListPods(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrMissingCredential)
}

func TestPublicEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		pod      *domain.Pod
		wantIP   string
		wantPort string
	}{
		{name: "no runtime no ports", pod: &domain.Pod{}, wantIP: "N/A", wantPort: "N/A"},
		{name: "port list without ssh", pod: &domain.Pod{Ports: "8888/http"}, wantIP: "N/A", wantPort: "N/A"},
		{
			name:     "public tcp without address",
			pod:      &domain.Pod{Runtime: &domain.PodRuntime{Ports: []domain.PodPort{{IsIPPublic: true, Type: "tcp"}}}},
			wantIP:   "N/A",
			wantPort: "N/A",
		},
		{
			name: "private only falls back to port list",
			pod: &domain.Pod{
				Ports:   "22/tcp",
				Runtime: &domain.PodRuntime{Ports: []domain.PodPort{{IP: "10.0.0.2", PublicPort: 22, Type: "tcp"}}},
			},
			wantIP:   "N/A",
			wantPort: "22",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, port := publicEndpoint(tt.pod)
			assert.Equal(t, tt.wantIP, ip)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestSplitStatusChange(t *testing.T) {
	status, at := splitStatusChange("Exited by User: Mon Jun 03 2024 08:15:00 GMT+0000")
	assert.Equal(t, "Exited by User", status)
	assert.Equal(t, "Mon Jun 03 2024 08:15:00", at)

	status, at = splitStatusChange("Created")
	assert.Equal(t, "Created", status)
	assert.Equal(t, "N/A", at)

	status, at = splitStatusChange("")
	assert.Equal(t, "N/A", status)
	assert.Equal(t, "N/A", at)
}
