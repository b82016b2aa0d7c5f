package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/arenainfra/podctl/domain"
	"github.com/arenainfra/podctl/pkg/logger"
	"github.com/pkg/errors"
)

const (
	notAvailable   = "N/A"
	defaultSSHPort = "22"
	sshPortSpec    = "22/tcp"
)

// ListPods returns one display row per pod, sorted by name.
func (svc *Service) ListPods(ctx context.Context) ([]domain.PodRow, error) {
	pods, err := svc.Provider.FetchPods(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "fetch pods")
	}
	rows := make([]domain.PodRow, 0, len(pods))
	for _, pod := range pods {
		if pod == nil {
			continue
		}
		rows = append(rows, NewPodRow(pod))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	logger.Logger(ctx).Debug().Msgf("listing %d pods", len(rows))
	return rows, nil
}

// NewPodRow flattens a pod into its listing row.
func NewPodRow(pod *domain.Pod) domain.PodRow {
	ip, port := publicEndpoint(pod)
	status, statusTime := splitStatusChange(pod.LastStatusChange)

	row := domain.PodRow{
		Name:          pod.Name,
		ID:            pod.ID,
		PublicIP:      ip,
		SSHPort:       port,
		CostPerHr:     "$0.00",
		Status:        status,
		StatusTime:    statusTime,
		DesiredStatus: pod.DesiredStatus,
		GPU:           notAvailable,
	}
	if row.Name == "" {
		row.Name = notAvailable
	}
	if pod.CostPerHr != nil {
		row.CostPerHr = "$" + strconv.FormatFloat(*pod.CostPerHr, 'f', -1, 64)
	}
	if pod.Machine != nil && pod.Machine.GPUDisplayName != "" {
		row.GPU = pod.Machine.GPUDisplayName
	}
	return row
}

// publicEndpoint picks the first public TCP port of the runtime. Without one,
// a pod whose port list exposes 22/tcp is shown on port 22 with no address.
func publicEndpoint(pod *domain.Pod) (string, string) {
	if pod.Runtime != nil {
		for _, p := range pod.Runtime.Ports {
			if p.Type != "tcp" || !p.IsIPPublic {
				continue
			}
			ip, port := notAvailable, notAvailable
			if p.IP != "" {
				ip = p.IP
			}
			if p.PublicPort != 0 {
				port = strconv.Itoa(p.PublicPort)
			}
			return ip, port
		}
	}
	if strings.Contains(pod.Ports, sshPortSpec) {
		return notAvailable, defaultSSHPort
	}
	return notAvailable, notAvailable
}

// splitStatusChange turns "Rented by User: Tue Jun 04 2024 10:00:00 GMT+0000 (...)"
// into ("Rented by User", "Tue Jun 04 2024 10:00:00").
func splitStatusChange(change string) (string, string) {
	if change == "" {
		return notAvailable, notAvailable
	}
	status, rest, found := strings.Cut(change, ": ")
	if !found {
		return change, notAvailable
	}
	statusTime, _, _ := strings.Cut(rest, " GMT")
	return status, statusTime
}
