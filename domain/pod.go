package domain

import "time"

// PodStatus is the provider's desired status of a pod. Only RUNNING and
// EXITED carry meaning here; any other value is kept as reported.
type PodStatus string

const (
	PodStatusRunning PodStatus = "RUNNING"
	PodStatusExited  PodStatus = "EXITED"
)

// Pod is a read-only snapshot of a remote compute instance as reported by the provider
type Pod struct {
	ID               string      `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	DesiredStatus    PodStatus   `json:"desiredStatus" yaml:"desiredStatus"`
	CostPerHr        *float64    `json:"costPerHr,omitempty" yaml:"costPerHr,omitempty"`
	LastStatusChange string      `json:"lastStatusChange,omitempty" yaml:"lastStatusChange,omitempty"`
	ImageName        string      `json:"imageName,omitempty" yaml:"imageName,omitempty"`
	Ports            string      `json:"ports,omitempty" yaml:"ports,omitempty"` // e.g. "22/tcp,8888/http"
	Machine          *PodMachine `json:"machine,omitempty" yaml:"machine,omitempty"`
	Runtime          *PodRuntime `json:"runtime,omitempty" yaml:"runtime,omitempty"` // nil unless the pod is running
}

func (p *Pod) String() string {
	return p.Name + " (ID: " + p.ID + ")"
}

func (p *Pod) IsRunning() bool {
	return p.DesiredStatus == PodStatusRunning
}

func (p *Pod) IsExited() bool {
	return p.DesiredStatus == PodStatusExited
}

// PodMachine describes the host a pod was scheduled on
type PodMachine struct {
	GPUDisplayName string `json:"gpuDisplayName,omitempty" yaml:"gpuDisplayName,omitempty"`
}

// PodRuntime is the live runtime metadata of a running pod
type PodRuntime struct {
	UptimeInSeconds int64     `json:"uptimeInSeconds,omitempty" yaml:"uptimeInSeconds,omitempty"`
	Ports           []PodPort `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// PodPort is a single exposed port of a running pod
type PodPort struct {
	IP          string `json:"ip,omitempty" yaml:"ip,omitempty"`
	IsIPPublic  bool   `json:"isIpPublic" yaml:"isIpPublic"`
	PrivatePort int    `json:"privatePort,omitempty" yaml:"privatePort,omitempty"`
	PublicPort  int    `json:"publicPort,omitempty" yaml:"publicPort,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
}

// PodRow is the flattened, display-ready view of a pod used by the pod listing
type PodRow struct {
	Name          string    `json:"name" yaml:"name"`
	ID            string    `json:"id" yaml:"id"`
	PublicIP      string    `json:"publicIP" yaml:"publicIP"`
	SSHPort       string    `json:"sshPort" yaml:"sshPort"`
	CostPerHr     string    `json:"costPerHr" yaml:"costPerHr"`
	Status        string    `json:"status" yaml:"status"`
	StatusTime    string    `json:"statusTime" yaml:"statusTime"`
	DesiredStatus PodStatus `json:"desiredStatus" yaml:"desiredStatus"`
	GPU           string    `json:"gpu" yaml:"gpu"`
}

// PodIndex maps pod IDs to a single inventory snapshot
type PodIndex map[string]*Pod

func NewPodIndex(pods []*Pod) PodIndex {
	idx := make(PodIndex, len(pods))
	for _, pod := range pods {
		if pod == nil || pod.ID == "" {
			continue
		}
		idx[pod.ID] = pod
	}
	return idx
}

// PollRound is the classification of stop-requested pods in one poll of the inventory
type PollRound struct {
	At      time.Time
	Stopped []string
	Running []string
	Unknown []string
}

func (r PollRound) AllStopped(total int) bool {
	return len(r.Stopped) == total
}
