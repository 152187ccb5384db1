package api

import "strings"

// Service mirrors one entry of /api/status.
type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Port     string `json:"port"`
	RAMUsage string `json:"ram_usage"`
	CPUUsage string `json:"cpu_usage"`
	NetUsage string `json:"net_usage"`
}

// Running reports whether the container is up.
func (s Service) Running() bool {
	return strings.EqualFold(strings.TrimSpace(s.Status), "running")
}

// DisplayName returns the name, falling back to the id.
func (s Service) DisplayName() string {
	name := strings.TrimPrefix(strings.TrimSpace(s.Name), "/")
	if name == "" {
		return s.ID
	}
	return name
}

// LoginResponse mirrors /api/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LogsResponse mirrors /api/containers/{id}/logs.
type LogsResponse struct {
	Logs string `json:"logs"`
}

// ExecRequest is the body of /api/containers/{id}/exec.
type ExecRequest struct {
	Command string `json:"command"`
}

// ExecResult mirrors the exec response.
type ExecResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode int    `json:"returncode"`
}

// StackSummary is one row of /api/v2/stacks.
type StackSummary struct {
	StackID         string `json:"stack_id"`
	DisplayName     string `json:"display_name"`
	ContainersCount int    `json:"containers_count"`
	Status          string `json:"status"`
	LongestUptime   string `json:"longest_uptime"`
	CPUAvg          string `json:"cpu_avg"`
	RAMTotalUsed    string `json:"ram_total_used"`
	RAMHostTotal    string `json:"ram_host_total"`
}

// StackListResponse mirrors /api/v2/stacks.
type StackListResponse struct {
	Stacks []StackSummary `json:"stacks"`
}

// ContainerInfo is a container inside a stack detail.
type ContainerInfo struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	State   string          `json:"state"`
	Uptime  string          `json:"uptime"`
	CPU     string          `json:"cpu"`
	RAM     string          `json:"ram"`
	Net     string          `json:"net"`
	Ports   []string        `json:"ports"`
	Actions map[string]bool `json:"actions"`
}

// Can reports whether the backend allows action ("logs", "exec", ...). A
// missing actions map allows everything.
func (c ContainerInfo) Can(action string) bool {
	if c.Actions == nil {
		return true
	}
	allowed, ok := c.Actions["can_"+action]
	return !ok || allowed
}

// StackDetailSummary aggregates a stack's metrics.
type StackDetailSummary struct {
	ContainersCount int    `json:"containers_count"`
	CPUAvg          string `json:"cpu_avg"`
	RAMTotalUsed    string `json:"ram_total_used"`
	RAMHostTotal    string `json:"ram_host_total"`
}

// StackDetail mirrors /api/v2/stacks/{id}.
type StackDetail struct {
	StackID     string             `json:"stack_id"`
	DisplayName string             `json:"display_name"`
	Summary     StackDetailSummary `json:"summary"`
	Containers  []ContainerInfo    `json:"containers"`
}

type errorBody struct {
	Detail string `json:"detail"`
}
