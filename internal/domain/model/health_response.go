package model

import "time"

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
	// StatusUnknown marks a component that is not configured, such as redis when disabled
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ComponentHealthStatus is the health of one dependency
type ComponentHealthStatus struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    HealthStatus          `json:"status"`
	CheckedAt time.Time             `json:"checked_at"`
	Database  ComponentHealthStatus `json:"database"`
	Queue     ComponentHealthStatus `json:"queue"`
	Cache     ComponentHealthStatus `json:"cache"`
	Sessions  ComponentHealthStatus `json:"sessions"`
}

// Overall is DOWN when any component is DOWN, otherwise UP
func Overall(components ...ComponentHealthStatus) HealthStatus {
	for _, component := range components {
		if component.Status == StatusDown {
			return StatusDown
		}
	}
	return StatusUp
}
