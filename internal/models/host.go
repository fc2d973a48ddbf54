package models

import "time"

// HostFacts describes the host for startup and status messages
type HostFacts struct {
	Hostname string        `json:"hostname"`
	OS       string        `json:"os"`
	Uptime   time.Duration `json:"uptime"`
}
