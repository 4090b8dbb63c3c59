package types

// HealthResponse represents the JSON health response
type HealthResponse struct {
	Status      string       `json:"status"`
	Service     string       `json:"service"`
	Version     string       `json:"version"`
	Timestamp   string       `json:"timestamp"`
	CollectedAt string       `json:"collected_at,omitempty"`
	LastError   string       `json:"last_error,omitempty"`
	SystemInfo  SystemInfo   `json:"system_info"`
	PoolSummary PoolSummary  `json:"pool_summary"`
	Pools       []PoolHealth `json:"pools"`
	Anomalies   []string     `json:"anomalies,omitempty"`
}

// SystemInfo represents system information in JSON
type SystemInfo struct {
	Platform     string `json:"platform"`
	OS           string `json:"os"`
	ZpoolPath    string `json:"zpool_path,omitempty"`
	ZpoolVersion string `json:"zpool_version,omitempty"`
}

// PoolSummary provides a summary of pool and drive health
type PoolSummary struct {
	TotalPools     int `json:"total_pools"`
	HealthyPools   int `json:"healthy_pools"`
	DegradedPools  int `json:"degraded_pools"`
	TotalDrives    int `json:"total_drives"`
	HealthyDrives  int `json:"healthy_drives"`
	FailedDrives   int `json:"failed_drives"`
	AvailableSpare int `json:"available_spares"`
}

// PoolHealth represents individual pool health in JSON
type PoolHealth struct {
	Name      string        `json:"name"`
	State     string        `json:"state"`
	StateCode int           `json:"state_code"`
	Scrub     ScanHealth    `json:"scrub"`
	Resilver  ScanHealth    `json:"resilver"`
	Subpools  []SubpoolInfo `json:"subpools"`
	Spares    []DriveHealth `json:"spares,omitempty"`
}

// ScanHealth describes a scrub or resilver
type ScanHealth struct {
	Active           bool  `json:"active"`
	SecondsRemaining int64 `json:"seconds_remaining,omitempty"`
	LastCompleted    int64 `json:"last_completed,omitempty"`
}

// SubpoolInfo represents a redundancy group in JSON
type SubpoolInfo struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	State  string        `json:"state"`
	Drives []DriveHealth `json:"drives"`
}

// DriveHealth represents individual drive health in JSON
type DriveHealth struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	StateCode int    `json:"state_code"`
	Spare     bool   `json:"spare,omitempty"`
}
