package model

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Languages []string `json:"languages"` // UI languages served, default first
}
