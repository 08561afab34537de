package scheme

// PluginSummary is one entry of the `/v3/plugin` listing.
type PluginSummary struct {
	Name        string `json:"name"`
	Maintainer  string `json:"maintainer"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	ID          string `json:"id"`
	Active      bool   `json:"active"`
}

// Plugin is the full plugin record from `/v3/plugin/{id}`.
type Plugin struct {
	PluginSummary

	VCS     string        `json:"vcs"`
	Network PluginNetwork `json:"network"`
	Version PluginVersion `json:"version"`
	Health  HealthStatus  `json:"health"`
}

// PluginNetwork describes how the server reaches a plugin.
type PluginNetwork struct {
	Address  string `json:"address"`
	Protocol string `json:"protocol"`
}

// PluginVersion is the build information a plugin reports about itself.
type PluginVersion struct {
	PluginVersion string `json:"plugin_version"`
	SDKVersion    string `json:"sdk_version"`
	BuildDate     string `json:"build_date"`
	GitCommit     string `json:"git_commit"`
	GitTag        string `json:"git_tag"`
	Arch          string `json:"arch"`
	OS            string `json:"os"`
}

// HealthStatus is the health summary of a single plugin.
type HealthStatus struct {
	Timestamp string        `json:"timestamp"`
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Checks    []HealthCheck `json:"checks"`
}

// HealthCheck is one health probe result within a plugin's health status.
type HealthCheck struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// PluginHealth is the response for `/v3/plugin/health`: an aggregate view
// over every plugin currently registered with the server.
type PluginHealth struct {
	Status    string   `json:"status"`
	Updated   string   `json:"updated"`
	Healthy   []string `json:"healthy"`
	Unhealthy []string `json:"unhealthy"`
	Active    int      `json:"active"`
	Inactive  int      `json:"inactive"`
}

// IsHealthy reports whether the aggregate plugin health is "healthy".
func (p *PluginHealth) IsHealthy() bool {
	return p.Status == "healthy"
}
