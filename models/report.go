package models

// PageMetrics holds the two view counters of one tracked page.
type PageMetrics struct {
	ViewsTotal  int `json:"views_total"`
	ViewsUnique int `json:"views_unique"`
}

// PageMetricsEntry pairs a page with its metrics, keeping the configured
// page order for rendering.
type PageMetricsEntry struct {
	Page string `json:"page"`
	PageMetrics
}

// MetricsSnapshot is the per-page view counters plus the global click counter.
type MetricsSnapshot struct {
	Pages  []PageMetricsEntry `json:"pages"`
	Clicks int                `json:"clicks"`
}

// AdminReport is the read-only composition served by the admin page.
type AdminReport struct {
	Metrics          MetricsSnapshot     `json:"metrics"`
	SurveyStats      SurveyStats         `json:"survey_stats"`
	LastResponses    []SurveyRecord      `json:"last_responses"`
	EarlyAccessTotal int                 `json:"early_access_total"`
	EarlyAccessLast  []EarlyAccessRecord `json:"early_access_last"`
}
