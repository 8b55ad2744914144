package models

// EarlyAccessRequest is the JSON body of POST /api/early-access.
type EarlyAccessRequest struct {
	Email   string `json:"email"`
	Consent bool   `json:"consent"`
}

// EarlyAccessRecord is a captured lead.
type EarlyAccessRecord struct {
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	Consent   bool   `json:"consent"`
	Source    string `json:"source"`
	UserAgent string `json:"user_agent"`
}
