package models

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// VersionResponse is returned by the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"build_date,omitempty"`
	Commit  string `json:"build_commit,omitempty"`
}
