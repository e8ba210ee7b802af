package api

// ErrorResponse is returned for failures outside the command envelope, such
// as unknown routes.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string                  `json:"status"`
	Details map[string]any          `json:"details,omitempty"`
	Modules map[string]ModuleHealth `json:"modules,omitempty"`
}

// ModuleHealth is the health of one watched module.
type ModuleHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}
