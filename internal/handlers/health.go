package handlers

import "net/http"

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Health reports liveness together with the running version.
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: "calculator",
			Version: version,
		})
	}
}

// Root describes the API for clients that hit "/".
func Root(appName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"message": appName + " API",
			"docs":    "/operations",
		})
	}
}
