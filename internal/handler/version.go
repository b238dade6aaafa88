package handler

import "net/http"

// VersionResponse identifies the running build
type VersionResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// VersionHandler serves build information
type VersionHandler struct {
	info VersionResponse
}

// NewVersionHandler creates a version handler for the given build info
func NewVersionHandler(service, version, environment string) *VersionHandler {
	return &VersionHandler{info: VersionResponse{
		Service:     service,
		Version:     version,
		Environment: environment,
	}}
}

// HandleVersion returns the build information
func (h *VersionHandler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.info)
}
