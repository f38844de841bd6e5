package handlers

import (
	"net/http"

	"docextract/internal/config"
	"docextract/internal/service"
)

// ProfilesHandler lists the extraction profiles.
type ProfilesHandler struct {
	extractService service.ExtractService
}

// NewProfilesHandler creates a new ProfilesHandler.
func NewProfilesHandler(extractService service.ExtractService) *ProfilesHandler {
	return &ProfilesHandler{extractService: extractService}
}

// ProfilesResponse represents the profile list response.
type ProfilesResponse struct {
	Profiles []config.Profile `json:"profiles"`
}

// ServeHTTP handles GET /profiles.
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), ProfilesResponse{Profiles: h.extractService.Profiles()})
}
