package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Conversion
	mux.HandleFunc("/api/convert", s.app.ConvertHandler.ConvertHandler)    // POST - PDF to text/xlsx
	mux.HandleFunc("/api/metadata", s.app.MetadataHandler.MetadataHandler) // POST - document metadata probe

	// API routes - Service info
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)       // GET - service status
	mux.HandleFunc("/api/languages", s.app.StatusHandler.GetLanguagesHandler) // GET - supported languages

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Unknown API paths get a JSON 404 instead of the default page
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path != "/" {
			s.app.APIHandler.NotFoundHandler(w, r)
			return
		}
		s.app.APIHandler.HealthHandler(w, r)
	})

	return mux
}
