package handlers

import (
	"net/http"

	"github.com/cloo-solutions/supporthub/internal/api"
)

const (
	ServiceName    = "Intelligent Support Hub API"
	ServiceVersion = "1.0.0"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: ServiceName})
}

func Index(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, IndexResponse{
		Message: ServiceName,
		Version: ServiceVersion,
		Endpoints: map[string]string{
			"chat":      "/chat",
			"ticket":    "/ticket",
			"upload":    "/upload-document",
			"health":    "/health",
			"search":    "/search",
			"documents": "/documents",
			"tickets":   "/tickets",
			"analytics": "/analytics",
			"metrics":   "/metrics",
		},
	})
}
