package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/susu3304/classbot/internal/model"
)

const requestTimeout = 3 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type statsResponse struct {
	Developers int `json:"developers"`
	Teachers   int `json:"teachers"`
	Parents    int `json:"parents"`
	Pending    int `json:"pending"`
	Total      int `json:"total"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK
	if err := a.db.Ping(ctx); err != nil {
		slog.Warn("health check: database unreachable", "err", err)
		resp = healthResponse{Status: "degraded", Database: "unreachable"}
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	counts, err := a.roles.Counts(ctx)
	if err != nil {
		slog.Error("failed to count participants", "err", err)
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	resp := statsResponse{
		Developers: counts[model.RoleDeveloper],
		Teachers:   counts[model.RoleTeacher],
		Parents:    counts[model.RoleParent],
		Pending:    counts[model.RolePending],
	}
	for _, n := range counts {
		resp.Total += n
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("failed to write response", "err", err)
	}
}
