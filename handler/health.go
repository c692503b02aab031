package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/utils"
	"github.com/go-chi/chi/v5"
)

// DatabaseProbe reports database reachability and pool statistics.
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() map[string]interface{}
}

type HealthHandler struct {
	db     DatabaseProbe
	router *chi.Mux
}

func NewHealthHandler(db DatabaseProbe) *HealthHandler {
	h := &HealthHandler{
		db: db,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleHealthCheck)
	r.Get("/database", h.handleDatabaseHealth)

	h.router = r
	return h
}

func (h *HealthHandler) Router() *chi.Mux {
	return h.router
}

// handleHealthCheck godoc
//
//	@Summary	Service liveness
//	@Tags		health
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	200	{object}	models.BaseResponse
//	@Router		/health [get]
func (h *HealthHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "datasource-catalog-service",
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// handleDatabaseHealth godoc
//
//	@Summary	Database connectivity and pool statistics
//	@Tags		health
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	200	{object}	models.BaseResponse
//	@Failure	503	{object}	models.BaseResponse
//	@Router		/health/database [get]
func (h *HealthHandler) handleDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	database := map[string]interface{}{
		"status": "healthy",
		"stats":  h.db.Stats(),
	}
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"database":  database,
	}

	if err := h.db.Ping(ctx); err != nil {
		response["status"] = "unhealthy"
		database["status"] = "unhealthy"
		database["error"] = err.Error()
		utils.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	utils.WriteJSON(w, http.StatusOK, response)
}
