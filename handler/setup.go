package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/catalog"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/config"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/models"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/utils"
	"github.com/samber/lo"
)

// Initializer loads a list of seed sources.
type Initializer interface {
	Initialize(ctx context.Context, seeds []catalog.Seed) ([]catalog.SeedResult, error)
}

// SetupHandler serves database bootstrap helpers.
type SetupHandler struct {
	initializer Initializer
	seeds       []catalog.Seed
	schema      string
}

func NewSetupHandler(initializer Initializer, seeds []config.SeedSource, schema string) *SetupHandler {
	return &SetupHandler{
		initializer: initializer,
		seeds: lo.Map(seeds, func(s config.SeedSource, _ int) catalog.Seed {
			return catalog.Seed{Name: s.Name, URL: s.URL, Description: s.Description}
		}),
		schema: schema,
	}
}

// HandleInitialize godoc
//
//	@Summary	Load the configured seed data sources
//	@Tags		setup
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	200	{object}	models.BaseResponse{data=models.InitializeResponse}
//	@Failure	500	{object}	models.ErrorResponse
//	@Router		/initialize [post]
func (h *SetupHandler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	results, err := h.initializer.Initialize(r.Context(), h.seeds)
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	created := lo.CountBy(results, func(res catalog.SeedResult) bool {
		return res.Status == catalog.SeedSuccess
	})

	utils.WriteJSON(w, http.StatusOK, models.InitializeResponse{
		Success: true,
		Message: fmt.Sprintf("Initialization completed: %d of %d data sources loaded", created, len(results)),
		Results: results,
	})
}

// HandleSetup godoc
//
//	@Summary	SQL schema for the catalog tables
//	@Tags		setup
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	200	{object}	models.BaseResponse{data=models.SetupResponse}
//	@Router		/setup [get]
func (h *SetupHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, models.SetupResponse{
		Message: "Run this SQL against the database to create the catalog tables",
		SQL:     h.schema,
	})
}
