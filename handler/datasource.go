package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/catalog"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/models"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/utils"
	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Catalog is the set of catalog operations served over HTTP.
type Catalog interface {
	List(ctx context.Context) ([]repository.DataSource, error)
	Get(ctx context.Context, id string) (repository.DataSource, error)
	CreateAndIngest(ctx context.Context, name, url, description string) (repository.DataSource, catalog.IngestReport, error)
	Refresh(ctx context.Context, id string) (catalog.RefreshResult, error)
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, id string) (catalog.Table, error)
	Export(ctx context.Context, id string) (catalog.Table, error)
	Archive(ctx context.Context, id string) (catalog.ArchiveResult, error)
	Initialize(ctx context.Context, seeds []catalog.Seed) ([]catalog.SeedResult, error)
}

// RefreshQueue accepts asynchronous refresh requests.
type RefreshQueue interface {
	RequestRefresh(ctx context.Context, dataSourceID, requestID string) error
}

type DataSourceHandler struct {
	catalog Catalog
	queue   RefreshQueue
	router  *chi.Mux
}

// NewDataSourceHandler builds the /datasources routes. queue may be nil, in
// which case asynchronous refresh answers 503.
func NewDataSourceHandler(c Catalog, queue RefreshQueue) *DataSourceHandler {
	h := &DataSourceHandler{
		catalog: c,
		queue:   queue,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleListDataSources)
	r.Post("/", h.handleCreateDataSource)
	r.Get("/{id}", h.handleGetDataSource)
	r.Delete("/{id}", h.handleDeleteDataSource)
	r.Post("/{id}/refresh", h.handleRefreshDataSource)
	r.Get("/{id}/preview", h.handlePreviewDataSource)
	r.Get("/{id}/export", h.handleExportDataSource)
	r.Post("/{id}/archive", h.handleArchiveDataSource)

	h.router = r
	return h
}

func (h *DataSourceHandler) Router() *chi.Mux {
	return h.router
}

// handleListDataSources godoc
//
//	@Summary	List data sources
//	@Tags		datasources
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	200	{object}	models.BaseResponse{data=[]models.DataSource}
//	@Failure	500	{object}	models.ErrorResponse
//	@Router		/datasources [get]
func (h *DataSourceHandler) handleListDataSources(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewDataSources(list))
}

// handleCreateDataSource godoc
//
//	@Summary	Register a CSV data source and load its rows
//	@Tags		datasources
//	@Accept		json
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		body	body		models.CreateDataSourceRequest	true	"data source"
//	@Success	201		{object}	models.BaseResponse{data=models.CreateDataSourceResponse}
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	409		{object}	models.ErrorResponse
//	@Failure	500		{object}	models.ErrorResponse
//	@Router		/datasources [post]
func (h *DataSourceHandler) handleCreateDataSource(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDataSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	source, report, err := h.catalog.CreateAndIngest(r.Context(), req.Name, req.URL, req.Description)
	if err != nil {
		if source.ID != "" {
			log.Warn().Err(err).Str("dataSourceID", source.ID).Msg("Data source created without rows")
		}
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, models.CreateDataSourceResponse{
		DataSource: models.NewDataSource(source),
		Ingest:     report,
	})
}

// handleGetDataSource godoc
//
//	@Summary	Get a data source
//	@Tags		datasources
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id	path		string	true	"data source id"
//	@Success	200	{object}	models.BaseResponse{data=models.DataSource}
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/datasources/{id} [get]
func (h *DataSourceHandler) handleGetDataSource(w http.ResponseWriter, r *http.Request) {
	source, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.NewDataSource(source))
}

// handleDeleteDataSource godoc
//
//	@Summary	Delete a data source and its rows
//	@Tags		datasources
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id	path		string	true	"data source id"
//	@Success	200	{object}	models.BaseResponse
//	@Failure	404	{object}	models.ErrorResponse
//	@Failure	500	{object}	models.ErrorResponse
//	@Router		/datasources/{id} [delete]
func (h *DataSourceHandler) handleDeleteDataSource(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Data source deleted successfully")
}

// handleRefreshDataSource godoc
//
//	@Summary	Re-fetch the CSV and replace all rows
//	@Tags		datasources
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id		path		string	true	"data source id"
//	@Param		async	query		bool	false	"queue the refresh instead of waiting"
//	@Success	200		{object}	models.BaseResponse{data=models.RefreshResponse}
//	@Success	202		{object}	models.BaseResponse{data=models.RefreshQueuedResponse}
//	@Failure	400		{object}	models.ErrorResponse
//	@Failure	404		{object}	models.ErrorResponse
//	@Failure	409		{object}	models.ErrorResponse
//	@Failure	500		{object}	models.ErrorResponse
//	@Failure	503		{object}	models.ErrorResponse
//	@Router		/datasources/{id}/refresh [post]
func (h *DataSourceHandler) handleRefreshDataSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		h.queueRefresh(w, r, id)
		return
	}

	result, err := h.catalog.Refresh(r.Context(), id)
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, models.RefreshResponse{
		Message:      "Data source refreshed successfully",
		DataSource:   models.NewDataSource(result.DataSource),
		InsertedRows: result.InsertedCount,
		Ingest:       result.IngestReport,
	})
}

func (h *DataSourceHandler) queueRefresh(w http.ResponseWriter, r *http.Request, id string) {
	if h.queue == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "Async refresh is not available")
		return
	}

	if _, err := h.catalog.Get(r.Context(), id); err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if err := h.queue.RequestRefresh(r.Context(), id, requestID); err != nil {
		log.Error().Err(err).Str("dataSourceID", id).Msg("Failed to queue refresh")
		utils.WriteError(w, http.StatusServiceUnavailable, "Failed to queue refresh")
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, models.RefreshQueuedResponse{
		Message:      "Refresh queued",
		DataSourceID: id,
		RequestID:    requestID,
	})
}

// handlePreviewDataSource godoc
//
//	@Summary	First rows of a data source
//	@Tags		datasources
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id	path		string	true	"data source id"
//	@Success	200	{object}	models.BaseResponse{data=catalog.Table}
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/datasources/{id}/preview [get]
func (h *DataSourceHandler) handlePreviewDataSource(w http.ResponseWriter, r *http.Request) {
	table, err := h.catalog.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, table)
}

// handleExportDataSource godoc
//
//	@Summary	Download all rows as CSV
//	@Tags		datasources
//	@Produce	text/csv
//	@Security	ApiKeyAuth
//	@Param		id	path		string	true	"data source id"
//	@Success	200	{file}		file
//	@Failure	404	{object}	models.ErrorResponse
//	@Router		/datasources/{id}/export [get]
func (h *DataSourceHandler) handleExportDataSource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	table, err := h.catalog.Export(r.Context(), id)
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+catalog.ExportFilename(id)+`"`)
	w.WriteHeader(http.StatusOK)
	if err := table.WriteCSV(w); err != nil {
		log.Error().Err(err).Str("dataSourceID", id).Msg("Failed to write export")
	}
}

// handleArchiveDataSource godoc
//
//	@Summary	Upload the CSV export to object storage
//	@Tags		datasources
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id	path		string	true	"data source id"
//	@Success	201	{object}	models.BaseResponse{data=catalog.ArchiveResult}
//	@Failure	404	{object}	models.ErrorResponse
//	@Failure	503	{object}	models.ErrorResponse
//	@Router		/datasources/{id}/archive [post]
func (h *DataSourceHandler) handleArchiveDataSource(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteCatalogError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, result)
}
