package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/camsops/supportdesk-app/log"
	"github.com/camsops/supportdesk-app/supportdesk/constants"
	"github.com/camsops/supportdesk-app/supportdesk/ingest"
	"github.com/camsops/supportdesk-app/supportdesk/models"
)

// defaultLogLimit caps list responses; the frontend pages client-side.
const defaultLogLimit = 500

// updatableColumns are the columns the update endpoint may touch. Everything
// else on a record is derived from the submitted text and immutable.
var updatableColumns = map[string]struct{}{
	"status":      {},
	"delay_cause": {},
	"remarks":     {},
}

type Handler struct {
	repo     models.Repository
	importer *ingest.Importer
	db       *sql.DB
}

func NewHandler(repo models.Repository, db *sql.DB) *Handler {
	return &Handler{
		repo: repo,
		importer: &ingest.Importer{
			Logger:     log.Ingest,
			Repository: repo,
		},
		db: db,
	}
}

type submitLogRequest struct {
	InchargeID int    `json:"inchargeId"`
	LogData    string `json:"logData"`
}

func (h *Handler) GetIncharges(w http.ResponseWriter, r *http.Request) {
	incharges, err := h.repo.GetIncharges(r.Context())
	if err != nil {
		log.API.Error(errors.Wrap(err, "failed to fetch incharges"))
		jsonError(w, r, http.StatusInternalServerError, "Failed to fetch incharges.")
		return
	}
	if incharges == nil {
		incharges = []models.ResponsibleIncharge{}
	}
	render.JSON(w, r, incharges)
}

func (h *Handler) SubmitLog(w http.ResponseWriter, r *http.Request) {
	var req submitLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, r, http.StatusBadRequest, "Request body cannot be parsed")
		return
	}
	if req.InchargeID == 0 || req.LogData == "" {
		jsonError(w, r, http.StatusBadRequest, "Incharge and Log Data are required")
		return
	}

	result, err := h.importer.SubmitLogData(r.Context(), req.InchargeID, req.LogData)
	if err != nil {
		if errors.Is(err, ingest.ErrInchargeNotFound) {
			jsonError(w, r, http.StatusNotFound, "Selected Incharge not found.")
			return
		}
		log.API.Error(errors.Wrap(err, "failed to process submission"))
		jsonError(w, r, http.StatusInternalServerError, "Failed to process log data.")
		return
	}

	if len(result.Results) == 0 {
		if len(result.Errors) > 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]interface{}{
				"error":   "Failed to process any log entries.",
				"details": result.Errors,
			})
			return
		}
		jsonError(w, r, http.StatusBadRequest,
			"No valid log entries found. Please ensure your data follows the required format.")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

func (h *Handler) GetSupportLogs(w http.ResponseWriter, r *http.Request) {
	logType, ok := models.LogTypeFromSlug(chi.URLParam(r, "logType"))
	if !ok {
		jsonError(w, r, http.StatusBadRequest, "Invalid log type.")
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			jsonError(w, r, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = parsed
	}

	logs, err := h.repo.GetSupportLogs(r.Context(), logType, limit)
	if err != nil {
		log.API.Error(errors.Wrapf(err, "failed to fetch %s logs", logType))
		jsonError(w, r, http.StatusInternalServerError, "Failed to fetch logs.")
		return
	}
	if logs == nil {
		logs = []models.SupportLogView{}
	}
	render.JSON(w, r, logs)
}

func (h *Handler) UpdateSupportLog(w http.ResponseWriter, r *http.Request) {
	logType, ok := models.LogTypeFromSlug(chi.URLParam(r, "logType"))
	if !ok {
		jsonError(w, r, http.StatusBadRequest, "Invalid log type.")
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, r, http.StatusBadRequest, "Invalid log id.")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, r, http.StatusBadRequest, "Request body cannot be parsed")
		return
	}

	fieldsAndValues := make(map[string]interface{})
	for field, value := range body {
		if _, ok := updatableColumns[field]; ok {
			fieldsAndValues[field] = value
		}
	}
	if len(fieldsAndValues) == 0 {
		jsonError(w, r, http.StatusBadRequest, "No updatable fields provided.")
		return
	}

	if err := h.repo.UpdateSupportLog(r.Context(), logType, uint(id), fieldsAndValues); err != nil {
		log.API.Error(errors.Wrapf(err, "failed to update %s log %d", logType, id))
		jsonError(w, r, http.StatusNotFound, "Log entry not found.")
		return
	}

	render.JSON(w, r, map[string]string{"message": "Log entry updated."})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			log.API.Error(errors.Wrap(err, "health check ping failed"))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, map[string]string{"database": "error"})
			return
		}
	}
	render.JSON(w, r, map[string]string{"database": "ok"})
}

func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": constants.Version})
}

func jsonError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
