package web

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/camsops/supportdesk-app/supportdesk/api"
	"github.com/camsops/supportdesk-app/supportdesk/logging"
	"github.com/camsops/supportdesk-app/supportdesk/models"
	"github.com/camsops/supportdesk-app/supportdesk/monitoring"
)

func NewAPIRouter(repo models.Repository, db *sql.DB) http.Handler {
	r := chi.NewRouter()
	m := monitoring.GetMonitor()
	h := api.NewHandler(repo, db)

	r.Use(middleware.RequestID, logging.NewStructuredLogger(), SecurityHeader, ConnectionClose)

	r.Route("/api", func(r chi.Router) {
		r.Get(m.WrapHandler("/incharges", h.GetIncharges))
		r.Post(m.WrapHandler("/support-logs", h.SubmitLog))
		r.Get(m.WrapHandler("/support-logs/{logType}", h.GetSupportLogs))
		r.Put(m.WrapHandler("/support-logs/{logType}/{id}", h.UpdateSupportLog))
	})
	r.Get(m.WrapHandler("/_version", h.GetVersion))
	r.Get(m.WrapHandler("/_health", h.HealthCheck))
	return r
}
