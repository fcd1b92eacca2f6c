package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rzbill/coinlog/internal/runtime"
)

// GeneralController serves the health endpoint.
type GeneralController struct {
	rt *runtime.Runtime
}

func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

func (c *GeneralController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/healthz", c.handleHealth).Methods(http.MethodGet)
}

// handleHealth returns 200 {"status":"ok"} or 503 when a backend is down.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_serving", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
