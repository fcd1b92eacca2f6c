package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rzbill/coinlog/internal/runtime"
	"github.com/rzbill/coinlog/internal/server/views"
	scoresvc "github.com/rzbill/coinlog/internal/services/scores"
)

// ScoresController handles snapshots and best-score reads.
type ScoresController struct {
	rt  *runtime.Runtime
	svc *scoresvc.Service
}

func NewScoresController(rt *runtime.Runtime, svc *scoresvc.Service) *ScoresController {
	return &ScoresController{rt: rt, svc: svc}
}

func (c *ScoresController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/snapshots", c.handleSnapshot).Methods(http.MethodPost)
	r.HandleFunc("/v1/players/{id}/best", c.handleBest).Methods(http.MethodGet)
	r.HandleFunc("/v1/scores/best", c.handleReport).Methods(http.MethodGet)
}

// handleSnapshot echoes the stored record and its storage key.
func (c *ScoresController) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	snap, err := c.rt.Validator().Snapshot(body)
	if err != nil {
		fail(w, err)
		return
	}
	written, err := c.svc.RecordSnapshot(r.Context(), snap)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, views.SnapshotWritten(written))
}

func (c *ScoresController) handleBest(w http.ResponseWriter, r *http.Request) {
	b, err := c.svc.BestScore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.Best(b))
}

// handleReport accepts an optional ?namespace= override.
func (c *ScoresController) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := c.svc.Report(r.Context(), r.URL.Query().Get("namespace"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.Report(rep))
}
