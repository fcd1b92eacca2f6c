package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rzbill/coinlog/internal/eventlog"
	"github.com/rzbill/coinlog/internal/runtime"
	profilesvc "github.com/rzbill/coinlog/internal/services/profiles"
)

// ProfilesController manages player profiles. svc is nil when profiles are
// disabled in config, and every route then answers 501.
type ProfilesController struct {
	rt  *runtime.Runtime
	svc *profilesvc.Service
}

func NewProfilesController(rt *runtime.Runtime, svc *profilesvc.Service) *ProfilesController {
	return &ProfilesController{rt: rt, svc: svc}
}

func (c *ProfilesController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/players/{id}/profile", c.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/v1/players/{id}/profile", c.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/v1/players/{id}/profile", c.handleUpdate).Methods(http.MethodPut)
}

// playerID applies the entity id rules so profiles and logs share ids.
func (c *ProfilesController) playerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c.svc == nil {
		writeError(w, http.StatusNotImplemented, "profiles are disabled")
		return "", false
	}
	id := mux.Vars(r)["id"]
	if _, err := eventlog.NewEntityKey(c.rt.Config().Ledger.Namespace, id); err != nil {
		fail(w, err)
		return "", false
	}
	return id, true
}

func (c *ProfilesController) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := c.playerID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	fields, err := c.rt.Validator().ProfileCreate(body)
	if err != nil {
		fail(w, err)
		return
	}
	p, err := c.svc.Create(r.Context(), id, fields)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (c *ProfilesController) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := c.playerID(w, r)
	if !ok {
		return
	}
	p, err := c.svc.Get(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (c *ProfilesController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := c.playerID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	fields, err := c.rt.Validator().ProfileUpdate(body)
	if err != nil {
		fail(w, err)
		return
	}
	p, err := c.svc.Update(r.Context(), id, fields)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
