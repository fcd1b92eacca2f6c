package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	kvsvc "github.com/rzbill/coinlog/internal/services/kv"
)

type kvSetReq struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// KVController exposes the flat key/value store under /v1/data.
type KVController struct {
	store kvsvc.Store
}

func NewKVController(store kvsvc.Store) *KVController {
	return &KVController{store: store}
}

func (c *KVController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/data", c.handleList).Methods(http.MethodGet)
	r.HandleFunc("/v1/data", c.handleSet).Methods(http.MethodPost)
	r.HandleFunc("/v1/data/{key}", c.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/v1/data/{key}", c.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/v1/data/{key}", c.handleDelete).Methods(http.MethodDelete)
}

func decodeSet(w http.ResponseWriter, r *http.Request) (kvSetReq, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return kvSetReq{}, false
	}
	var req kvSetReq
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return kvSetReq{}, false
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return kvSetReq{}, false
	}
	return req, true
}

func (c *KVController) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := c.store.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": all})
}

func (c *KVController) handleSet(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSet(w, r)
	if !ok {
		return
	}
	if err := kvsvc.ValidateKey(req.Key); err != nil {
		fail(w, err)
		return
	}
	if err := c.store.Set(r.Context(), req.Key, *req.Value); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": req.Key, "value": *req.Value})
}

func (c *KVController) handleGet(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	v, err := c.store.Get(r.Context(), key)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": v})
}

// handleUpdate replaces the value of an existing key; unknown keys are 404.
func (c *KVController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	req, ok := decodeSet(w, r)
	if !ok {
		return
	}
	if _, err := c.store.Get(r.Context(), key); err != nil {
		fail(w, err)
		return
	}
	if err := c.store.Set(r.Context(), key, *req.Value); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": *req.Value})
}

func (c *KVController) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Delete(r.Context(), mux.Vars(r)["key"]); err != nil {
		fail(w, err)
		return
	}
	writeNoContent(w)
}
