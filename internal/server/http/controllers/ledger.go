package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rzbill/coinlog/internal/request"
	"github.com/rzbill/coinlog/internal/runtime"
	"github.com/rzbill/coinlog/internal/server/views"
	ledgersvc "github.com/rzbill/coinlog/internal/services/ledger"
)

// LedgerController handles coin transactions and balance reads.
type LedgerController struct {
	rt  *runtime.Runtime
	svc *ledgersvc.Service
}

func NewLedgerController(rt *runtime.Runtime, svc *ledgersvc.Service) *LedgerController {
	return &LedgerController{rt: rt, svc: svc}
}

// RegisterRoutes registers:
// - POST /v1/players/{id}/earn and /spend with {"amount": N}
// - GET /v1/players/{id}/balance
// - GET /v1/players/{id}/history
func (c *LedgerController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/players/{id}/earn", c.transaction(request.Earn)).Methods(http.MethodPost)
	r.HandleFunc("/v1/players/{id}/spend", c.transaction(request.Spend)).Methods(http.MethodPost)
	r.HandleFunc("/v1/players/{id}/balance", c.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/v1/players/{id}/history", c.handleHistory).Methods(http.MethodGet)
}

func (c *LedgerController) transaction(kind request.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		tx, err := c.rt.Validator().Transaction(kind, mux.Vars(r)["id"], body)
		if err != nil {
			fail(w, err)
			return
		}
		written, err := c.svc.Write(r.Context(), tx)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, views.LedgerWritten(written))
	}
}

func (c *LedgerController) handleBalance(w http.ResponseWriter, r *http.Request) {
	b, err := c.svc.Balance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.Balance(b))
}

func (c *LedgerController) handleHistory(w http.ResponseWriter, r *http.Request) {
	h, err := c.svc.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views.History(h))
}
