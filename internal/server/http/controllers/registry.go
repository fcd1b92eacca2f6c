package controllers

import (
	"github.com/gorilla/mux"

	"github.com/rzbill/coinlog/internal/runtime"
	ledgersvc "github.com/rzbill/coinlog/internal/services/ledger"
	profilesvc "github.com/rzbill/coinlog/internal/services/profiles"
	scoresvc "github.com/rzbill/coinlog/internal/services/scores"
	logpkg "github.com/rzbill/coinlog/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general  *GeneralController
	ledger   *LedgerController
	scores   *ScoresController
	kv       *KVController
	profiles *ProfilesController
}

// NewControllerRegistry builds every controller over rt. The profiles
// controller is wired even when profiles are disabled so its routes answer
// with a clear status.
func NewControllerRegistry(rt *runtime.Runtime, logger logpkg.Logger) *ControllerRegistry {
	var profiles *profilesvc.Service
	if store := rt.Profiles(); store != nil {
		profiles = profilesvc.New(store, logger)
	}
	return &ControllerRegistry{
		general:  NewGeneralController(rt),
		ledger:   NewLedgerController(rt, ledgersvc.New(rt, logger)),
		scores:   NewScoresController(rt, scoresvc.New(rt, logger)),
		kv:       NewKVController(rt.KV()),
		profiles: NewProfilesController(rt, profiles),
	}
}

// RegisterAllRoutes registers all controller routes on r.
func (c *ControllerRegistry) RegisterAllRoutes(r *mux.Router) {
	c.general.RegisterRoutes(r)
	c.ledger.RegisterRoutes(r)
	c.scores.RegisterRoutes(r)
	c.kv.RegisterRoutes(r)
	c.profiles.RegisterRoutes(r)
}
