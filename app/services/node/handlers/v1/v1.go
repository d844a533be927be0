// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/blockledger/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/blockledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/blockledger/foundation/blockchain/state"
	"github.com/ardanlabs/blockledger/foundation/events"
	"github.com/ardanlabs/blockledger/foundation/nameservice"
	"github.com/ardanlabs/blockledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log        *zap.SugaredLogger
	State      *state.State
	NS         *nameservice.NameService
	Evts       *events.Events
	WalletPath string
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		NS:     cfg.NS,
		WS:     websocket.Upgrader{},
		Evts:   cfg.Evts,
		Wallet: public.NewWalletKeeper(cfg.WalletPath),
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodPost, version, "/wallet", pbl.CreateWallet)
	app.Handle(http.MethodGet, version, "/wallet", pbl.LoadWallet)
	app.Handle(http.MethodGet, version, "/balance", pbl.Balance)
	app.Handle(http.MethodGet, version, "/balance/:participant", pbl.Balance)
	app.Handle(http.MethodPost, version, "/transaction", pbl.AddTransaction)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitWalletTransaction)
	app.Handle(http.MethodGet, version, "/transactions", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodPost, version, "/resolve-conflicts", pbl.ResolveConflicts)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/chain/:participant", pbl.Chain)
	app.Handle(http.MethodPost, version, "/node", pbl.AddPeer)
	app.Handle(http.MethodDelete, version, "/node/:host", pbl.RemovePeer)
	app.Handle(http.MethodGet, version, "/nodes", pbl.Peers)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, version, "/node/broadcast-transaction", prv.SubmitNodeTransaction)
	app.Handle(http.MethodPost, version, "/node/broadcast-block", prv.ProposeBlock)
	app.Handle(http.MethodGet, version, "/node/chain", prv.Chain)
}
