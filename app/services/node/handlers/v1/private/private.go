// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/ardanlabs/blockledger/business/web/errs"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/state"
	"github.com/ardanlabs/blockledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// SubmitNodeTransaction adds a transaction shared by a peer to the mempool.
func (h Handlers) SubmitNodeTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a transaction.
	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	// Ask the state package to add this transaction to the mempool. It is
	// not shared again.
	h.Log.Infow("add node tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.UpsertNodeTransaction(tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to mempool",
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ProposeBlock takes a block received from a peer, validates it and
// if that passes, adds the block to the local chain. A block further ahead
// than the next position flags this node for a resolve. A block that is not
// ahead of the local tip is a conflict.
func (h Handlers) ProposeBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into a block.
	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("propose block", "traceid", v.TraceID, "index", block.Index, "hash", block.Hash())

	err = h.State.ProcessProposedBlock(block)
	switch {
	case err == nil:
		resp := struct {
			Status string `json:"status"`
		}{
			Status: "block added",
		}
		return web.Respond(ctx, w, resp, http.StatusCreated)

	case errors.Is(err, state.ErrChainAhead):
		resp := struct {
			Status string `json:"status"`
		}{
			Status: "blockchain seems to differ from local blockchain",
		}
		return web.Respond(ctx, w, resp, http.StatusOK)

	default:
		return errs.Map(err, errs.Rule{Err: state.ErrInvalidBlock, Status: http.StatusConflict})
	}
}

// Chain returns the full chain of this node for conflict resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}
