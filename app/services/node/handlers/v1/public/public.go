// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/blockledger/business/web/errs"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
	"github.com/ardanlabs/blockledger/foundation/blockchain/state"
	"github.com/ardanlabs/blockledger/foundation/events"
	"github.com/ardanlabs/blockledger/foundation/nameservice"
	"github.com/ardanlabs/blockledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	NS     *nameservice.NameService
	WS     websocket.Upgrader
	Evts   *events.Events
	Wallet *WalletKeeper
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// A prefix query value narrows the stream, such as "viewer: block:".
	ch := h.Evts.Acquire(v.TraceID, r.URL.Query().Get("prefix"))
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// CreateWallet generates new keys for the node. The node starts mining
// for the new identity.
func (h Handlers) CreateWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wlt, err := h.Wallet.Create()
	if err != nil {
		return fmt.Errorf("saving the keys failed: %w", err)
	}

	h.State.SetHostID(wlt.PublicKey)
	funds, _ := h.State.Balance(wlt.PublicKey)

	resp := walletInfo{
		PublicKey:  wlt.PublicKey,
		PrivateKey: wlt.PrivateKey,
		Funds:      funds,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// LoadWallet reads the keys of the node from the wallet file.
func (h Handlers) LoadWallet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wlt, err := h.Wallet.Load()
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("loading the keys failed: %w", err), http.StatusNotFound)
	}

	h.State.SetHostID(wlt.PublicKey)
	funds, _ := h.State.Balance(wlt.PublicKey)

	resp := walletInfo{
		PublicKey:  wlt.PublicKey,
		PrivateKey: wlt.PrivateKey,
		Funds:      funds,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Balance returns the balance of the participant, or of the node when no
// participant is provided.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	participant := web.Param(r, "participant")

	funds, ok := h.State.Balance(participant)
	if !ok {
		return errs.NewTrusted(state.ErrNoIdentity, http.StatusBadRequest)
	}

	if participant == "" {
		participant = h.State.RetrieveHostID()
	}

	resp := balanceInfo{
		Participant: participant,
		Name:        h.NS.Lookup(participant),
		Funds:       funds,
		Uncommitted: h.State.QueryMempoolLength(),
		LatestBlock: h.State.RetrieveLatestBlock().Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddTransaction signs a transfer with the node's wallet and adds it to the
// mempool.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, err := h.Wallet.Current().SignTransaction(ntx.Recipient, ntx.Amount)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("%w: %w", state.ErrNoIdentity, err), http.StatusBadRequest)
	}

	return h.submit(ctx, w, tx)
}

// SubmitWalletTransaction adds a transfer signed by an outside wallet to the
// mempool.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var stx signedTx
	if err := web.Decode(r, &stx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return h.submit(ctx, w, stx.toTx())
}

// Mempool returns the set of open transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()
	return web.Respond(ctx, w, h.toTrans(mempool), http.StatusOK)
}

// Mine creates a new block with the open transactions.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blk, err := h.State.MineBlock(ctx)
	if err != nil {
		return errs.Map(fmt.Errorf("adding a block failed: %w", err),
			errs.Rule{Err: state.ErrNoIdentity, Status: http.StatusBadRequest},
			errs.Rule{Err: state.ErrInvalidTransaction, Status: http.StatusConflict},
			errs.Rule{Err: state.ErrStaleBlock, Status: http.StatusConflict},
		)
	}

	funds, _ := h.State.Balance("")

	resp := struct {
		Message string  `json:"message"`
		Block   block   `json:"block"`
		Funds   float64 `json:"funds"`
	}{
		Message: "block added successfully",
		Block:   h.toBlock(blk),
		Funds:   funds,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ResolveConflicts replaces the chain with the longest valid chain of the
// peers.
func (h Handlers) ResolveConflicts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Resolve(ctx)
	if err != nil {
		return err
	}

	msg := "local chain kept"
	if replaced {
		msg = "chain was replaced"
	}

	resp := struct {
		Message string `json:"message"`
	}{
		Message: msg,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the blocks of the chain. When a participant is provided only
// the blocks with their transactions are returned.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.QueryBlocksByParticipant(web.Param(r, "participant"))
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = h.toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// AddPeer adds a node to the set of known peers.
func (h Handlers) AddPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ap addPeer
	if err := web.Decode(r, &ap); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.State.AddKnownPeer(peer.New(ap.Node))

	resp := struct {
		Message  string   `json:"message"`
		AllNodes []string `json:"all_nodes"`
	}{
		Message:  "node added successfully",
		AllNodes: h.hosts(),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// RemovePeer removes a node from the set of known peers.
func (h Handlers) RemovePeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	host := web.Param(r, "host")

	if !h.State.RemoveKnownPeer(peer.New(host)) {
		return errs.NewTrusted(fmt.Errorf("node %q not found", host), http.StatusNotFound)
	}

	resp := struct {
		Message  string   `json:"message"`
		AllNodes []string `json:"all_nodes"`
	}{
		Message:  "node removed",
		AllNodes: h.hosts(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Peers returns the known peers.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		AllNodes []string `json:"all_nodes"`
	}{
		AllNodes: h.hosts(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// submit hands the transaction to the state and reports the outcome. A
// transaction rejected by a peer is still pending locally.
func (h Handlers) submit(ctx context.Context, w http.ResponseWriter, dbTx database.Tx) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("add user tran", "traceid", v.TraceID, "tx", dbTx)

	if err := h.State.UpsertWalletTransaction(ctx, dbTx); err != nil {
		if errors.Is(err, state.ErrPeerRejected) {
			err = fmt.Errorf("transaction is pending locally: %w", err)
		}
		return errs.Map(err,
			errs.Rule{Err: state.ErrInvalidTransaction, Status: http.StatusBadRequest},
			errs.Rule{Err: state.ErrNoIdentity, Status: http.StatusBadRequest},
			errs.Rule{Err: state.ErrPeerRejected, Status: http.StatusBadGateway},
		)
	}

	funds, _ := h.State.Balance(dbTx.Sender)

	resp := struct {
		Message     string  `json:"message"`
		Transaction tx      `json:"transaction"`
		Funds       float64 `json:"funds"`
	}{
		Message:     "successfully added transaction",
		Transaction: h.toTx(dbTx),
		Funds:       funds,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// hosts returns the hosts of the known peers.
func (h Handlers) hosts() []string {
	peers := h.State.RetrieveKnownPeers()

	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	return hosts
}

func (h Handlers) toTx(dbTx database.Tx) tx {
	return tx{
		Sender:        dbTx.Sender,
		SenderName:    h.NS.Lookup(dbTx.Sender),
		Recipient:     dbTx.Recipient,
		RecipientName: h.NS.Lookup(dbTx.Recipient),
		Amount:        dbTx.Amount,
		Signature:     dbTx.Signature,
	}
}

func (h Handlers) toTrans(dbTrans []database.Tx) []tx {
	trans := make([]tx, len(dbTrans))
	for i, dbTx := range dbTrans {
		trans[i] = h.toTx(dbTx)
	}
	return trans
}

func (h Handlers) toBlock(blk database.Block) block {
	return block{
		Index:        blk.Index,
		Hash:         blk.Hash(),
		PreviousHash: blk.PreviousHash,
		TimeStamp:    blk.TimeStamp,
		Proof:        blk.Proof,
		Transactions: h.toTrans(blk.Trans),
	}
}
