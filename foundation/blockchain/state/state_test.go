package state_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/blockledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
	"github.com/ardanlabs/blockledger/foundation/blockchain/signature"
	"github.com/ardanlabs/blockledger/foundation/blockchain/state"
	"github.com/ardanlabs/blockledger/foundation/blockchain/verification"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

// =============================================================================

// transport stands in for the network of peers.
type transport struct {
	mu          sync.Mutex
	chains      map[string][]database.Block
	txStatus    map[string]peer.Status
	blockStatus map[string]peer.Status
	txs         []database.Tx
	blocks      []database.Block
}

func newTransport() *transport {
	return &transport{
		chains:      make(map[string][]database.Block),
		txStatus:    make(map[string]peer.Status),
		blockStatus: make(map[string]peer.Status),
	}
}

func (tr *transport) PostTransaction(ctx context.Context, host string, tx database.Tx) peer.Status {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.txs = append(tr.txs, tx)
	return tr.txStatus[host]
}

func (tr *transport) PostBlock(ctx context.Context, host string, block database.Block) peer.Status {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.blocks = append(tr.blocks, block)
	return tr.blockStatus[host]
}

func (tr *transport) GetChain(ctx context.Context, host string) ([]database.Block, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	chain, exists := tr.chains[host]
	if !exists {
		return nil, fmt.Errorf("%s: unreachable", host)
	}

	return database.CopyChain(chain), nil
}

// =============================================================================

type node struct {
	state   *state.State
	storage *memory.Memory
	tr      *transport
	priv    string
	pub     string
}

func newNode(t *testing.T, peers ...string) node {
	return newNodeWithGenesis(t, genesis.Default(), func(v string, args ...any) { t.Logf(v, args...) }, peers...)
}

func newNodeWithGenesis(t *testing.T, gen genesis.Genesis, ev state.EventHandler, peers ...string) node {
	priv, pub, err := signature.GenerateKeyPair()
	ifErrFailNow(t, err)

	knownPeers := peer.NewPeerSet()
	for _, host := range peers {
		knownPeers.Add(peer.New(host))
	}

	strg := memory.New()
	tr := newTransport()

	st, err := state.New(state.Config{
		HostID:     pub,
		Host:       "localhost:9080",
		Genesis:    gen,
		Storage:    strg,
		Transport:  tr,
		KnownPeers: knownPeers,
		EvHandler:  ev,
	})
	ifErrFailNow(t, err)

	return node{state: st, storage: strg, tr: tr, priv: priv, pub: pub}
}

func (n node) sign(t *testing.T, recipient string, amount float64) database.Tx {
	sig, err := signature.Sign(n.priv, n.pub, recipient, amount)
	ifErrFailNow(t, err)

	return database.NewTx(n.pub, recipient, amount, sig)
}

func (n node) mine(t *testing.T, blocks int) {
	for i := 0; i < blocks; i++ {
		_, err := n.state.MineBlock(context.Background())
		ifErrFailNow(t, err)
	}
}

// =============================================================================

func Test_ZeroBalance(t *testing.T) {
	t.Log("Given the need to compute the balance on a new ledger.")
	{
		n := newNode(t)

		balance, ok := n.state.Balance(n.pub)
		if !ok || balance != 0 {
			t.Fatalf("\t%s\tShould have a zero balance, got %v %v.", failed, balance, ok)
		}
		t.Logf("\t%s\tShould have a zero balance.", success)

		n.state.SetHostID("")
		if _, ok := n.state.Balance(""); ok {
			t.Fatalf("\t%s\tShould have no balance without an identity.", failed)
		}
		t.Logf("\t%s\tShould have no balance without an identity.", success)

		if got := len(n.state.RetrieveChain()); got != 1 {
			t.Fatalf("\t%s\tShould start with the genesis block only, got %d blocks.", failed, got)
		}
		t.Logf("\t%s\tShould start with the genesis block only.", success)
	}
}

func Test_InsufficientFunds(t *testing.T) {
	t.Log("Given the need to reject transfers the sender can't cover.")
	{
		n := newNode(t)

		err := n.state.UpsertWalletTransaction(context.Background(), n.sign(t, "R", 5))
		if !errors.Is(err, state.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould reject the transaction, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject the transaction.", success)

		if got := n.state.QueryMempoolLength(); got != 0 {
			t.Fatalf("\t%s\tShould leave the mempool empty, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould leave the mempool empty.", success)
	}
}

func Test_MineReward(t *testing.T) {
	t.Log("Given the need to mine a block with no open transactions.")
	{
		n := newNode(t)

		block, err := n.state.MineBlock(context.Background())
		ifErrFailNow(t, err)
		t.Logf("\t%s\tShould be able to mine a block.", success)

		reward := n.state.RetrieveGenesis().MiningReward
		if balance, _ := n.state.Balance(n.pub); balance != reward {
			t.Fatalf("\t%s\tShould credit the reward %v, got %v.", failed, reward, balance)
		}
		t.Logf("\t%s\tShould credit the reward.", success)

		if got := len(n.state.RetrieveChain()); got != 2 {
			t.Fatalf("\t%s\tShould have 2 blocks, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould have 2 blocks.", success)

		if got := n.state.QueryMempoolLength(); got != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould have an empty mempool.", success)

		last := block.Trans[len(block.Trans)-1]
		if last.Sender != genesis.DefaultMiningSender || last.Recipient != n.pub || last.Signature != "" {
			t.Fatalf("\t%s\tShould end the block with the reward, got %s.", failed, last)
		}
		t.Logf("\t%s\tShould end the block with the reward.", success)

		if !verification.New(genesis.DefaultDifficulty).VerifyChain(n.state.RetrieveChain()) {
			t.Fatalf("\t%s\tShould produce a valid chain.", failed)
		}
		t.Logf("\t%s\tShould produce a valid chain.", success)

		if n.storage.Saves() == 0 {
			t.Fatalf("\t%s\tShould persist the ledger.", failed)
		}
		t.Logf("\t%s\tShould persist the ledger.", success)
	}
}

func Test_TransferAndMine(t *testing.T) {
	t.Log("Given the need to move funds between participants.")
	{
		n := newNode(t, "peer1:9080")
		n.mine(t, 1)

		tx := n.sign(t, "R", 4)
		ifErrFailNow(t, n.state.UpsertWalletTransaction(context.Background(), tx))
		t.Logf("\t%s\tShould accept a covered transaction.", success)

		if len(n.tr.txs) != 1 || !n.tr.txs[0].Equals(tx) {
			t.Fatalf("\t%s\tShould share the transaction with the peer.", failed)
		}
		t.Logf("\t%s\tShould share the transaction with the peer.", success)

		if balance, _ := n.state.Balance(n.pub); balance != 6 {
			t.Fatalf("\t%s\tShould count the pending amount, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould count the pending amount.", success)

		err := n.state.UpsertWalletTransaction(context.Background(), n.sign(t, "R", 7))
		if !errors.Is(err, state.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould reject spending pending funds twice, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject spending pending funds twice.", success)

		err = n.state.UpsertNodeTransaction(tx)
		if !errors.Is(err, state.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould reject a duplicate, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a duplicate.", success)

		block, err := n.state.MineBlock(context.Background())
		ifErrFailNow(t, err)

		if len(block.Trans) != 2 || !block.Trans[0].Equals(tx) {
			t.Fatalf("\t%s\tShould mine the transaction before the reward.", failed)
		}
		t.Logf("\t%s\tShould mine the transaction before the reward.", success)

		if balance, _ := n.state.Balance(n.pub); balance != 16 {
			t.Fatalf("\t%s\tShould have a balance of 16, got %v.", failed, balance)
		}
		if balance, _ := n.state.Balance("R"); balance != 4 {
			t.Fatalf("\t%s\tShould credit the recipient 4, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould settle both balances.", success)

		if len(n.tr.blocks) != 2 {
			t.Fatalf("\t%s\tShould share every mined block, got %d.", failed, len(n.tr.blocks))
		}
		t.Logf("\t%s\tShould share every mined block.", success)
	}
}

func Test_PeerRejection(t *testing.T) {
	t.Log("Given the need to report peers that refuse a transaction.")
	{
		n := newNode(t, "peer1:9080", "peer2:9080")
		n.tr.txStatus["peer1:9080"] = peer.StatusUnreachable
		n.tr.txStatus["peer2:9080"] = peer.StatusRejected
		n.mine(t, 1)

		err := n.state.UpsertWalletTransaction(context.Background(), n.sign(t, "R", 1))
		if !errors.Is(err, state.ErrPeerRejected) {
			t.Fatalf("\t%s\tShould report the rejection, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould report the rejection.", success)

		if got := n.state.QueryMempoolLength(); got != 1 {
			t.Fatalf("\t%s\tShould keep the transaction pending, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould keep the transaction pending.", success)
	}

	t.Log("Given the need to detect peers that disagree with a mined block.")
	{
		n := newNode(t, "peer1:9080")
		n.tr.blockStatus["peer1:9080"] = peer.StatusConflict

		n.mine(t, 1)

		if !n.state.NeedsResolution() {
			t.Fatalf("\t%s\tShould flag the chain for resolution.", failed)
		}
		t.Logf("\t%s\tShould flag the chain for resolution.", success)
	}
}

func Test_ProposedBlock(t *testing.T) {
	t.Log("Given the need to accept blocks mined by peers.")
	{
		miner := newNode(t)
		n := newNode(t)

		miner.mine(t, 1)
		block := miner.state.RetrieveLatestBlock()

		ifErrFailNow(t, n.state.ProcessProposedBlock(block))
		t.Logf("\t%s\tShould accept the next block.", success)

		if got := n.state.RetrieveLatestBlock().Hash(); got != block.Hash() {
			t.Fatalf("\t%s\tShould have the block as the tip.", failed)
		}
		t.Logf("\t%s\tShould have the block as the tip.", success)

		err := n.state.ProcessProposedBlock(block)
		if !errors.Is(err, state.ErrInvalidBlock) {
			t.Fatalf("\t%s\tShould reject a block that is not ahead, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a block that is not ahead.", success)

		miner.mine(t, 1)
		tampered := miner.state.RetrieveLatestBlock()
		tampered.Proof++
		for verification.New(genesis.DefaultDifficulty).ValidProof(tampered.ProofTrans(), tampered.PreviousHash, tampered.Proof) {
			tampered.Proof++
		}

		err = n.state.ProcessProposedBlock(tampered)
		if !errors.Is(err, state.ErrInvalidBlock) {
			t.Fatalf("\t%s\tShould reject a block with a bad proof, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a block with a bad proof.", success)

		if got := len(n.state.RetrieveChain()); got != 2 {
			t.Fatalf("\t%s\tShould leave the chain unchanged, got %d blocks.", failed, got)
		}
		t.Logf("\t%s\tShould leave the chain unchanged.", success)

		miner.mine(t, 1)
		err = n.state.ProcessProposedBlock(miner.state.RetrieveLatestBlock())
		if !errors.Is(err, state.ErrChainAhead) {
			t.Fatalf("\t%s\tShould report a block ahead of the chain, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould report a block ahead of the chain.", success)

		if !n.state.NeedsResolution() {
			t.Fatalf("\t%s\tShould flag the chain for resolution.", failed)
		}
		t.Logf("\t%s\tShould flag the chain for resolution.", success)
	}

	t.Log("Given the need to drop pending transactions a peer block includes.")
	{
		miner := newNode(t)
		n := newNode(t)

		miner.mine(t, 1)
		ifErrFailNow(t, n.state.ProcessProposedBlock(miner.state.RetrieveLatestBlock()))

		tx := miner.sign(t, "R", 3)
		ifErrFailNow(t, miner.state.UpsertNodeTransaction(tx))
		ifErrFailNow(t, n.state.UpsertNodeTransaction(tx))

		miner.mine(t, 1)
		ifErrFailNow(t, n.state.ProcessProposedBlock(miner.state.RetrieveLatestBlock()))

		if got := n.state.QueryMempoolLength(); got != 0 {
			t.Fatalf("\t%s\tShould remove the included transaction, got %d pending.", failed, got)
		}
		t.Logf("\t%s\tShould remove the included transaction.", success)
	}
}

func Test_Resolve(t *testing.T) {
	t.Log("Given the need to converge on the longest valid chain.")
	{
		long := newNode(t)
		long.mine(t, 3)

		short := newNode(t)
		short.mine(t, 1)

		n := newNode(t, "long:9080", "short:9080", "down:9080")
		n.tr.chains["long:9080"] = long.state.RetrieveChain()
		n.tr.chains["short:9080"] = short.state.RetrieveChain()

		n.mine(t, 1)
		ifErrFailNow(t, n.state.UpsertNodeTransaction(n.sign(t, "R", 1)))

		replaced, err := n.state.Resolve(context.Background())
		ifErrFailNow(t, err)

		if !replaced {
			t.Fatalf("\t%s\tShould replace the chain.", failed)
		}
		t.Logf("\t%s\tShould replace the chain.", success)

		if got := n.state.RetrieveLatestBlock().Hash(); got != long.state.RetrieveLatestBlock().Hash() {
			t.Fatalf("\t%s\tShould adopt the longest chain.", failed)
		}
		t.Logf("\t%s\tShould adopt the longest chain.", success)

		if got := n.state.QueryMempoolLength(); got != 0 {
			t.Fatalf("\t%s\tShould clear the mempool, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould clear the mempool.", success)

		if balance, _ := n.state.Balance(n.pub); balance != 0 {
			t.Fatalf("\t%s\tShould lose the reward of the replaced block, got %v.", failed, balance)
		}
		t.Logf("\t%s\tShould lose the reward of the replaced block.", success)
	}

	t.Log("Given the need to ignore longer chains that don't verify.")
	{
		long := newNode(t)
		long.mine(t, 3)

		chain := long.state.RetrieveChain()
		chain[2].PreviousHash = chain[0].Hash()

		n := newNode(t, "tampered:9080")
		n.tr.chains["tampered:9080"] = chain
		n.mine(t, 1)
		before := n.state.RetrieveLatestBlock().Hash()

		replaced, err := n.state.Resolve(context.Background())
		ifErrFailNow(t, err)

		if replaced {
			t.Fatalf("\t%s\tShould not replace the chain.", failed)
		}
		t.Logf("\t%s\tShould not replace the chain.", success)

		if n.state.RetrieveLatestBlock().Hash() != before {
			t.Fatalf("\t%s\tShould keep the local chain.", failed)
		}
		t.Logf("\t%s\tShould keep the local chain.", success)
	}
}

func Test_ProofOfWork(t *testing.T) {
	t.Log("Given the need to find the smallest proof.")
	{
		n := newNode(t)
		n.mine(t, 1)
		ifErrFailNow(t, n.state.UpsertNodeTransaction(n.sign(t, "R", 2)))

		proof, err := n.state.ProofOfWork(context.Background())
		ifErrFailNow(t, err)

		consensus := verification.New(genesis.DefaultDifficulty)
		trans := n.state.RetrieveMempool()
		lastHash := n.state.RetrieveLatestBlock().Hash()

		if !consensus.ValidProof(trans, lastHash, proof) {
			t.Fatalf("\t%s\tShould find a valid proof.", failed)
		}
		t.Logf("\t%s\tShould find a valid proof.", success)

		for p := uint64(0); p < proof; p++ {
			if consensus.ValidProof(trans, lastHash, p) {
				t.Fatalf("\t%s\tShould find the smallest proof, %d is smaller than %d.", failed, p, proof)
			}
		}
		t.Logf("\t%s\tShould find the smallest proof.", success)
	}
}

func Test_Persistence(t *testing.T) {
	t.Log("Given the need to restart a node from storage.")
	{
		n := newNode(t, "peer1:9080")
		n.mine(t, 2)
		ifErrFailNow(t, n.state.UpsertNodeTransaction(n.sign(t, "R", 2)))

		st, err := state.New(state.Config{
			Genesis:   genesis.Default(),
			Storage:   n.storage,
			Transport: newTransport(),
		})
		ifErrFailNow(t, err)

		if got := len(st.RetrieveChain()); got != 3 {
			t.Fatalf("\t%s\tShould load 3 blocks, got %d.", failed, got)
		}
		if got := st.QueryMempoolLength(); got != 1 {
			t.Fatalf("\t%s\tShould load 1 open transaction, got %d.", failed, got)
		}
		if got := len(st.RetrieveKnownPeers()); got != 1 {
			t.Fatalf("\t%s\tShould load 1 peer, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould load the saved ledger.", success)
	}

	t.Log("Given the need to ignore a stored chain that does not verify.")
	{
		n := newNode(t)
		n.mine(t, 2)

		chain := n.state.RetrieveChain()
		chain[1].PreviousHash = "bad"
		strg := memory.NewWithState(database.LedgerState{Chain: chain})

		st, err := state.New(state.Config{Storage: strg, Transport: newTransport()})
		ifErrFailNow(t, err)

		if got := len(st.RetrieveChain()); got != 1 {
			t.Fatalf("\t%s\tShould start from genesis, got %d blocks.", failed, got)
		}
		t.Logf("\t%s\tShould start from genesis.", success)
	}

	t.Log("Given the need to keep the stored peers when the stored chain is rejected.")
	{
		n := newNode(t)
		n.mine(t, 2)

		chain := n.state.RetrieveChain()
		chain[1].PreviousHash = "bad"
		strg := memory.NewWithState(database.LedgerState{Chain: chain, Peers: []string{"peer1:9080", "peer2:9080"}})

		st, err := state.New(state.Config{Storage: strg, Transport: newTransport()})
		ifErrFailNow(t, err)

		if got := len(st.RetrieveKnownPeers()); got != 2 {
			t.Fatalf("\t%s\tShould keep the 2 stored peers, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould keep the stored peers.", success)
	}

	t.Log("Given the need to keep working when storage fails.")
	{
		n := newNode(t)
		n.storage.FailSaves(errors.New("disk full"))

		n.mine(t, 1)

		if got := len(n.state.RetrieveChain()); got != 2 {
			t.Fatalf("\t%s\tShould still append the block, got %d blocks.", failed, got)
		}
		t.Logf("\t%s\tShould still append the block.", success)
	}
}

func Test_KnownPeers(t *testing.T) {
	t.Log("Given the need to manage the known peers.")
	{
		n := newNode(t)

		if !n.state.AddKnownPeer(peer.New("peer1:9080")) {
			t.Fatalf("\t%s\tShould add a new peer.", failed)
		}
		if n.state.AddKnownPeer(peer.New("peer1:9080")) {
			t.Fatalf("\t%s\tShould not add the peer twice.", failed)
		}
		t.Logf("\t%s\tShould add a peer once.", success)

		if !n.state.RemoveKnownPeer(peer.New("peer1:9080")) {
			t.Fatalf("\t%s\tShould remove the peer.", failed)
		}
		if len(n.state.RetrieveKnownPeers()) != 0 {
			t.Fatalf("\t%s\tShould have no peers left.", failed)
		}
		t.Logf("\t%s\tShould remove the peer.", success)
	}
}

func Test_StaleMining(t *testing.T) {
	t.Log("Given the need to discard every search overtaken by a peer block.")
	{
		gen := genesis.Default()
		gen.Difficulty = 5

		miner := newNodeWithGenesis(t, gen, func(v string, args ...any) {})
		block, err := miner.state.MineBlock(context.Background())
		ifErrFailNow(t, err)

		const searches = 2
		searching := make(chan struct{}, searches)
		ev := func(v string, args ...any) {
			if strings.HasPrefix(v, "state: MineBlock: MINING: perform POW") {
				select {
				case searching <- struct{}{}:
				default:
				}
			}
		}

		n := newNodeWithGenesis(t, gen, ev)
		ifErrFailNow(t, n.state.UpsertNodeTransaction(n.sign(t, "R", 0)))

		type result struct {
			block database.Block
			err   error
		}
		done := make(chan result, searches)
		for i := 0; i < searches; i++ {
			go func() {
				blk, err := n.state.MineBlock(context.Background())
				done <- result{blk, err}
			}()
		}

		for i := 0; i < searches; i++ {
			<-searching
		}
		ifErrFailNow(t, n.state.ProcessProposedBlock(block))

		for i := 0; i < searches; i++ {
			res := <-done
			if !errors.Is(res.err, state.ErrStaleBlock) {
				t.Fatalf("\t%s\tShould report every search as stale, got %v.", failed, res.err)
			}
			if !strings.Contains(res.err.Error(), "search cancelled") {
				t.Fatalf("\t%s\tShould stop every search when the block arrives, got %v.", failed, res.err)
			}
		}
		t.Logf("\t%s\tShould report every search as stale.", success)
		t.Logf("\t%s\tShould stop every search when the block arrives.", success)

		if got := n.state.RetrieveLatestBlock().Hash(); got != block.Hash() {
			t.Fatalf("\t%s\tShould keep the peer block as the tip.", failed)
		}
		if got := len(n.state.RetrieveChain()); got != 2 {
			t.Fatalf("\t%s\tShould have 2 blocks, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould keep the peer block as the tip.", success)

		if got := n.state.QueryMempoolLength(); got != 1 {
			t.Fatalf("\t%s\tShould keep the open transaction, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould keep the open transaction.", success)
	}

	t.Log("Given the need to tell a cancelled caller apart from a stale search.")
	{
		n := newNode(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := n.state.MineBlock(ctx)
		if !errors.Is(err, context.Canceled) || errors.Is(err, state.ErrStaleBlock) {
			t.Fatalf("\t%s\tShould return the context error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould return the context error.", success)

		if got := len(n.state.RetrieveChain()); got != 1 {
			t.Fatalf("\t%s\tShould leave the chain unchanged, got %d blocks.", failed, got)
		}
		t.Logf("\t%s\tShould leave the chain unchanged.", success)
	}
}

func Test_MineBadPool(t *testing.T) {
	t.Log("Given the need to refuse mining a pool that no longer verifies.")
	{
		_, pub, err := signature.GenerateKeyPair()
		ifErrFailNow(t, err)

		bad := database.NewTx(pub, "R", 1, "deadbeef")
		strg := memory.NewWithState(database.LedgerState{
			Chain:   []database.Block{database.GenesisBlock()},
			Mempool: []database.Tx{bad},
		})

		st, err := state.New(state.Config{
			HostID:    pub,
			Genesis:   genesis.Default(),
			Storage:   strg,
			Transport: newTransport(),
		})
		ifErrFailNow(t, err)

		if got := st.QueryMempoolLength(); got != 1 {
			t.Fatalf("\t%s\tShould load the stored transaction, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould load the stored transaction.", success)

		_, err = st.MineBlock(context.Background())
		if !errors.Is(err, state.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould refuse to mine, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould refuse to mine.", success)

		if got := len(st.RetrieveChain()); got != 1 {
			t.Fatalf("\t%s\tShould leave the chain unchanged, got %d blocks.", failed, got)
		}
		if got := st.QueryMempoolLength(); got != 1 {
			t.Fatalf("\t%s\tShould retain the pool, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould leave the state unchanged.", success)
	}
}
