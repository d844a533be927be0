package public

import (
	"sync"

	"github.com/ardanlabs/blockledger/foundation/blockchain/wallet"
)

// WalletKeeper holds the wallet of the node and the file it lives in.
type WalletKeeper struct {
	mu   sync.RWMutex
	path string
	w    wallet.Wallet
}

// NewWalletKeeper constructs a keeper for the wallet file. An existing
// wallet is loaded, a missing or broken one leaves the keeper empty.
func NewWalletKeeper(path string) *WalletKeeper {
	wk := WalletKeeper{
		path: path,
	}

	if w, err := wallet.Load(path); err == nil {
		wk.w = w
	}

	return &wk
}

// Create generates new keys and writes them to the wallet file.
func (wk *WalletKeeper) Create() (wallet.Wallet, error) {
	w, err := wallet.Create()
	if err != nil {
		return wallet.Wallet{}, err
	}

	if err := w.Save(wk.path); err != nil {
		return wallet.Wallet{}, err
	}

	wk.mu.Lock()
	defer wk.mu.Unlock()

	wk.w = w

	return w, nil
}

// Load reads the keys from the wallet file.
func (wk *WalletKeeper) Load() (wallet.Wallet, error) {
	w, err := wallet.Load(wk.path)
	if err != nil {
		return wallet.Wallet{}, err
	}

	wk.mu.Lock()
	defer wk.mu.Unlock()

	wk.w = w

	return w, nil
}

// Current returns the wallet in use.
func (wk *WalletKeeper) Current() wallet.Wallet {
	wk.mu.RLock()
	defer wk.mu.RUnlock()

	return wk.w
}
