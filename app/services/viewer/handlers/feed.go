package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// blockPrefix marks the event messages that carry a block.
const blockPrefix = "viewer: block: "

// Block is the view of a block announced by the node.
type Block struct {
	Hash         string  `json:"hash"`
	Index        uint64  `json:"index"`
	PreviousHash string  `json:"previous_hash"`
	Proof        uint64  `json:"proof"`
	Trans        []Trans `json:"trans"`
}

// Trans is the view of a transaction inside a block.
type Trans struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
	Signature string  `json:"signature"`
}

// Feed follows the event stream of a node and keeps the latest blocks.
type Feed struct {
	log     *zap.SugaredLogger
	url     string
	history int
	retry   time.Duration

	mu     sync.RWMutex
	blocks []Block
}

// NewFeed constructs a feed for the node events url.
func NewFeed(log *zap.SugaredLogger, url string, history int) *Feed {
	if history <= 0 {
		history = 50
	}

	return &Feed{
		log:     log,
		url:     url,
		history: history,
		retry:   5 * time.Second,
	}
}

// Run connects to the node and consumes events until the context is
// cancelled. A lost connection is retried.
func (f *Feed) Run(ctx context.Context) {
	for {
		if err := f.consume(ctx); err != nil {
			f.log.Infow("feed", "status", "connection lost", "url", f.url, "ERROR", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(f.retry):
		}
	}
}

// Blocks returns the retained blocks, newest first.
func (f *Feed) Blocks() []Block {
	f.mu.RLock()
	defer f.mu.RUnlock()

	blocks := make([]Block, len(f.blocks))
	for i, blk := range f.blocks {
		blocks[len(f.blocks)-1-i] = blk
	}
	return blocks
}

func (f *Feed) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.log.Infow("feed", "status", "connected", "url", f.url)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		f.process(string(msg))
	}
}

// process records the block carried by a message. Other events are ignored.
func (f *Feed) process(msg string) {
	if !strings.HasPrefix(msg, blockPrefix) {
		return
	}

	var blk Block
	if err := json.Unmarshal([]byte(strings.TrimPrefix(msg, blockPrefix)), &blk); err != nil {
		f.log.Infow("feed", "status", "bad block event", "ERROR", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.blocks = append(f.blocks, blk)
	if len(f.blocks) > f.history {
		f.blocks = f.blocks[len(f.blocks)-f.history:]
	}
}
