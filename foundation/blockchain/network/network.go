// Package network implements the peer transport of the blockchain over HTTP.
// Every call is a single attempt: no retries and no backoff.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/blockledger/foundation/blockchain/database"
	"github.com/ardanlabs/blockledger/foundation/blockchain/peer"
)

// BaseURL is the format of the root of the node to node API for a host.
const BaseURL = "http://%s/v1/node"

// ErrUnreachable is returned when a peer could not be reached.
var ErrUnreachable = errors.New("peer unreachable")

// =============================================================================

// Client talks to the private API of peer nodes.
type Client struct {
	baseURL string
	client  http.Client
}

// New constructs a client where every request is bounded by the timeout. A
// zero timeout leaves requests bounded only by the caller's context.
func New(timeout time.Duration) *Client {
	return NewWithBaseURL(BaseURL, timeout)
}

// NewWithBaseURL constructs a client with a different url format. The format
// must take the peer host as its only argument.
func NewWithBaseURL(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  http.Client{Timeout: timeout},
	}
}

// PostTransaction shares a new transaction with the peer.
func (c *Client) PostTransaction(ctx context.Context, host string, tx database.Tx) peer.Status {
	url := fmt.Sprintf("%s/broadcast-transaction", fmt.Sprintf(c.baseURL, host))

	status, err := c.send(ctx, http.MethodPost, url, tx, nil)
	return categorize(status, err)
}

// PostBlock proposes a new block to the peer.
func (c *Client) PostBlock(ctx context.Context, host string, block database.Block) peer.Status {
	url := fmt.Sprintf("%s/broadcast-block", fmt.Sprintf(c.baseURL, host))

	status, err := c.send(ctx, http.MethodPost, url, block, nil)
	return categorize(status, err)
}

// GetChain retrieves the full chain held by the peer.
func (c *Client) GetChain(ctx context.Context, host string) ([]database.Block, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(c.baseURL, host))

	var chain []database.Block
	status, err := c.send(ctx, http.MethodGet, url, nil, &chain)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", host, status)
	}

	return chain, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node. A transport
// failure is reported as ErrUnreachable, any response is reported by its
// status code.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) (int, error) {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, err
	}

	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if dataRecv != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return resp.StatusCode, err
		}
	}

	return resp.StatusCode, nil
}

// categorize maps the outcome of a request onto a peer status.
func categorize(status int, err error) peer.Status {
	switch {
	case err != nil:
		if errors.Is(err, ErrUnreachable) {
			return peer.StatusUnreachable
		}
		return peer.StatusRejected
	case status >= 200 && status <= 299:
		return peer.StatusAccepted
	case status == http.StatusConflict:
		return peer.StatusConflict
	default:
		return peer.StatusRejected
	}
}
