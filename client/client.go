package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
	"github.com/iov-one/suprasig/tx"
	"github.com/tendermint/tendermint/libs/log"
)

// Known node endpoints.
const (
	TestnetURL = "https://rpc-testnet.supra.com"
	MainnetURL = "https://rpc-mainnet.supra.com"
)

// NetworkURL returns the endpoint of a known network.
func NetworkURL(network string) (string, error) {
	switch network {
	case "testnet":
		return TestnetURL, nil
	case "mainnet":
		return MainnetURL, nil
	default:
		return "", errors.Wrapf(errors.ErrInput, "unknown network %q", network)
	}
}

// Client uses HTTP transport to communicate with a ledger node.
type Client struct {
	baseURL string
	cli     *http.Client
	logger  log.Logger

	pollMin time.Duration
	pollMax time.Duration
}

var _ tx.ChainIDSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHTTPClient sets the HTTP client used to send requests.
func WithHTTPClient(cli *http.Client) Option {
	return func(c *Client) {
		c.cli = cli
	}
}

// WithPollInterval sets the shortest and the longest wait between two
// transaction status checks done by WaitForTx.
func WithPollInterval(min, max time.Duration) Option {
	return func(c *Client) {
		c.pollMin, c.pollMax = min, max
	}
}

// NewClient returns a client of the node available at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cli:     &http.Client{Timeout: 30 * time.Second},
		logger:  log.NewNopLogger(),
		pollMin: time.Second,
		pollMax: 10 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get sends a GET request and decodes the JSON response into dest.
func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "create http request")
	}
	return c.do(req.WithContext(ctx), dest)
}

// post sends the JSON representation of body and decodes the JSON response
// into dest.
func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "serialize request")
	}
	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "create http request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req.WithContext(ctx), dest)
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	c.logger.Debug("node request", "method", req.Method, "path", req.URL.Path)
	req.Header.Set("User-Agent", suprasig.UserAgent())

	resp, err := c.cli.Do(req)
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "do request: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 1e5))
		kind := errors.ErrNetwork
		if resp.StatusCode == http.StatusNotFound {
			kind = errors.ErrNotFound
		}
		return errors.Wrapf(kind, "bad response: %d %s", resp.StatusCode, string(b))
	}

	b, err := ioutil.ReadAll(io.LimitReader(resp.Body, 1e6))
	if err != nil {
		return errors.Wrapf(errors.ErrNetwork, "read response: %s", err)
	}
	// The node answers with null for entities it does not know.
	if t := bytes.TrimSpace(b); len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return errors.Wrapf(errors.ErrNotFound, "%s", req.URL.Path)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode response: %s", err)
	}
	return nil
}

// ChainID returns the id of the chain the node is part of.
func (c *Client) ChainID(ctx context.Context) (uint8, error) {
	var id uint8
	if err := c.get(ctx, "/rpc/v1/transactions/chain_id", &id); err != nil {
		return 0, errors.Wrap(err, "chain id")
	}
	return id, nil
}
