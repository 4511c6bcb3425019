// Package batchexecute implements the client side of the batched
// browser-RPC transport used by certain web front ends: envelope encoding,
// request id sequencing, chunked response framing and double-JSON recovery.
// It treats both credentials and call payloads as opaque; call semantics
// belong to the caller.
package batchexecute

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kazuph/nlm/internal/observability"
)

const (
	formContentType     = "application/x-www-form-urlencoded;charset=UTF-8"
	compactResponseMode = "c"
)

// Config carries the session and endpoint parameters for a client. It is not
// mutated after construction; Headers and URLParams are merged per request.
type Config struct {
	Host      string
	App       string
	AuthToken string
	Cookies   string
	Headers   map[string]string
	URLParams map[string]string
	Debug     bool
	UseHTTP   bool
}

// Call is one RPC in a batch. Args may be any JSON-marshalable value; its
// meaning is opaque to this package.
type Call struct {
	ID        string
	Args      any
	Index     string
	URLParams map[string]string
}

// ResponseRecord is one decoded wrb.fr tuple. In chunked mode Data is always
// a string: canonical JSON when the payload parsed, the untouched raw string
// otherwise. In plain mode Data is the wire value as-is.
type ResponseRecord struct {
	ID    string
	Data  any
	Index int
	Error string
}

// Doer issues a single HTTP request. *http.Client satisfies it; retry,
// timeout and cancellation policy live behind this boundary, not here.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client executes batches against one session. Each Execute is a single
// synchronous request/response cycle; the only shared mutable state is the
// request id generator, which serializes itself.
type Client struct {
	cfg   Config
	http  Doer
	reqid *ReqIDGenerator
	log   zerolog.Logger
}

// New builds a client for cfg. A nil httpClient falls back to
// http.DefaultClient.
func New(cfg Config, httpClient Doer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := zerolog.Nop()
	if cfg.Debug {
		logger = log.With().Str("component", "batchexecute").Logger()
	}
	return &Client{
		cfg:   cfg,
		http:  httpClient,
		reqid: NewReqIDGenerator(),
		log:   logger,
	}
}

// Do sends a single call and returns the first kept record.
func (c *Client) Do(ctx context.Context, call Call) (ResponseRecord, error) {
	records, err := c.Execute(ctx, []Call{call})
	if err != nil {
		return ResponseRecord{}, err
	}
	return records[0], nil
}

// Execute sends one batch and returns all kept records in stream order. The
// service may return more, fewer or reordered records relative to the calls
// sent.
func (c *Client) Execute(ctx context.Context, calls []Call) ([]ResponseRecord, error) {
	if len(calls) == 0 {
		return nil, errors.New("batchexecute: at least one call required")
	}

	endpoint := c.endpoint()
	query := c.query(calls)
	envelope, err := encodeEnvelope(calls)
	if err != nil {
		return nil, err
	}
	form := url.Values{
		"f.req": {envelope},
		"at":    {c.cfg.AuthToken},
	}

	c.log.Debug().
		Str("url", endpoint).
		Str("rpcids", query.Get("rpcids")).
		Str("reqid", query.Get("_reqid")).
		Msg("executing batch")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+query.Encode(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("batchexecute: build request: %w", err)
	}
	req.Header.Set("content-type", formContentType)
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	// Cookie goes last so merged headers cannot silently override the session.
	req.Header.Set("cookie", c.cfg.Cookies)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("batchexecute: post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("batchexecute: read response: %w", err)
	}
	observability.RecordRPC(c.cfg.Host, query.Get("rpcids"), resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BatchError{
			StatusCode: resp.StatusCode,
			Reason:     resp.Status,
			Body:       string(body),
		}
	}

	records, err := DecodeChunked(string(body))
	if err != nil {
		c.log.Debug().Err(err).Msg("chunked decode failed, trying plain decode")
		plain, perr := DecodePlain(string(body))
		if perr != nil {
			c.log.Debug().Err(perr).Msg("plain decode failed")
			return nil, fmt.Errorf("batchexecute: decode response: %w", err)
		}
		records = plain
		observability.RecordDecode("plain", len(records))
		return records, nil
	}
	observability.RecordDecode("chunked", len(records))
	return records, nil
}

// ResetSequence restarts the request id sequence, keeping the session base.
func (c *Client) ResetSequence() {
	c.reqid.Reset()
}

func (c *Client) endpoint() string {
	scheme := "https"
	if c.cfg.UseHTTP {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/_/%s/data/batchexecute", scheme, c.cfg.Host, c.cfg.App)
}

// query assembles the configured extra parameters, then the batch parameters,
// then the first call's own parameters, which take precedence.
func (c *Client) query(calls []Call) url.Values {
	q := url.Values{}
	for k, v := range c.cfg.URLParams {
		q.Set(k, v)
	}
	ids := make([]string, 0, len(calls))
	for _, call := range calls {
		ids = append(ids, call.ID)
	}
	q.Set("rpcids", strings.Join(ids, ","))
	q.Set("rt", compactResponseMode)
	q.Set("_reqid", c.reqid.Next())
	for k, v := range calls[0].URLParams {
		q.Set(k, v)
	}
	return q
}
