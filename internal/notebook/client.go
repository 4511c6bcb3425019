// Package notebook exposes the NotebookLM front-end operations over the
// batched RPC transport: notebooks, sources, notes, audio overviews and
// content generation.
package notebook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kazuph/nlm/internal/batchexecute"
)

const (
	defaultHost = "notebooklm.google.com"
	defaultApp  = "LabsTailwindUi"
)

func defaultHeaders() map[string]string {
	return map[string]string{
		"origin":          "https://notebooklm.google.com",
		"referer":         "https://notebooklm.google.com/",
		"x-same-domain":   "1",
		"accept":          "*/*",
		"accept-language": "en-US,en;q=0.9",
		"cache-control":   "no-cache",
		"pragma":          "no-cache",
	}
}

func defaultURLParams() map[string]string {
	return map[string]string{
		"bl":    "boq_labs-tailwind-frontend_20241114.01_p0",
		"f.sid": "-7121977511756781186",
		"hl":    "en",
	}
}

// Options tune the client beyond credentials. The zero value targets the
// production service.
type Options struct {
	Host       string
	App        string
	Debug      bool
	UseHTTP    bool
	HTTPClient batchexecute.Doer

	// Extra headers and url params merged over the built-in browser set.
	Headers   map[string]string
	URLParams map[string]string
}

// Client is a NotebookLM API client.
type Client struct {
	rpc *batchexecute.Client
	log zerolog.Logger
}

// New builds a client from an auth token and cookie string.
func New(authToken, cookies string, opts Options) *Client {
	cfg := batchexecute.Config{
		Host:      defaultHost,
		App:       defaultApp,
		AuthToken: authToken,
		Cookies:   cookies,
		Headers:   defaultHeaders(),
		URLParams: defaultURLParams(),
		Debug:     opts.Debug,
		UseHTTP:   opts.UseHTTP,
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.App != "" {
		cfg.App = opts.App
	}
	for k, v := range opts.Headers {
		cfg.Headers[k] = v
	}
	for k, v := range opts.URLParams {
		cfg.URLParams[k] = v
	}

	logger := zerolog.Nop()
	if opts.Debug {
		logger = log.With().Str("component", "notebook").Logger()
	}
	return &Client{
		rpc: batchexecute.New(cfg, opts.HTTPClient),
		log: logger,
	}
}

// call issues a single RPC scoped to a notebook. An empty notebookID scopes
// the call to the project list page instead.
func (c *Client) call(ctx context.Context, rpcID string, args any, notebookID string) (any, error) {
	sourcePath := "/"
	if notebookID != "" {
		sourcePath = "/notebook/" + notebookID
	}
	rec, err := c.rpc.Do(ctx, batchexecute.Call{
		ID:   rpcID,
		Args: args,
		URLParams: map[string]string{
			"source-path": sourcePath,
		},
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("rpc", rpcID).Str("notebook", notebookID).Msg("rpc complete")
	return payloadValue(rec.Data), nil
}

// payloadValue unwraps a record payload into a decoded JSON value. Chunked
// responses deliver payloads as JSON text; anything that fails to parse is
// returned as-is.
func payloadValue(data any) any {
	s, ok := data.(string)
	if !ok {
		return data
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func malformedErr(op string) error {
	return fmt.Errorf("notebook: %s: malformed response", op)
}
