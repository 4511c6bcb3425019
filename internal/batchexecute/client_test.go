package batchexecute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/kazuph/nlm/internal/testutil/testlog"
)

func testConfig(t *testing.T, serverURL string) Config {
	t.Helper()
	u, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	return Config{
		Host:      u.Host,
		App:       "TestApp",
		AuthToken: "token-123",
		Cookies:   "SID=abc; HSID=def",
		UseHTTP:   true,
	}
}

// echoHandler answers every batch with one wrb.fr tuple per submitted call,
// echoing the double-encoded args back as the payload.
func echoHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		var envelope [][][]json.RawMessage
		if err := json.Unmarshal([]byte(r.PostFormValue("f.req")), &envelope); err != nil {
			t.Errorf("unmarshal f.req: %v", err)
			return
		}
		batch := make([]any, 0, len(envelope[0]))
		for _, tuple := range envelope[0] {
			var id, args string
			if err := json.Unmarshal(tuple[0], &id); err != nil {
				t.Errorf("tuple id: %v", err)
				return
			}
			if err := json.Unmarshal(tuple[1], &args); err != nil {
				t.Errorf("tuple args: %v", err)
				return
			}
			batch = append(batch, []any{"wrb.fr", id, args, nil, nil, nil, "generic"})
		}
		chunk, err := json.Marshal(batch)
		if err != nil {
			t.Errorf("marshal chunk: %v", err)
			return
		}
		fmt.Fprintf(w, ")]}'\n\n%d\n%s\n", len(chunk), chunk)
	}
}

func TestExecuteRoundTrip(t *testing.T) {
	testlog.Start(t)
	srv := httptest.NewServer(echoHandler(t))
	defer srv.Close()

	client := New(testConfig(t, srv.URL), srv.Client())
	calls := []Call{
		{ID: "abc123", Args: []any{"hello", float64(2)}},
		{ID: "def456", Args: map[string]any{"k": "v"}},
	}

	records, err := client.Execute(context.Background(), calls)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for i, call := range calls {
		if records[i].ID != call.ID {
			t.Fatalf("record %d: expected id %s, got %s", i, call.ID, records[i].ID)
		}
		data, ok := records[i].Data.(string)
		if !ok {
			t.Fatalf("record %d: expected string payload, got %T", i, records[i].Data)
		}
		var got any
		if err := json.Unmarshal([]byte(data), &got); err != nil {
			t.Fatalf("record %d: payload not JSON: %v", i, err)
		}
		want, _ := json.Marshal(call.Args)
		var wantVal any
		_ = json.Unmarshal(want, &wantVal)
		if fmt.Sprint(got) != fmt.Sprint(wantVal) {
			t.Fatalf("record %d: payload %v, want %v", i, got, wantVal)
		}
	}
}

func TestExecuteRequestShape(t *testing.T) {
	testlog.Start(t)
	var captured *http.Request
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_ = r.ParseForm()
		form = r.PostForm
		fmt.Fprint(w, ")]}'\n\n2\n[[\"wrb.fr\",\"rpcA\",null,0,0,0,\"generic\"]]\n")
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Headers = map[string]string{"x-same-domain": "1", "cookie": "attacker=1"}
	cfg.URLParams = map[string]string{"hl": "en", "bl": "build-1"}
	client := New(cfg, srv.Client())

	_, err := client.Execute(context.Background(), []Call{
		{ID: "rpcA", Args: []any{nil}, URLParams: map[string]string{"hl": "ja", "source-path": "/"}},
		{ID: "rpcB", Args: []any{nil}},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := captured.URL.Path; got != "/_/TestApp/data/batchexecute" {
		t.Fatalf("unexpected path %q", got)
	}
	q := captured.URL.Query()
	if q.Get("rpcids") != "rpcA,rpcB" {
		t.Fatalf("unexpected rpcids %q", q.Get("rpcids"))
	}
	if q.Get("rt") != "c" {
		t.Fatalf("unexpected rt %q", q.Get("rt"))
	}
	if _, err := strconv.Atoi(q.Get("_reqid")); err != nil {
		t.Fatalf("_reqid not numeric: %q", q.Get("_reqid"))
	}
	// First call's params win over configured ones.
	if q.Get("hl") != "ja" {
		t.Fatalf("expected call params to take precedence, hl=%q", q.Get("hl"))
	}
	if q.Get("bl") != "build-1" || q.Get("source-path") != "/" {
		t.Fatalf("missing merged params: %v", q)
	}

	if got := captured.Header.Get("content-type"); !strings.HasPrefix(got, "application/x-www-form-urlencoded") {
		t.Fatalf("unexpected content-type %q", got)
	}
	if got := captured.Header.Get("x-same-domain"); got != "1" {
		t.Fatalf("extra header lost: %q", got)
	}
	// Session cookie is set after the header merge and cannot be overridden.
	if got := captured.Header.Get("cookie"); got != "SID=abc; HSID=def" {
		t.Fatalf("cookie overridden: %q", got)
	}

	if got := form.Get("at"); got != "token-123" {
		t.Fatalf("unexpected auth token %q", got)
	}
	var envelope []any
	if err := json.Unmarshal([]byte(form.Get("f.req")), &envelope); err != nil {
		t.Fatalf("f.req not JSON: %v", err)
	}
	if len(envelope) != 1 {
		t.Fatalf("expected single-element outer envelope, got %d", len(envelope))
	}
}

func TestExecuteReqIDAdvancesPerBatch(t *testing.T) {
	testlog.Start(t)
	var reqids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqids = append(reqids, r.URL.Query().Get("_reqid"))
		fmt.Fprint(w, ")]}'\n\n2\n[[\"wrb.fr\",\"x\",null,0,0,0,\"generic\"]]\n")
	}))
	defer srv.Close()

	client := New(testConfig(t, srv.URL), srv.Client())
	for i := 0; i < 3; i++ {
		if _, err := client.Execute(context.Background(), []Call{{ID: "x", Args: []any{}}}); err != nil {
			t.Fatalf("execute %d: %v", i, err)
		}
	}

	for i := 1; i < len(reqids); i++ {
		prev, _ := strconv.Atoi(reqids[i-1])
		cur, _ := strconv.Atoi(reqids[i])
		if cur-prev != reqIDStride {
			t.Fatalf("expected stride %d between batches, got %d", reqIDStride, cur-prev)
		}
	}
}

func TestExecuteUnauthorized(t *testing.T) {
	testlog.Start(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "please sign in", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(testConfig(t, srv.URL), srv.Client())
	_, err := client.Do(context.Background(), Call{ID: "x", Args: []any{}})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestExecuteTransportError(t *testing.T) {
	testlog.Start(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := New(testConfig(t, srv.URL), srv.Client())
	_, err := client.Do(context.Background(), Call{ID: "x", Args: []any{}})

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if batchErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status %d", batchErr.StatusCode)
	}
	if !strings.Contains(batchErr.Body, "quota exceeded") {
		t.Fatalf("body not retained: %q", batchErr.Body)
	}
}

func TestExecutePlainFallback(t *testing.T) {
	testlog.Start(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No chunk framing at all; forces the plain decode path.
		fmt.Fprint(w, ")]}'\n[[\"wrb.fr\",\"plain1\",null,0,0,0,\"5\"]]")
	}))
	defer srv.Close()

	client := New(testConfig(t, srv.URL), srv.Client())
	rec, err := client.Do(context.Background(), Call{ID: "plain1", Args: []any{}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if rec.ID != "plain1" || rec.Index != 5 || rec.Data != nil {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestExecuteEmptyBatchRejected(t *testing.T) {
	testlog.Start(t)
	client := New(Config{Host: "example.test", App: "App"}, nil)
	if _, err := client.Execute(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestExecuteEmptyResultSurfaced(t *testing.T) {
	testlog.Start(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := `[["di",1,null,0,0,0,"generic"]]`
		fmt.Fprintf(w, ")]}'\n\n%d\n%s\n", len(chunk), chunk)
	}))
	defer srv.Close()

	client := New(testConfig(t, srv.URL), srv.Client())
	_, err := client.Do(context.Background(), Call{ID: "x", Args: []any{}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
