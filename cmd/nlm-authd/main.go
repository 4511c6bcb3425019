// Command nlm-authd runs the local credential hand-off server. It serves a
// bookmarklet page; clicking the bookmarklet on a signed-in NotebookLM tab
// posts the session credentials back and they are written to the auth store.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kazuph/nlm/internal/authstore"
	"github.com/kazuph/nlm/internal/authweb"
	"github.com/kazuph/nlm/internal/logging"
	"github.com/kazuph/nlm/internal/observability"
)

func main() {
	logging.ConfigureRuntime()
	observability.InitLogger("nlm-authd")

	var (
		addr  = flag.String("addr", "127.0.0.1:8787", "listen address")
		store = flag.String("store", "", "auth store path (default ~/.nlm/auth.toml)")
		key   = flag.String("key", "", "hand-off key (random when empty)")
		debug = flag.Bool("debug", false, "enable gin debug mode")
	)
	flag.Parse()

	if err := run(*addr, *store, *key, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "nlm-authd: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, storePath, handoffKey string, debug bool) error {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	var err error
	if storePath == "" {
		if storePath, err = authstore.DefaultPath(); err != nil {
			return err
		}
	}
	if handoffKey == "" {
		if handoffKey, err = randomKey(); err != nil {
			return err
		}
	}

	fmt.Printf("Open http://%s/ and follow the instructions.\n", addr)
	return authweb.NewServer(storePath, handoffKey).Run(addr)
}

func randomKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate hand-off key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
