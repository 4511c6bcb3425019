package authstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kazuph/nlm/internal/testutil/testlog"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "auth.toml")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	testlog.Start(t)
	path := storePath(t)

	in := Credentials{
		AuthToken:      "token-abc",
		Cookies:        "SID=1; HSID=2",
		BrowserProfile: "Default",
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.AuthToken != in.AuthToken || out.Cookies != in.Cookies || out.BrowserProfile != in.BrowserProfile {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.SavedAt.IsZero() {
		t.Fatal("SavedAt not stamped")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("store file permissions %o, want 0600", perm)
	}
}

func TestResolvePrecedence(t *testing.T) {
	testlog.Start(t)
	path := storePath(t)
	if err := Save(path, Credentials{AuthToken: "file-token", Cookies: "file-cookies"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Setenv("NLM_AUTH_TOKEN", "env-token")
	t.Setenv("NLM_COOKIES", "")
	t.Setenv("NLM_BROWSER_PROFILE", "Work")

	// Flag beats env beats file; blanks fall through.
	creds, err := Resolve("flag-token", "", path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if creds.AuthToken != "flag-token" {
		t.Fatalf("expected flag token, got %q", creds.AuthToken)
	}
	if creds.Cookies != "file-cookies" {
		t.Fatalf("expected file cookies, got %q", creds.Cookies)
	}
	if creds.BrowserProfile != "Work" {
		t.Fatalf("expected env profile, got %q", creds.BrowserProfile)
	}

	t.Setenv("NLM_AUTH_TOKEN", "")
	creds, err = Resolve("", "", path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if creds.AuthToken != "file-token" || creds.Cookies != "file-cookies" {
		t.Fatalf("expected stored credentials, got %+v", creds)
	}
	if !creds.Complete() {
		t.Fatal("stored credentials should be complete")
	}
}

func TestResolveMissingStore(t *testing.T) {
	testlog.Start(t)
	t.Setenv("NLM_AUTH_TOKEN", "")
	t.Setenv("NLM_COOKIES", "")
	t.Setenv("NLM_BROWSER_PROFILE", "")

	creds, err := Resolve("", "", filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing store should not error: %v", err)
	}
	if creds.Complete() {
		t.Fatalf("expected incomplete credentials, got %+v", creds)
	}
}
