// Command nlm manages NotebookLM notebooks from the terminal: sources,
// notes, audio overviews and content generation over the batched RPC API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kazuph/nlm/internal/authstore"
	"github.com/kazuph/nlm/internal/config"
	"github.com/kazuph/nlm/internal/logging"
	"github.com/kazuph/nlm/internal/notebook"
)

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "nlm: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("nlm", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs.Output()) }
	var (
		authToken   = fs.String("auth", "", "auth token (overrides env and stored credentials)")
		cookies     = fs.String("cookies", "", "cookie header (overrides env and stored credentials)")
		debug       = fs.Bool("debug", false, "enable debug logging")
		profilePath = fs.String("config", "", "profile path (default ~/.nlm/config.toml)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(os.Stderr)
		return errors.New("command required")
	}
	cmd, cmdArgs := rest[0], rest[1:]

	profile, err := loadProfile(*profilePath)
	if err != nil {
		return err
	}
	storePath := profile.AuthFile
	if storePath == "" {
		if storePath, err = authstore.DefaultPath(); err != nil {
			return err
		}
	}

	if cmd == "auth" {
		return cmdAuth(storePath, *authToken, *cookies)
	}

	creds, err := authstore.Resolve(*authToken, *cookies, storePath)
	if err != nil {
		return err
	}
	if !creds.Complete() {
		return errors.New("authentication required: run 'nlm-authd' and complete the browser hand-off, or set NLM_AUTH_TOKEN and NLM_COOKIES")
	}

	client := notebook.New(creds.AuthToken, creds.Cookies, notebook.Options{
		Host:      profile.Host,
		App:       profile.App,
		Debug:     *debug || profile.Debug,
		Headers:   profile.Headers,
		URLParams: profile.URLParams,
	})
	app := &cli{client: client, in: os.Stdin, out: os.Stdout}
	return app.dispatch(context.Background(), cmd, cmdArgs)
}

func loadProfile(path string) (config.Profile, error) {
	if path != "" {
		return config.LoadProfile(path)
	}
	defaultPath, err := config.DefaultProfilePath()
	if err != nil {
		return config.Profile{}, err
	}
	return config.LoadProfile(defaultPath)
}

// cmdAuth reports where credentials come from and whether they are usable.
func cmdAuth(storePath, flagToken, flagCookies string) error {
	creds, err := authstore.Resolve(flagToken, flagCookies, storePath)
	if err != nil {
		return err
	}
	fmt.Printf("store: %s\n", storePath)
	if !creds.Complete() {
		fmt.Println("status: not configured")
		fmt.Println("run 'nlm-authd' and complete the browser hand-off, or set NLM_AUTH_TOKEN and NLM_COOKIES")
		return nil
	}
	fmt.Println("status: configured")
	if !creds.SavedAt.IsZero() {
		fmt.Printf("saved: %s\n", creds.SavedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if creds.BrowserProfile != "" {
		fmt.Printf("browser profile: %s\n", creds.BrowserProfile)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: nlm [flags] <command> [arguments]

Notebook commands:
  list, ls                  List notebooks
  create <title>            Create a notebook
  rename <id> <title>       Rename a notebook
  rm <id>                   Delete a notebook

Source commands:
  sources <id>              List sources in a notebook
  add <id> <input>          Add a source (file path, URL, "-" for stdin, or raw text)
  rm-source <id> <source-id>        Remove a source
  rename-source <source-id> <title> Rename a source
  refresh-source <source-id>        Refresh a source from its origin

Note commands:
  notes <id>                        List notes
  new-note <id> <title>             Create a note
  edit-note <id> <note-id> <content> <title>  Edit a note
  rm-note <id> <note-id>            Remove a note

Audio commands:
  audio-create <id> <instructions>  Create an audio overview
  audio-get <id>            Fetch the audio overview
  audio-rm <id>             Delete the audio overview
  audio-share <id> [public] Share the audio overview

Generation commands:
  generate-guide <id>       Generate a notebook guide
  generate-outline <id>     Generate a content outline
  generate-section <id>     Generate a new section
  ask <id> <question>       Ask a question over the notebook's sources

Other commands:
  auth                      Show credential status

Flags:
  -auth <token>     Auth token override
  -cookies <str>    Cookie header override
  -config <path>    Profile path (default ~/.nlm/config.toml)
  -debug            Enable debug logging
`)
}
