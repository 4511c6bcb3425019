package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kazuph/nlm/internal/notebook"
)

type cli struct {
	client *notebook.Client
	in     io.Reader
	out    io.Writer
}

func (a *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list", "ls":
		return a.listNotebooks(ctx)
	case "create":
		if len(args) != 1 {
			return usageErr("create <title>")
		}
		return a.createNotebook(ctx, args[0])
	case "rename":
		if len(args) != 2 {
			return usageErr("rename <id> <title>")
		}
		return a.renameNotebook(ctx, args[0], args[1])
	case "rm":
		if len(args) != 1 {
			return usageErr("rm <id>")
		}
		return a.removeNotebook(ctx, args[0])

	case "sources":
		if len(args) != 1 {
			return usageErr("sources <notebook-id>")
		}
		return a.listSources(ctx, args[0])
	case "add":
		if len(args) != 2 {
			return usageErr("add <notebook-id> <input>")
		}
		return a.addSource(ctx, args[0], args[1])
	case "rm-source":
		if len(args) != 2 {
			return usageErr("rm-source <notebook-id> <source-id>")
		}
		return a.removeSource(ctx, args[0], args[1])
	case "rename-source":
		if len(args) != 2 {
			return usageErr("rename-source <source-id> <title>")
		}
		return a.renameSource(ctx, args[0], args[1])
	case "refresh-source":
		if len(args) != 1 {
			return usageErr("refresh-source <source-id>")
		}
		return a.refreshSource(ctx, args[0])

	case "notes":
		if len(args) != 1 {
			return usageErr("notes <notebook-id>")
		}
		return a.listNotes(ctx, args[0])
	case "new-note":
		if len(args) != 2 {
			return usageErr("new-note <notebook-id> <title>")
		}
		return a.createNote(ctx, args[0], args[1])
	case "edit-note":
		if len(args) != 4 {
			return usageErr("edit-note <notebook-id> <note-id> <content> <title>")
		}
		return a.editNote(ctx, args[0], args[1], args[2], args[3])
	case "rm-note":
		if len(args) != 2 {
			return usageErr("rm-note <notebook-id> <note-id>")
		}
		return a.removeNote(ctx, args[0], args[1])

	case "audio-create":
		if len(args) != 2 {
			return usageErr("audio-create <notebook-id> <instructions>")
		}
		return a.createAudio(ctx, args[0], args[1])
	case "audio-get":
		if len(args) != 1 {
			return usageErr("audio-get <notebook-id>")
		}
		return a.getAudio(ctx, args[0])
	case "audio-rm":
		if len(args) != 1 {
			return usageErr("audio-rm <notebook-id>")
		}
		return a.removeAudio(ctx, args[0])
	case "audio-share":
		if len(args) < 1 || len(args) > 2 {
			return usageErr("audio-share <notebook-id> [public]")
		}
		public := len(args) == 2 && args[1] == "public"
		return a.shareAudio(ctx, args[0], public)

	case "generate-guide":
		if len(args) != 1 {
			return usageErr("generate-guide <notebook-id>")
		}
		return a.generate(ctx, args[0], "Guide", a.client.NotebookGuide)
	case "generate-outline":
		if len(args) != 1 {
			return usageErr("generate-outline <notebook-id>")
		}
		return a.generate(ctx, args[0], "Outline", a.client.Outline)
	case "generate-section":
		if len(args) != 1 {
			return usageErr("generate-section <notebook-id>")
		}
		return a.generate(ctx, args[0], "Section", a.client.Section)
	case "ask":
		if len(args) != 2 {
			return usageErr("ask <notebook-id> <question>")
		}
		return a.ask(ctx, args[0], args[1])

	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usageErr(usage string) error {
	return fmt.Errorf("usage: nlm %s", usage)
}

// confirm prompts before destructive operations.
func (a *cli) confirm(format string, args ...any) bool {
	fmt.Fprintf(a.out, format+" [y/N] ", args...)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (a *cli) listNotebooks(ctx context.Context) error {
	projects, err := a.client.ListRecentlyViewed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ID\tTITLE\tLAST UPDATED")
	for _, p := range projects {
		title := p.Title
		if p.Emoji != "" {
			title = p.Emoji + " " + title
		}
		updated := ""
		if p.Metadata != nil && !p.Metadata.ModifiedTime.IsZero() {
			updated = p.Metadata.ModifiedTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s\n", p.ID, title, updated)
	}
	return nil
}

func (a *cli) createNotebook(ctx context.Context, title string) error {
	p, err := a.client.Create(ctx, title, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, p.ID)
	return nil
}

func (a *cli) renameNotebook(ctx context.Context, id, title string) error {
	if err := a.client.Rename(ctx, id, title); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed notebook %s to: %s\n", id, title)
	return nil
}

func (a *cli) removeNotebook(ctx context.Context, id string) error {
	if !a.confirm("Are you sure you want to delete notebook %s?", id) {
		fmt.Fprintln(a.out, "Operation cancelled")
		return nil
	}
	if err := a.client.Delete(ctx, []string{id}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted notebook %s\n", id)
	return nil
}

func (a *cli) listSources(ctx context.Context, notebookID string) error {
	p, err := a.client.Get(ctx, notebookID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ID\tTITLE\tTYPE\tSTATUS")
	for _, src := range p.Sources {
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", src.ID, src.Title, src.Type, src.Status)
	}
	return nil
}

// addSource accepts a file path, a URL, "-" for stdin, or raw text.
func (a *cli) addSource(ctx context.Context, notebookID, input string) error {
	var (
		id  string
		err error
	)
	switch {
	case input == "-":
		fmt.Fprintln(a.out, "Reading from stdin...")
		id, err = a.client.AddSourceFromReader(ctx, notebookID, a.in, "stdin.txt")
	case strings.HasPrefix(input, "http://"), strings.HasPrefix(input, "https://"):
		fmt.Fprintf(a.out, "Adding source from URL: %s\n", input)
		id, err = a.client.AddSourceFromURL(ctx, notebookID, input)
	case fileExists(input):
		fmt.Fprintf(a.out, "Adding source from file: %s\n", input)
		id, err = a.client.AddSourceFromFile(ctx, notebookID, input)
	default:
		fmt.Fprintln(a.out, "Adding text content as source...")
		id, err = a.client.AddSourceFromText(ctx, notebookID, input, "Text Source")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *cli) removeSource(ctx context.Context, notebookID, sourceID string) error {
	if !a.confirm("Are you sure you want to remove source %s?", sourceID) {
		fmt.Fprintln(a.out, "Operation cancelled")
		return nil
	}
	if err := a.client.DeleteSources(ctx, notebookID, []string{sourceID}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed source %s from notebook %s\n", sourceID, notebookID)
	return nil
}

func (a *cli) renameSource(ctx context.Context, sourceID, title string) error {
	src, err := a.client.RenameSource(ctx, sourceID, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Renamed source to: %s\n", src.Title)
	return nil
}

func (a *cli) refreshSource(ctx context.Context, sourceID string) error {
	src, err := a.client.RefreshSource(ctx, sourceID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Refreshed source: %s\n", src.Title)
	return nil
}

func (a *cli) listNotes(ctx context.Context, notebookID string) error {
	notes, err := a.client.ListNotes(ctx, notebookID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ID\tTITLE")
	for _, note := range notes {
		fmt.Fprintf(a.out, "%s\t%s\n", note.ID, note.Title)
	}
	return nil
}

func (a *cli) createNote(ctx context.Context, notebookID, title string) error {
	note, err := a.client.CreateNote(ctx, notebookID, title, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created note: %s\n", note.Title)
	return nil
}

func (a *cli) editNote(ctx context.Context, notebookID, noteID, content, title string) error {
	note, err := a.client.EditNote(ctx, notebookID, noteID, content, title)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated note: %s\n", note.Title)
	return nil
}

func (a *cli) removeNote(ctx context.Context, notebookID, noteID string) error {
	if !a.confirm("Are you sure you want to remove note %s?", noteID) {
		fmt.Fprintln(a.out, "Operation cancelled")
		return nil
	}
	if err := a.client.DeleteNotes(ctx, notebookID, []string{noteID}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed note: %s\n", noteID)
	return nil
}

func (a *cli) createAudio(ctx context.Context, notebookID, instructions string) error {
	fmt.Fprintf(a.out, "Creating audio overview for notebook %s...\n", notebookID)
	overview, err := a.client.CreateAudioOverview(ctx, notebookID, instructions)
	if err != nil {
		return err
	}
	if !overview.IsReady {
		fmt.Fprintln(a.out, "Audio overview creation started. Use 'nlm audio-get' to check status.")
		return nil
	}
	return a.printAudio(overview)
}

func (a *cli) getAudio(ctx context.Context, notebookID string) error {
	overview, err := a.client.GetAudioOverview(ctx, notebookID)
	if err != nil {
		return err
	}
	if !overview.IsReady {
		fmt.Fprintln(a.out, "Audio overview is not ready yet. Try again in a few moments.")
		return nil
	}
	return a.printAudio(overview)
}

// printAudio reports overview details and saves the audio next to the
// working directory when present.
func (a *cli) printAudio(overview notebook.AudioOverview) error {
	fmt.Fprintln(a.out, "Audio Overview:")
	fmt.Fprintf(a.out, "  Title: %s\n", overview.Title)
	fmt.Fprintf(a.out, "  ID: %s\n", overview.AudioID)
	if overview.AudioData == "" {
		return nil
	}
	audio, err := overview.Bytes()
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	filename := fmt.Sprintf("audio_overview_%s.wav", overview.AudioID)
	if err := os.WriteFile(filename, audio, 0o644); err != nil {
		return fmt.Errorf("save audio: %w", err)
	}
	fmt.Fprintf(a.out, "  Saved audio to: %s\n", filename)
	return nil
}

func (a *cli) removeAudio(ctx context.Context, notebookID string) error {
	if !a.confirm("Are you sure you want to delete the audio overview?") {
		fmt.Fprintln(a.out, "Operation cancelled")
		return nil
	}
	if err := a.client.DeleteAudioOverview(ctx, notebookID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted audio overview")
	return nil
}

func (a *cli) shareAudio(ctx context.Context, notebookID string, public bool) error {
	opt := notebook.SharePrivate
	if public {
		opt = notebook.SharePublic
	}
	result, err := a.client.ShareAudio(ctx, notebookID, opt)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Share URL: %s\n", result.ShareURL)
	return nil
}

func (a *cli) generate(ctx context.Context, notebookID, label string, fn func(context.Context, string) (string, error)) error {
	fmt.Fprintf(a.out, "Generating %s...\n", strings.ToLower(label))
	content, err := fn(ctx, notebookID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s:\n%s\n", label, content)
	return nil
}

func (a *cli) ask(ctx context.Context, notebookID, question string) error {
	answer, err := a.client.AskQuestion(ctx, notebookID, question, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, answer)
	return nil
}
