package notebook

import (
	"context"
	"fmt"
)

// CreateNote adds a note to a notebook and returns it.
func (c *Client) CreateNote(ctx context.Context, projectID, title, initialContent string) (Source, error) {
	args := []any{
		projectID,
		initialContent,
		[]int{1},
		nil,
		title,
	}
	resp, err := c.call(ctx, rpcCreateNote, args, projectID)
	if err != nil {
		return Source{}, fmt.Errorf("notebook: create note: %w", err)
	}
	note, ok := parseSourceHeader(resp)
	if !ok {
		return Source{}, malformedErr("create note")
	}
	return note, nil
}

// EditNote replaces a note's content and title.
func (c *Client) EditNote(ctx context.Context, projectID, noteID, content, title string) (Source, error) {
	args := []any{
		projectID,
		noteID,
		[]any{[]any{[]any{content, title, []any{}}}},
	}
	resp, err := c.call(ctx, rpcMutateNote, args, projectID)
	if err != nil {
		return Source{}, fmt.Errorf("notebook: edit note: %w", err)
	}
	note, ok := parseSourceHeader(resp)
	if !ok {
		return Source{}, malformedErr("edit note")
	}
	return note, nil
}

// DeleteNotes removes notes from a notebook.
func (c *Client) DeleteNotes(ctx context.Context, projectID string, noteIDs []string) error {
	if len(noteIDs) == 0 {
		return nil
	}
	args := []any{
		[]any{[]any{[]any{noteIDs}}},
	}
	if _, err := c.call(ctx, rpcDeleteNotes, args, projectID); err != nil {
		return fmt.Errorf("notebook: delete notes: %w", err)
	}
	return nil
}

// ListNotes returns the notes in a notebook.
func (c *Client) ListNotes(ctx context.Context, projectID string) ([]Source, error) {
	resp, err := c.call(ctx, rpcGetNotes, []any{projectID}, projectID)
	if err != nil {
		return nil, fmt.Errorf("notebook: list notes: %w", err)
	}
	rows, ok := arrAt(resp, 0)
	if !ok {
		return nil, nil
	}
	notes := make([]Source, 0, len(rows))
	for _, row := range rows {
		note, ok := parseSourceHeader(row)
		if !ok {
			continue
		}
		notes = append(notes, note)
	}
	return notes, nil
}
