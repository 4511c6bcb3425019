package notebook

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// AddSourceFromText attaches inline text as a notebook source and returns the
// new source id.
func (c *Client) AddSourceFromText(ctx context.Context, projectID, content, title string) (string, error) {
	args := []any{
		[]any{
			[]any{nil, []string{title, content}, nil, 2},
		},
		projectID,
	}
	resp, err := c.call(ctx, rpcAddSources, args, projectID)
	if err != nil {
		return "", fmt.Errorf("notebook: add text source: %w", err)
	}
	return extractSourceID(resp)
}

// AddSourceFromBase64 attaches a binary source from pre-encoded content.
func (c *Client) AddSourceFromBase64(ctx context.Context, projectID, encoded, filename, contentType string) (string, error) {
	args := []any{
		[]any{
			[]any{encoded, filename, contentType, "base64"},
		},
		projectID,
	}
	resp, err := c.call(ctx, rpcAddSources, args, projectID)
	if err != nil {
		return "", fmt.Errorf("notebook: add binary source: %w", err)
	}
	return extractSourceID(resp)
}

// AddSourceFromURL attaches a web page. YouTube links are routed through the
// dedicated video source type.
func (c *Client) AddSourceFromURL(ctx context.Context, projectID, rawURL string) (string, error) {
	if isYouTubeURL(rawURL) {
		videoID, ok := youTubeVideoID(rawURL)
		if !ok {
			return "", fmt.Errorf("notebook: add url source: invalid youtube url %q", rawURL)
		}
		return c.AddYouTubeSource(ctx, projectID, videoID)
	}
	args := []any{
		[]any{
			[]any{nil, nil, []string{rawURL}},
		},
		projectID,
	}
	resp, err := c.call(ctx, rpcAddSources, args, projectID)
	if err != nil {
		return "", fmt.Errorf("notebook: add url source: %w", err)
	}
	return extractSourceID(resp)
}

// AddYouTubeSource attaches a YouTube video by its id. The video id sits bare
// in the tuple, unlike web URLs which are wrapped in a list.
func (c *Client) AddYouTubeSource(ctx context.Context, projectID, videoID string) (string, error) {
	args := []any{
		[]any{
			[]any{nil, nil, videoID, nil, int(SourceTypeYouTubeVideo)},
		},
		projectID,
	}
	resp, err := c.call(ctx, rpcAddSources, args, projectID)
	if err != nil {
		return "", fmt.Errorf("notebook: add youtube source: %w", err)
	}
	return extractSourceID(resp)
}

// AddSourceFromReader uploads arbitrary content, choosing text or base64
// transport by sniffing the content type from the filename.
func (c *Client) AddSourceFromReader(ctx context.Context, projectID string, r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("notebook: read source content: %w", err)
	}
	contentType := detectContentType(filename)
	if strings.HasPrefix(contentType, "text/") {
		return c.AddSourceFromText(ctx, projectID, string(content), filename)
	}
	encoded := base64.StdEncoding.EncodeToString(content)
	return c.AddSourceFromBase64(ctx, projectID, encoded, filename, contentType)
}

// AddSourceFromFile uploads a local file as a source.
func (c *Client) AddSourceFromFile(ctx context.Context, projectID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("notebook: open source file: %w", err)
	}
	defer f.Close()
	return c.AddSourceFromReader(ctx, projectID, f, filepath.Base(path))
}

// DeleteSources removes sources from a notebook.
func (c *Client) DeleteSources(ctx context.Context, projectID string, sourceIDs []string) error {
	if len(sourceIDs) == 0 {
		return nil
	}
	args := []any{
		[]any{[]any{[]any{sourceIDs}}},
	}
	if _, err := c.call(ctx, rpcDeleteSources, args, projectID); err != nil {
		return fmt.Errorf("notebook: delete sources: %w", err)
	}
	return nil
}

// RenameSource retitles a source.
func (c *Client) RenameSource(ctx context.Context, sourceID, title string) (Source, error) {
	return c.mutateSource(ctx, sourceID, map[string]string{"title": title})
}

func (c *Client) mutateSource(ctx context.Context, sourceID string, updates map[string]string) (Source, error) {
	resp, err := c.call(ctx, rpcMutateSource, []any{sourceID, updates}, "")
	if err != nil {
		return Source{}, fmt.Errorf("notebook: mutate source: %w", err)
	}
	src, ok := parseSourceHeader(resp)
	if !ok {
		return Source{}, malformedErr("mutate source")
	}
	return src, nil
}

// RefreshSource re-syncs a source from its origin.
func (c *Client) RefreshSource(ctx context.Context, sourceID string) (Source, error) {
	resp, err := c.call(ctx, rpcRefreshSource, []any{sourceID}, "")
	if err != nil {
		return Source{}, fmt.Errorf("notebook: refresh source: %w", err)
	}
	src, ok := parseSourceHeader(resp)
	if !ok {
		return Source{}, malformedErr("refresh source")
	}
	return src, nil
}

// parseSourceHeader reads the [[id,...], title, ...] shape returned by
// mutate, refresh and note operations.
func parseSourceHeader(resp any) (Source, bool) {
	title, ok := strAt(resp, 1)
	if !ok {
		return Source{}, false
	}
	src := Source{Title: title}
	if idWrap, ok := arrAt(resp, 0); ok && len(idWrap) > 0 {
		if id, ok := idWrap[0].(string); ok {
			src.ID = id
		}
	}
	return src, true
}

// extractSourceID digs the new source id out of an add-source response. The
// service nests it at varying depth depending on the source kind.
func extractSourceID(resp any) (string, error) {
	for _, path := range [][]int{
		{0, 0, 0, 0},
		{0, 0, 0},
		{0, 0},
	} {
		v := resp
		ok := true
		for _, i := range path {
			if v, ok = at(v, i); !ok {
				break
			}
		}
		if !ok {
			continue
		}
		if id, isStr := v.(string); isStr {
			return id, nil
		}
	}
	return "", fmt.Errorf("notebook: no source id in response")
}

func isYouTubeURL(rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be")
}

func youTubeVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if strings.Contains(rawURL, "youtu.be") {
		id := strings.Trim(u.Path, "/")
		return id, id != ""
	}
	if strings.Contains(rawURL, "youtube.com") && strings.Contains(u.Path, "/watch") {
		id := u.Query().Get("v")
		return id, id != ""
	}
	return "", false
}

// detectContentType maps well-known document extensions first, then falls
// back to the platform mime table.
func detectContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".pdf":
		return "application/pdf"
	case ".doc", ".docx":
		return "application/msword"
	case ".xls", ".xlsx":
		return "application/vnd.ms-excel"
	}
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
