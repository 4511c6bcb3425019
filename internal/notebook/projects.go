package notebook

import (
	"context"
	"fmt"
	"time"
)

// ListRecentlyViewed returns the caller's notebooks, most recent first.
func (c *Client) ListRecentlyViewed(ctx context.Context) ([]Project, error) {
	resp, err := c.call(ctx, rpcListRecentlyViewedProjects, []any{nil, 1}, "")
	if err != nil {
		return nil, fmt.Errorf("notebook: list projects: %w", err)
	}
	rows, ok := arrAt(resp, 0)
	if !ok {
		return nil, nil
	}
	projects := make([]Project, 0, len(rows))
	for _, row := range rows {
		p, ok := parseProjectSummary(row)
		if !ok {
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Create makes a new notebook and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, title, emoji string) (Project, error) {
	resp, err := c.call(ctx, rpcCreateProject, []any{title, emoji}, "")
	if err != nil {
		return Project{}, fmt.Errorf("notebook: create project: %w", err)
	}
	id, ok := strAt(resp, 2)
	if !ok {
		return Project{}, malformedErr("create project")
	}
	return Project{ID: id, Title: title, Emoji: emoji}, nil
}

// Get fetches a notebook with its sources.
func (c *Client) Get(ctx context.Context, projectID string) (Project, error) {
	resp, err := c.call(ctx, rpcGetProject, []any{projectID}, projectID)
	if err != nil {
		return Project{}, fmt.Errorf("notebook: get project: %w", err)
	}
	row, ok := at(resp, 0)
	if !ok {
		return Project{}, malformedErr("get project")
	}

	p := Project{}
	p.Title, _ = strAt(row, 0)
	p.ID, _ = strAt(row, 2)
	p.Emoji, _ = strAt(row, 3)
	if meta, ok := at(row, 4); ok {
		p.Metadata = parseProjectMetadata(meta)
	}
	if sources, ok := arrAt(row, 1); ok {
		p.Sources = make([]Source, 0, len(sources))
		for _, s := range sources {
			src, ok := parseSource(s)
			if !ok {
				continue
			}
			p.Sources = append(p.Sources, src)
		}
	}
	return p, nil
}

// Rename changes a notebook's title.
func (c *Client) Rename(ctx context.Context, projectID, title string) error {
	_, err := c.call(ctx, rpcMutateProject, []any{projectID, map[string]string{"title": title}}, projectID)
	if err != nil {
		return fmt.Errorf("notebook: rename project: %w", err)
	}
	return nil
}

// Delete removes the given notebooks.
func (c *Client) Delete(ctx context.Context, projectIDs []string) error {
	if len(projectIDs) == 0 {
		return nil
	}
	_, err := c.call(ctx, rpcDeleteProjects, []any{projectIDs}, "")
	if err != nil {
		return fmt.Errorf("notebook: delete projects: %w", err)
	}
	return nil
}

// RemoveRecentlyViewed drops a notebook from the recents list without
// deleting it.
func (c *Client) RemoveRecentlyViewed(ctx context.Context, projectID string) error {
	_, err := c.call(ctx, rpcRemoveRecentlyViewed, []any{projectID}, "")
	if err != nil {
		return fmt.Errorf("notebook: remove recently viewed: %w", err)
	}
	return nil
}

// parseProjectSummary reads one row of the recents listing. The listing
// carries sources as bare counts only, so Sources stays nil here.
func parseProjectSummary(row any) (Project, bool) {
	title, ok := strAt(row, 0)
	if !ok {
		return Project{}, false
	}
	id, ok := strAt(row, 2)
	if !ok {
		return Project{}, false
	}
	p := Project{Title: title, ID: id}
	p.Emoji, _ = strAt(row, 3)
	if meta, ok := at(row, 5); ok {
		p.Metadata = parseProjectMetadata(meta)
	}
	return p, true
}

func parseProjectMetadata(meta any) *ProjectMetadata {
	m := &ProjectMetadata{}
	if role, ok := numAt(meta, 0); ok {
		m.UserRole = int(role)
	}
	if active, ok := boolAt(meta, 1); ok {
		m.SessionActive = active
	}
	if sec, nanos, ok := timeAt(meta, 5); ok {
		m.ModifiedTime = time.Unix(sec, nanos).UTC()
	}
	if typ, ok := numAt(meta, 6); ok {
		m.Type = int(typ)
	}
	if starred, ok := boolAt(meta, 7); ok {
		m.IsStarred = starred
	}
	if sec, nanos, ok := timeAt(meta, 8); ok {
		m.CreateTime = time.Unix(sec, nanos).UTC()
	}
	return m
}

// parseSource reads one source row: [[id], title, metadata, settings, ...].
func parseSource(row any) (Source, bool) {
	idWrap, ok := arrAt(row, 0)
	if !ok || len(idWrap) == 0 {
		return Source{}, false
	}
	id, ok := idWrap[0].(string)
	if !ok {
		return Source{}, false
	}
	src := Source{ID: id}
	src.Title, _ = strAt(row, 1)
	if meta, ok := at(row, 2); ok {
		if typ, ok := numAt(meta, 4); ok {
			src.Type = SourceType(typ)
		}
	}
	if settings, ok := at(row, 3); ok {
		if status, ok := numAt(settings, 1); ok {
			src.Status = SourceStatus(status)
		}
	}
	return src, true
}
