package notebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// NotebookGuide generates a study guide over the notebook's sources.
func (c *Client) NotebookGuide(ctx context.Context, projectID string) (string, error) {
	return c.generate(ctx, rpcGenerateNotebookGuide, projectID, "notebook guide")
}

// Outline generates a content outline.
func (c *Client) Outline(ctx context.Context, projectID string) (string, error) {
	return c.generate(ctx, rpcGenerateOutline, projectID, "outline")
}

// Section generates a new content section.
func (c *Client) Section(ctx context.Context, projectID string) (string, error) {
	return c.generate(ctx, rpcGenerateSection, projectID, "section")
}

func (c *Client) generate(ctx context.Context, rpcID, projectID, op string) (string, error) {
	resp, err := c.call(ctx, rpcID, []any{projectID}, projectID)
	if err != nil {
		return "", fmt.Errorf("notebook: generate %s: %w", op, err)
	}
	content, _ := strAt(resp, 0)
	return content, nil
}

// AskQuestion asks a free-form question over the notebook's sources and
// returns the first answer suggestion. sourceIDs narrows the context; empty
// means all sources.
func (c *Client) AskQuestion(ctx context.Context, projectID, question string, sourceIDs []string) (string, error) {
	if projectID == "" {
		return "", errors.New("notebook: project id required")
	}
	if question == "" {
		return "", errors.New("notebook: question required")
	}

	sourceList := make([]any, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		sourceList = append(sourceList, []any{[]any{id}})
	}
	// The middle tuple is opaque front-end state captured from live traffic.
	args := []any{
		sourceList,
		[]any{nil, nil, nil, nil, nil, nil, 2, nil, nil, 2},
		[]string{question},
	}

	resp, err := c.call(ctx, rpcActOnSources, args, projectID)
	if err != nil {
		return "", fmt.Errorf("notebook: ask question: %w", err)
	}
	// The answer payload is double-wrapped: some responses arrive as a JSON
	// string that needs one more decode.
	if s, ok := resp.(string); ok {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return "", fmt.Errorf("notebook: ask question: parse answer payload: %w", err)
		}
		resp = v
	}

	answers, ok := arrAt(resp, 2)
	if !ok || len(answers) == 0 {
		return "", malformedErr("ask question")
	}
	answer, ok := strAt(answers[0], 0)
	if !ok {
		return "", malformedErr("ask question")
	}
	return answer, nil
}
