package notebook

import (
	"context"
	"errors"
	"fmt"
)

// CreateAudioOverview kicks off audio overview generation. The returned
// overview carries no audio until IsReady is set; poll with
// GetAudioOverview.
func (c *Client) CreateAudioOverview(ctx context.Context, projectID, instructions string) (AudioOverview, error) {
	if projectID == "" {
		return AudioOverview{}, errors.New("notebook: project id required")
	}
	if instructions == "" {
		return AudioOverview{}, errors.New("notebook: instructions required")
	}
	args := []any{
		projectID,
		0,
		[]string{instructions},
	}
	resp, err := c.call(ctx, rpcCreateAudioOverview, args, projectID)
	if err != nil {
		return AudioOverview{}, fmt.Errorf("notebook: create audio overview: %w", err)
	}
	// Generation may still be in progress; an incomplete row is not an error.
	return parseAudioOverview(projectID, resp), nil
}

// GetAudioOverview fetches the current audio overview state.
func (c *Client) GetAudioOverview(ctx context.Context, projectID string) (AudioOverview, error) {
	resp, err := c.call(ctx, rpcGetAudioOverview, []any{projectID, 1}, projectID)
	if err != nil {
		return AudioOverview{}, fmt.Errorf("notebook: get audio overview: %w", err)
	}
	return parseAudioOverview(projectID, resp), nil
}

// DeleteAudioOverview removes a notebook's audio overview.
func (c *Client) DeleteAudioOverview(ctx context.Context, projectID string) error {
	if _, err := c.call(ctx, rpcDeleteAudioOverview, []any{projectID}, projectID); err != nil {
		return fmt.Errorf("notebook: delete audio overview: %w", err)
	}
	return nil
}

// ShareAudio publishes or restricts an audio overview.
func (c *Client) ShareAudio(ctx context.Context, projectID string, opt ShareOption) (ShareAudioResult, error) {
	args := []any{
		[]int{int(opt)},
		projectID,
	}
	resp, err := c.call(ctx, rpcShareAudio, args, projectID)
	if err != nil {
		return ShareAudioResult{}, fmt.Errorf("notebook: share audio: %w", err)
	}
	result := ShareAudioResult{IsPublic: opt == SharePublic}
	if share, ok := at(resp, 0); ok {
		result.ShareURL, _ = strAt(share, 0)
		result.ShareID, _ = strAt(share, 1)
	}
	return result, nil
}

// parseAudioOverview reads the audio row at position 2:
// [status, audioData, id, title, _, isReady].
func parseAudioOverview(projectID string, resp any) AudioOverview {
	overview := AudioOverview{ProjectID: projectID}
	row, ok := at(resp, 2)
	if !ok {
		return overview
	}
	overview.AudioData, _ = strAt(row, 1)
	overview.AudioID, _ = strAt(row, 2)
	overview.Title, _ = strAt(row, 3)
	overview.IsReady, _ = boolAt(row, 5)
	return overview
}
