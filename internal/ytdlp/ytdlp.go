// Package ytdlp resolves playable audio stream URLs by shelling out to
// the yt-dlp binary. A single invocation with --print-json returns both
// the direct media URL and the source metadata in one pass.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrNoStream is returned when yt-dlp ran but produced no direct media URL.
var ErrNoStream = errors.New("ytdlp: no playable stream in output")

const defaultBinary = "yt-dlp"

// Resolution is the playable result for a source URL.
type Resolution struct {
	ExternalID   string `json:"external_id"`
	StreamURL    string `json:"stream_url"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Client invokes yt-dlp with a bounded timeout per call.
type Client struct {
	binary  string
	timeout time.Duration
}

// NewClient creates a resolver client. An empty binary path falls back to
// looking up "yt-dlp" on PATH.
func NewClient(binary string, timeout time.Duration) *Client {
	if binary == "" {
		binary = defaultBinary
	}
	return &Client{binary: binary, timeout: timeout}
}

// Resolve runs yt-dlp against sourceURL and returns the best audio stream.
func (c *Client) Resolve(ctx context.Context, sourceURL string) (*Resolution, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"-f", "bestaudio/best",
		"--no-playlist",
		"--print-json",
		"--no-progress",
		sourceURL,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("yt-dlp timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("yt-dlp failed: %w (%s)", err, firstLine(stderr.String()))
	}

	return parseOutput(output)
}

// parseOutput extracts a Resolution from yt-dlp's JSON metadata dump.
func parseOutput(output []byte) (*Resolution, error) {
	var meta struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		Title     string `json:"title"`
		Artist    string `json:"artist"`
		Uploader  string `json:"uploader"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(output), &meta); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	if meta.URL == "" {
		return nil, ErrNoStream
	}

	res := &Resolution{
		ExternalID:   meta.ID,
		StreamURL:    meta.URL,
		Title:        meta.Title,
		Artist:       meta.Artist,
		ThumbnailURL: meta.Thumbnail,
	}

	// Fall back the way clients expect: uploader stands in for a missing
	// artist tag, and both fields always carry something displayable.
	if res.Title == "" {
		res.Title = "Unknown Title"
	}
	if res.Artist == "" {
		res.Artist = meta.Uploader
	}
	if res.Artist == "" {
		res.Artist = "Unknown Artist"
	}

	return res, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
