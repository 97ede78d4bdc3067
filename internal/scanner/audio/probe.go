// Package audio extracts metadata from local audio files via ffprobe.
package audio

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Metadata holds the fields a music library cares about.
type Metadata struct {
	Title    string
	Artist   string
	Album    string
	Format   string
	Duration time.Duration
	Bitrate  int
}

// Prober extracts metadata from a single audio file.
type Prober interface {
	Probe(ctx context.Context, path string) (*Metadata, error)
}

// FFprobe shells out to the ffprobe binary for metadata extraction.
type FFprobe struct{}

// NewFFprobe creates an ffprobe-backed prober.
func NewFFprobe() *FFprobe {
	return &FFprobe{}
}

// Probe runs ffprobe against path and parses its JSON output.
func (p *FFprobe) Probe(ctx context.Context, path string) (*Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var data ffprobeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	return metadataFromFormat(&data.Format), nil
}

func metadataFromFormat(format *ffprobeFormat) *Metadata {
	meta := &Metadata{}

	if format.FormatName != "" {
		// First entry of e.g. "mp3,mp2" is the container we report.
		meta.Format = strings.Split(format.FormatName, ",")[0]
	}
	if format.Duration != "" {
		if dur, err := strconv.ParseFloat(format.Duration, 64); err == nil {
			meta.Duration = time.Duration(dur * float64(time.Second))
		}
	}
	if format.BitRate != "" {
		if br, err := strconv.Atoi(format.BitRate); err == nil {
			meta.Bitrate = br
		}
	}

	if format.Tags != nil {
		meta.Title = format.Tags["title"]
		meta.Artist = format.Tags["artist"]
		meta.Album = format.Tags["album"]
	}

	return meta
}

// ffprobeOutput mirrors the subset of ffprobe's -show_format JSON we read.
type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	Tags       map[string]string `json:"tags"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
}
