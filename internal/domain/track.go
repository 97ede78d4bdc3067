package domain

import "time"

// Track is a playable file found in the local music folder. Tracks live in
// an in-memory scan snapshot, not in the database.
type Track struct {
	// FileName is the base name within the music folder.
	FileName string `json:"file_name"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration time.Duration `json:"duration"`
	// StreamPath is the URL path the file is served under, e.g. "/music/a.mp3".
	StreamPath string `json:"stream_path"`
	Format     string `json:"format,omitempty"`
	Bitrate    int    `json:"bitrate,omitempty"`
}
