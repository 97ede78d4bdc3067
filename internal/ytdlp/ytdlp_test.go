package ytdlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput_FullMetadata(t *testing.T) {
	output := []byte(`{
		"id": "dQw4w9WgXcQ",
		"url": "https://cdn.example/audio.m4a",
		"title": "Never Gonna Give You Up",
		"artist": "Rick Astley",
		"uploader": "RickAstleyVEVO",
		"thumbnail": "https://i.example/thumb.jpg"
	}`)

	res, err := parseOutput(output)
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", res.ExternalID)
	assert.Equal(t, "https://cdn.example/audio.m4a", res.StreamURL)
	assert.Equal(t, "Never Gonna Give You Up", res.Title)
	assert.Equal(t, "Rick Astley", res.Artist, "artist tag wins over uploader")
	assert.Equal(t, "https://i.example/thumb.jpg", res.ThumbnailURL)
}

func TestParseOutput_UploaderFallback(t *testing.T) {
	output := []byte(`{"id": "abc", "url": "https://cdn.example/a", "title": "Some Mix", "uploader": "lofi channel"}`)

	res, err := parseOutput(output)
	require.NoError(t, err)
	assert.Equal(t, "lofi channel", res.Artist)
}

func TestParseOutput_UnknownFallbacks(t *testing.T) {
	output := []byte(`{"id": "abc", "url": "https://cdn.example/a"}`)

	res, err := parseOutput(output)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Title", res.Title)
	assert.Equal(t, "Unknown Artist", res.Artist)
}

func TestParseOutput_NoStreamURL(t *testing.T) {
	output := []byte(`{"id": "abc", "title": "Region locked"}`)

	_, err := parseOutput(output)
	assert.ErrorIs(t, err, ErrNoStream)
}

func TestParseOutput_Garbage(t *testing.T) {
	_, err := parseOutput([]byte("WARNING: not json at all"))
	assert.Error(t, err)
}

func TestNewClient_DefaultBinary(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, "yt-dlp", c.binary)

	c = NewClient("/opt/tools/yt-dlp", 0)
	assert.Equal(t, "/opt/tools/yt-dlp", c.binary)
}
