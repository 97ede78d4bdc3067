package audio

import (
	"encoding/json/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFromFormat(t *testing.T) {
	raw := []byte(`{
		"format": {
			"format_name": "mp3,mp2",
			"duration": "185.3",
			"bit_rate": "320000",
			"tags": {"title": "Song A", "artist": "Artist A", "album": "Album A"}
		}
	}`)

	var data ffprobeOutput
	require.NoError(t, json.Unmarshal(raw, &data))

	meta := metadataFromFormat(&data.Format)
	assert.Equal(t, "mp3", meta.Format, "first container name wins")
	assert.Equal(t, time.Duration(185.3*float64(time.Second)), meta.Duration)
	assert.Equal(t, 320000, meta.Bitrate)
	assert.Equal(t, "Song A", meta.Title)
	assert.Equal(t, "Artist A", meta.Artist)
	assert.Equal(t, "Album A", meta.Album)
}

func TestMetadataFromFormat_MissingTags(t *testing.T) {
	meta := metadataFromFormat(&ffprobeFormat{FormatName: "flac"})
	assert.Equal(t, "flac", meta.Format)
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Artist)
	assert.Zero(t, meta.Duration)
}

func TestMetadataFromFormat_UnparsableNumbers(t *testing.T) {
	meta := metadataFromFormat(&ffprobeFormat{Duration: "N/A", BitRate: "unknown"})
	assert.Zero(t, meta.Duration)
	assert.Zero(t, meta.Bitrate)
}
