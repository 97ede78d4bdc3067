// Package search provides full-text search over the scanned music library
// using an in-memory Bleve index. The index is rebuilt wholesale on every
// library scan, so it never persists to disk.
package search

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/offtherecordapp/otr-server/internal/domain"
)

// TrackDocument is the indexed representation of a library track.
// Folded variants let "Beyonce" match "Beyoncé" without a custom analyzer.
type TrackDocument struct {
	FileName     string `json:"file_name"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	TitleFolded  string `json:"title_folded"`
	ArtistFolded string `json:"artist_folded"`
}

// foldTransformer strips combining marks after canonical decomposition.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes diacritics from s. Returns s unchanged if folding fails.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}

// DocumentFromTrack maps a track into its indexable form. The file name
// doubles as the document ID since it is unique within the music folder.
func DocumentFromTrack(track *domain.Track) *TrackDocument {
	return &TrackDocument{
		FileName:     track.FileName,
		Title:        track.Title,
		Artist:       track.Artist,
		TitleFolded:  Fold(track.Title),
		ArtistFolded: Fold(track.Artist),
	}
}

func (d *TrackDocument) toMap() map[string]any {
	return map[string]any{
		"file_name":     d.FileName,
		"title":         d.Title,
		"artist":        d.Artist,
		"title_folded":  d.TitleFolded,
		"artist_folded": d.ArtistFolded,
	}
}
