package player

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/dmarch/specfall/internal/util"
)

// Metadata holds song information.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// ReadMetadata reads ID3v2 tags, falling back to the filename. Non-MP3
// containers rarely carry ID3 frames, so the fallback is the common path
// for them.
func ReadMetadata(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		m := Metadata{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
			Album:  strings.TrimSpace(tag.Album()),
		}
		if m.Title != "" {
			return m
		}
	}

	base := filepath.Base(path)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

// InfoText builds the static overlay block describing the source: format,
// sample rate, channels, frame count and duration. Produced once at startup
// and handed to the display surface as-is.
func InfoText(src *Source, meta Metadata) string {
	var b strings.Builder
	if meta.Artist != "" {
		fmt.Fprintf(&b, "%s - %s\n", meta.Artist, meta.Title)
	} else {
		fmt.Fprintf(&b, "%s\n", meta.Title)
	}
	fmt.Fprintf(&b, "File: %s\n", src.Path)
	fmt.Fprintf(&b, "Format: %s\n", src.Format)
	fmt.Fprintf(&b, "Sample rate: %s\n", util.FormatHz(float64(src.SampleRate)))
	fmt.Fprintf(&b, "Channels: %d\n", src.Channels)
	fmt.Fprintf(&b, "Frames: %d\n", src.Frames)
	secs := float64(src.Frames) / float64(src.SampleRate)
	fmt.Fprintf(&b, "Duration: %.2f s", secs)
	return b.String()
}
