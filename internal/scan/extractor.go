package scan

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/shared"
	"go.senan.xyz/taglib"
)

// Extraction is the successful outcome of reading one media file: its tags
// plus the stream properties every track requires.
type Extraction struct {
	Metadata   models.TrackMetadata
	Length     int // seconds
	Bitrate    int // kbit/s
	Samplerate int // Hz
}

// Extractor reads media tags and stream properties from a file.
//
// Extract returns an error wrapping [shared.ErrNotMedia] when the file is not
// a readable media file (an expected outcome, never fatal to a scan), or one
// wrapping [shared.ErrExtraction] for I/O-class failures on that path.
type Extractor interface {
	Extract(path string) (*Extraction, error)
}

var _ Extractor = TagLibExtractor{}

// TagLibExtractor reads tags and audio properties with taglib.
type TagLibExtractor struct{}

func (TagLibExtractor) Extract(path string) (*Extraction, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrExtraction, path, err)
	}

	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotMedia, path)
	}

	length := int(props.Length / time.Second)
	// A file without usable stream properties is not a valid track.
	if length <= 0 || props.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %s has no stream properties", shared.ErrNotMedia, path)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		// Properties were readable, so keep the track with bare metadata.
		tags = nil
	}

	meta := models.TrackMetadata{
		Title:       firstTagValue(tags, taglib.Title, "TITLE"),
		Artist:      firstTagValue(tags, taglib.Artist, "ARTIST"),
		Album:       firstTagValue(tags, taglib.Album, "ALBUM"),
		Comment:     firstTagValue(tags, "COMMENT"),
		Genre:       firstTagValue(tags, taglib.Genre, "GENRE"),
		Year:        leadingInt(firstTagValue(tags, taglib.Date, "DATE", "YEAR", "ORIGINALDATE")),
		TrackNumber: leadingInt(firstTagValue(tags, taglib.TrackNumber, "TRACKNUMBER", "TRCK")),
	}

	return &Extraction{
		Metadata:   meta,
		Length:     length,
		Bitrate:    int(props.Bitrate),
		Samplerate: int(props.SampleRate),
	}, nil
}

func firstTagValue(tags map[string][]string, keys ...string) string {
	for _, key := range keys {
		for _, value := range tags[key] {
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// leadingInt parses the leading digits of a tag value, so "2004-05-01" yields
// 2004 and "3/12" yields 3. Returns zero when there are none.
func leadingInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
