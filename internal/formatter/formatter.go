// package formatter provides functions to export the track catalog to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/mus/internal/models"
)

// ExportToCSV renders tracks as CSV with columns: Path, Title, Artist, Album, Genre, Year, Track, Length, Bitrate, Samplerate
func ExportToCSV(tracks []*models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Path", "Title", "Artist", "Album", "Genre", "Year", "Track", "Length", "Bitrate", "Samplerate"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		meta := track.Metadata()
		record := []string{
			track.Path(),
			meta.Title,
			meta.Artist,
			meta.Album,
			meta.Genre,
			optionalInt(meta.Year),
			optionalInt(meta.TrackNumber),
			strconv.Itoa(track.Length()),
			strconv.Itoa(track.Bitrate()),
			strconv.Itoa(track.Samplerate()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders tracks as a Markdown table under a title heading
func ExportToMarkdown(title string, tracks []*models.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("%d tracks\n\n", len(tracks)))
	buf.WriteString("| # | Title | Artist | Album | Length |\n")
	buf.WriteString("|---|-------|--------|-------|--------|\n")

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1,
			displayTitle(track),
			track.Artist(),
			track.Album(),
			formatLength(track.Length()),
		))
	}

	return buf.Bytes()
}

// ExportToText renders tracks as aligned plain text, one track per line
func ExportToText(tracks []*models.Track) []byte {
	var buf bytes.Buffer

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%4d. %s", i+1, displayTitle(track)))
		if artist := track.Artist(); artist != "" {
			buf.WriteString(fmt.Sprintf(" • %s", artist))
		}
		buf.WriteString(fmt.Sprintf(" [%s]\n", formatLength(track.Length())))
	}

	return buf.Bytes()
}

// displayTitle falls back to the path when a file carried no title tag.
func displayTitle(track *models.Track) string {
	if title := track.Title(); title != "" {
		return title
	}
	return track.Path()
}

// formatLength renders a length in seconds as m:ss.
func formatLength(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func optionalInt(i int) string {
	if i == 0 {
		return ""
	}
	return strconv.Itoa(i)
}
