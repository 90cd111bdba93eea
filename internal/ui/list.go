package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mus/internal/models"
)

var (
	_ list.Item = libraryItem{}
	_ list.Item = trackItem{}
)

// libraryItem wraps [models.Library] to implement [list.Item].
type libraryItem struct {
	library *models.Library
}

func (i libraryItem) FilterValue() string { return i.library.Name() }
func (i libraryItem) Title() string       { return i.library.Name() }
func (i libraryItem) Description() string {
	if root := i.library.RootPath(); root != nil {
		return *root
	}
	return "ungrouped tracks"
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track *models.Track
}

func (i trackItem) FilterValue() string { return i.title() }
func (i trackItem) Title() string       { return i.title() }
func (i trackItem) Description() string {
	desc := i.track.Artist()
	if album := i.track.Album(); album != "" {
		if desc != "" {
			desc = fmt.Sprintf("%s • %s", desc, album)
		} else {
			desc = album
		}
	}
	length := fmt.Sprintf("%d:%02d", i.track.Length()/60, i.track.Length()%60)
	if desc == "" {
		return length
	}
	return fmt.Sprintf("%s • %s", desc, length)
}

func (i trackItem) title() string {
	if title := i.track.Title(); title != "" {
		return title
	}
	return i.track.Path()
}
