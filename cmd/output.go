package main

import "github.com/desertthunder/mus/internal/models"

type libraryJSON struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	RootPath *string `json:"root_path"`
}

type trackJSON struct {
	ID         string `json:"id"`
	LibraryID  string `json:"library_id"`
	Path       string `json:"path"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
	Comment    string `json:"comment,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Year       int    `json:"year,omitempty"`
	TrackNo    int    `json:"track_no,omitempty"`
	Length     int    `json:"length"`
	Bitrate    int    `json:"bitrate"`
	Samplerate int    `json:"samplerate"`
	Rating     *int   `json:"rating,omitempty"`
}

func newLibraryJSON(library *models.Library) libraryJSON {
	return libraryJSON{
		ID:       library.ID(),
		Name:     library.Name(),
		RootPath: library.RootPath(),
	}
}

func newTrackJSON(track *models.Track) trackJSON {
	meta := track.Metadata()
	return trackJSON{
		ID:         track.ID(),
		LibraryID:  track.LibraryID(),
		Path:       track.Path(),
		Title:      meta.Title,
		Artist:     meta.Artist,
		Album:      meta.Album,
		Comment:    meta.Comment,
		Genre:      meta.Genre,
		Year:       meta.Year,
		TrackNo:    meta.TrackNumber,
		Length:     track.Length(),
		Bitrate:    track.Bitrate(),
		Samplerate: track.Samplerate(),
		Rating:     track.Rating(),
	}
}
