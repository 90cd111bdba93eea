package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrNoDataDir     = fmt.Errorf("no viable data directory")

	// Filesystem errors (fail a scan outright)
	ErrFilesystem = fmt.Errorf("filesystem error")

	// Extraction outcomes. ErrNotMedia is the expected "this file is not a
	// readable media file" result; ErrExtraction is an I/O-class failure on a
	// single path. Neither fails a scan.
	ErrNotMedia   = fmt.Errorf("not a media file")
	ErrExtraction = fmt.Errorf("extraction failed")

	// Storage errors
	ErrStorage          = fmt.Errorf("storage error")
	ErrLibraryNotFound  = fmt.Errorf("library not found")
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Scan errors
	ErrScanInProgress   = fmt.Errorf("scan already in progress")
	ErrUngroupedLibrary = fmt.Errorf("library has no root path")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
