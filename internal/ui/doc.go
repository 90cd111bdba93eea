// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a read-only browser over the persisted catalog:
//  1. [LibraryListView] : Browse libraries (scanned roots plus the ungrouped scope)
//  2. [TrackListView] : Browse one library's tracks with title, artist, album and length
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern,
// loading data through the repositories' read surface only; it never mutates the catalog.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
