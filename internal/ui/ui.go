package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/repositories"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryListView ViewState = iota
	TrackListView
)

// Model represents the TUI application state: a read-only browser over the
// persisted catalog.
type Model struct {
	view            ViewState
	libraries       *repositories.LibraryRepository
	tracks          *repositories.TrackRepository
	width           int
	height          int
	libraryList     list.Model
	trackList       list.Model
	selectedLibrary *models.Library
	err             error
	help            help.Model
	keys            keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.quit},
	}
}

// librariesLoadedMsg carries the library list from the repository.
type librariesLoadedMsg struct {
	libraries []*models.Library
}

// tracksLoadedMsg carries one library's tracks from the repository.
type tracksLoadedMsg struct {
	tracks []*models.Track
}

// errMsg wraps repository failures for display.
type errMsg struct {
	err error
}

// New creates a catalog browser over the given repositories.
func New(libraries *repositories.LibraryRepository, tracks *repositories.TrackRepository) *Model {
	libraryList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	libraryList.Title = "Libraries"
	libraryList.Styles.Title = styles.title
	libraryList.SetShowHelp(false)

	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList.Styles.Title = styles.title
	trackList.SetShowHelp(false)

	return &Model{
		view:        LibraryListView,
		libraries:   libraries,
		tracks:      tracks,
		libraryList: libraryList,
		trackList:   trackList,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadLibraries
}

func (m *Model) loadLibraries() tea.Msg {
	libraries, err := m.libraries.List()
	if err != nil {
		return errMsg{err}
	}
	return librariesLoadedMsg{libraries}
}

func (m *Model) loadTracks(library *models.Library) tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.tracks.ListByLibrary(library.ID())
		if err != nil {
			return errMsg{err}
		}
		return tracksLoadedMsg{tracks}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.libraryList.SetSize(msg.Width, msg.Height-4)
		m.trackList.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case librariesLoadedMsg:
		items := make([]list.Item, 0, len(msg.libraries))
		for _, library := range msg.libraries {
			items = append(items, libraryItem{library})
		}
		m.libraryList.SetItems(items)
		return m, nil

	case tracksLoadedMsg:
		items := make([]list.Item, 0, len(msg.tracks))
		for _, track := range msg.tracks {
			items = append(items, trackItem{track})
		}
		m.trackList.SetItems(items)
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.enter):
			if m.view == LibraryListView {
				if item, ok := m.libraryList.SelectedItem().(libraryItem); ok {
					m.selectedLibrary = item.library
					m.trackList.Title = item.library.Name()
					m.view = TrackListView
					return m, m.loadTracks(item.library)
				}
			}

		case key.Matches(msg, m.keys.back):
			if m.view == TrackListView {
				m.view = LibraryListView
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case LibraryListView:
		m.libraryList, cmd = m.libraryList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("error: %v", m.err)) + "\n" +
			styles.help.Render("press q to quit")
	}

	var body string
	switch m.view {
	case TrackListView:
		body = m.trackList.View()
	default:
		body = m.libraryList.View()
	}

	return body + "\n" + m.help.View(m.keys)
}
