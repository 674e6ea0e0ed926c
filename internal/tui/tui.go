// Package tui provides a Bubble Tea terminal user interface for
// springer-dl: browse packages and subjects, then download a topic's
// books without memorizing topic IDs.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"springerdl/internal/catalog"
	"springerdl/internal/config"
	"springerdl/internal/download"
	httpx "springerdl/internal/http"
	"springerdl/internal/logging"
	"springerdl/internal/model"
	"springerdl/internal/springer"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateBrowsePackages
	StateBrowseSubjects
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model

	packagesTable table.Model
	subjectsTable table.Model

	settings *config.Settings
	manager  *download.Manager
	index    *catalog.Index

	// events carries progress events from the manager goroutine into
	// the Bubble Tea loop.
	events chan download.ProgressEvent

	logs   []LogEntry
	report *download.Report
	err    error

	ctx    context.Context
	cancel context.CancelFunc

	group bool

	// Download progress
	downloadedFiles int32
	totalFiles      int32
	receivedBytes   int64

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B500"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	settings := config.DefaultSettings()
	logger := logging.NewDefaultLogger(slog.LevelError)
	client := httpx.NewClient(time.Duration(settings.HTTPTimeoutSeconds)*time.Second, settings.UserAgent)
	listing := springer.NewListing(client, settings.ListingURL, settings.CachePath, logger)

	events := make(chan download.ProgressEvent, 64)
	manager := download.NewManager(settings, listing, logger, func(event download.ProgressEvent) {
		select {
		case events <- event:
		default:
		}
	})

	return Model{
		state:    StateLoading,
		spinner:  sp,
		progress: prog,
		settings: settings,
		manager:  manager,
		events:   events,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.spinner.Tick, m.listenEvents())
}

// Message types
type (
	// CatalogDoneMsg is sent when the catalog has been built.
	CatalogDoneMsg struct {
		Index *catalog.Index
		Err   error
	}

	// ProgressMsg carries one download progress event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DownloadDoneMsg is sent when a download batch finishes.
	DownloadDoneMsg struct {
		Report *download.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case CatalogDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.index = msg.Index
			m.packagesTable = packagesTable(m.index)
			m.state = StateBrowsePackages
		}

	case ProgressMsg:
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}
		cmds = append(cmds, m.listenEvents())

	case DownloadDoneMsg:
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.report = msg.Report
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateDownloading {
			received, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.downloadedFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case "q":
		if m.state != StateDownloading {
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case "esc":
		switch m.state {
		case StateBrowseSubjects:
			m.state = StateBrowsePackages
		case StateDownloading:
			m.cancel()
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case StateLoading:
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case "enter":
		if m.state == StateBrowsePackages {
			if id, ok := selectedID(m.packagesTable); ok {
				m.subjectsTable = subjectsTable(m.index, id)
				m.state = StateBrowseSubjects
			}
		}
		return m, nil

	case "g":
		if m.state == StateBrowsePackages || m.state == StateBrowseSubjects {
			m.group = !m.group
			m.settings.GroupByPackage = m.group
		}
		return m, nil

	case "p", "e":
		format := model.FormatPDF
		if msg.String() == "e" {
			format = model.FormatEPUB
		}
		var tbl *table.Model
		switch m.state {
		case StateBrowsePackages:
			tbl = &m.packagesTable
		case StateBrowseSubjects:
			tbl = &m.subjectsTable
		default:
			return m, nil
		}
		if id, ok := selectedID(*tbl); ok {
			m.state = StateDownloading
			m.logs = nil
			m.report = nil
			return m, tea.Batch(m.startDownload([]int{id}, format), m.tickProgress(), m.spinner.Tick)
		}
		return m, nil

	case "r":
		if m.state == StateComplete || m.state == StateError {
			m.logs = nil
			m.err = nil
			m.ctx, m.cancel = context.WithCancel(context.Background())
			if m.index != nil {
				m.state = StateBrowsePackages
			} else {
				m.state = StateLoading
				return m, tea.Batch(m.loadCatalog(), m.spinner.Tick)
			}
		}
		return m, nil
	}

	// Unhandled keys drive the focused table (navigation).
	switch m.state {
	case StateBrowsePackages:
		var cmd tea.Cmd
		m.packagesTable, cmd = m.packagesTable.Update(msg)
		return m, cmd
	case StateBrowseSubjects:
		var cmd tea.Cmd
		m.subjectsTable, cmd = m.subjectsTable.Update(msg)
		return m, cmd
	}

	return m, nil
}

// selectedID parses the topic ID out of the selected table row.
func selectedID(t table.Model) (int, bool) {
	row := t.SelectedRow()
	if row == nil {
		return 0, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return 0, false
	}
	return id, true
}

func packagesTable(ix *catalog.Index) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "PACKAGE NAME", Width: 50},
		{Title: "BOOKS", Width: 6},
	}

	var rows []table.Row
	for _, p := range ix.Packages() {
		rows = append(rows, table.Row{strconv.Itoa(p.ID), p.Name, strconv.Itoa(p.Books)})
	}

	return newTable(columns, rows)
}

func subjectsTable(ix *catalog.Index, packageID int) table.Model {
	columns := []table.Column{
		{Title: "SUBJ ID", Width: 8},
		{Title: "SUBJECT NAME", Width: 50},
		{Title: "IN PACKAGES", Width: 16},
		{Title: "BOOKS", Width: 6},
	}

	var rows []table.Row
	for _, s := range ix.Subjects([]int{packageID}) {
		pkgIDs := make([]string, 0, len(s.Packages))
		for _, id := range s.Packages {
			pkgIDs = append(pkgIDs, strconv.Itoa(id))
		}
		rows = append(rows, table.Row{
			strconv.Itoa(s.ID), s.Name, strings.Join(pkgIDs, ", "), strconv.Itoa(s.Books),
		})
	}

	return newTable(columns, rows)
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return t
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// listenEvents waits for the next manager progress event.
func (m Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Event: <-m.events}
	}
}

// loadCatalog builds the taxonomy index in the background.
func (m Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		ix, err := m.manager.Catalog(m.ctx, false)
		return CatalogDoneMsg{Index: ix, Err: err}
	}
}

// startDownload runs a download batch in the background.
func (m Model) startDownload(topicIDs []int, format model.Format) tea.Cmd {
	return func() tea.Msg {
		report, err := m.manager.DownloadByTopics(m.ctx, topicIDs, format)
		return DownloadDoneMsg{Report: report, Err: err}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("springer-dl"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Browse and download free Springer books"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StateBrowsePackages:
		b.WriteString(subtitleStyle.Render("Available packages:"))
		b.WriteString("\n\n")
		b.WriteString(m.packagesTable.View())
	case StateBrowseSubjects:
		b.WriteString(subtitleStyle.Render("Subjects in the selected package:"))
		b.WriteString("\n\n")
		b.WriteString(m.subjectsTable.View())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoading() string {
	return m.spinner.View() + " " + subtitleStyle.Render("Fetching the book listing...")
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Books: %d/%d | Downloaded: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	downloaded, failed := 0, 0
	if m.report != nil {
		downloaded, failed = m.report.Downloaded, m.report.Failed
	}

	return boxStyle.Render(fmt.Sprintf(
		"Download complete\n\n"+
			"Books: %d\n"+
			"Failed: %d\n"+
			"Size: %.2f MB",
		downloaded,
		failed,
		float64(m.receivedBytes)/1024/1024,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		switch log.Level {
		case download.LevelError:
			style = errorStyle
		case download.LevelWarning:
			style = warningStyle
		case download.LevelSuccess:
			style = successStyle
		case download.LevelInfo:
			style = infoStyle
		default:
			style = dimStyle
		}
		b.WriteString(style.Render("- " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	group := "off"
	if m.group {
		group = "on"
	}
	switch m.state {
	case StateLoading:
		return "esc: quit"
	case StateBrowsePackages:
		return fmt.Sprintf("enter: subjects | p: download pdf | e: download epub | g: group by package (%s) | q: quit", group)
	case StateBrowseSubjects:
		return fmt.Sprintf("p: download pdf | e: download epub | g: group by package (%s) | esc: back | q: quit", group)
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: back to catalog | q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
