package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/catalog"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/desertthunder/phototag/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ScanView ViewState = iota
	ImageListView
	ImageView
	HistoryView
	TagsView
)

type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputImageTag
	inputStoreTag
)

// ModelOpts holds the dependencies of a [Model].
type ModelOpts struct {
	Root    string
	Scanner *tasks.Scanner
	Engine  *tasks.RenameEngine
	Tags    *catalog.TagStore
	History *catalog.HistoryStore   // persisted after tag-only changes; renames persist through observers
	Open    func(path string) error // opens a directory in the system file browser
	Logger  *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	root    string
	scanner *tasks.Scanner
	engine  *tasks.RenameEngine
	tags    *catalog.TagStore
	history *catalog.HistoryStore
	open    func(string) error
	logger  *log.Logger

	width       int
	height      int
	imageList   list.Model
	historyList list.Model
	tagList     list.Model
	input       textinput.Model
	inputFor    inputPurpose

	records  []*models.ImageRecord
	selected *models.ImageRecord
	checked  map[string]bool
	cursor   int

	progressChan chan tasks.ProgressUpdate
	scanDone     chan Msg
	progress     tasks.ProgressUpdate

	status    string
	statusErr bool
	reported  []error
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model. Observer failures reported by the engine are shown on the status line.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	input := textinput.New()
	input.Placeholder = "Enter a new tag..."
	input.CharLimit = 64

	m := &Model{
		ctx:         ctx,
		view:        ScanView,
		root:        opts.Root,
		scanner:     opts.Scanner,
		engine:      opts.Engine,
		tags:        opts.Tags,
		history:     opts.History,
		open:        opts.Open,
		logger:      opts.Logger,
		imageList:   newList("Images", nil),
		historyList: newList("History", nil),
		tagList:     newList("Tags", nil),
		input:       input,
		checked:     map[string]bool{},
		help:        help.New(),
		keys:        newKeyMap(),
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.open == nil {
		m.open = shared.OpenPath
	}
	m.engine.SetReporter(func(err error) { m.reported = append(m.reported, err) })
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return l
}

// Init starts the directory scan.
func (m *Model) Init() tea.Cmd {
	return m.startScan()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.imageList, &m.historyList, &m.tagList} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.inputFor != inputNone {
			return m.handleInputKeys(msg)
		}
		switch m.view {
		case ScanView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ImageListView:
			return m.handleImageListKeys(msg)
		case ImageView:
			return m.handleImageKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case TagsView:
			return m.handleTagsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgScanProgress:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgScanComplete:
		res := msg.data.(scanResult)
		m.progressChan, m.scanDone = nil, nil
		if res.err != nil && !errors.Is(res.err, context.Canceled) {
			m.err = res.err
			return m, nil
		}
		m.records = res.records
		m.view = ImageListView
		m.setStatus(fmt.Sprintf("Found %d images in %s", len(res.records), m.root), false)
		return m, m.refreshImages()

	case MsgLocationOpened:
		res := msg.data.(openResult)
		if res.err != nil {
			m.setStatus(fmt.Sprintf("Failed to open file location: %v", res.err), true)
		} else {
			m.setStatus("Opened "+res.path, false)
		}
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case ScanView:
		body = m.renderScan()
	case ImageListView:
		body = m.renderImageList()
	case ImageView:
		body = m.renderImage()
	case HistoryView:
		body = m.renderHistory()
	case TagsView:
		body = m.renderTags()
	}

	if m.inputFor != inputNone {
		body = fmt.Sprintf("%s\n\n%s", body, m.input.View())
	}
	if line := m.renderStatus(); line != "" {
		body = fmt.Sprintf("%s\n\n%s", body, line)
	}
	return body
}

func (m *Model) handleImageListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.imageList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.imageList, cmd = m.imageList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if rec := m.selectedImage(); rec != nil {
			m.selectImage(rec)
			m.view = ImageView
		}
		return m, nil
	case key.Matches(msg, m.keys.history):
		if rec := m.selectedImage(); rec != nil {
			m.selectImage(rec)
			return m, m.showHistory()
		}
		return m, nil
	case key.Matches(msg, m.keys.tags):
		return m, m.showTags()
	case key.Matches(msg, m.keys.open):
		if rec := m.selectedImage(); rec != nil {
			return m, m.openLocation(rec)
		}
		return m, nil
	case key.Matches(msg, m.keys.rescan):
		m.view = ScanView
		return m, m.startScan()
	}

	var cmd tea.Cmd
	m.imageList, cmd = m.imageList.Update(msg)
	return m, cmd
}

func (m *Model) handleImageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	known := m.tags.Tags()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ImageListView
		return m, m.refreshImages()
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(known)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		if m.cursor < len(known) {
			k := tagKey(known[m.cursor])
			m.checked[k] = !m.checked[k]
		}
	case key.Matches(msg, m.keys.apply):
		m.retag(known)
	case key.Matches(msg, m.keys.newTag):
		return m, m.startInput(inputImageTag)
	case key.Matches(msg, m.keys.history):
		return m, m.showHistory()
	case key.Matches(msg, m.keys.open):
		return m, m.openLocation(m.selected)
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ImageView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.historyList.SelectedItem().(historyItem); ok && !item.current {
			m.revert(item.name)
			m.view = ImageView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) handleTagsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tagList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tagList, cmd = m.tagList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ImageListView
		return m, m.refreshImages()
	case key.Matches(msg, m.keys.newTag):
		return m, m.startInput(inputStoreTag)
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.tagList.SelectedItem().(tagItem); ok {
			if err := m.tags.Remove(item.tag); err != nil {
				m.setStatus(fmt.Sprintf("Failed to delete tag: %v", err), true)
			} else {
				m.setStatus(fmt.Sprintf("Deleted tag %s", item.tag.Name), false)
			}
			return m, m.refreshTags()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tagList, cmd = m.tagList.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		purpose := m.inputFor
		m.stopInput()
		if value == "" {
			return m, nil
		}
		tag := models.NewTag(value)
		if purpose == inputImageTag {
			m.addAndApply(tag)
			return m, nil
		}
		if err := m.tags.Add(tag); err != nil {
			m.setStatus(fmt.Sprintf("Failed to add new tag: %v", err), true)
		} else {
			m.setStatus(fmt.Sprintf("Added tag %s", tag.Name), false)
		}
		return m, m.refreshTags()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// retag applies the checked tags and deletes every other known tag.
func (m *Model) retag(known models.TagSet) {
	var selected models.TagSet
	for _, t := range known {
		if m.checked[tagKey(t)] {
			selected = append(selected, t)
		}
	}

	res, err := m.engine.Retag(m.selected, selected, known)
	m.afterRename(res, err, "Failed to retag image")
}

// addAndApply stores a new tag and applies it to the selected image immediately.
func (m *Model) addAndApply(tag models.Tag) {
	if err := m.tags.Add(tag); err != nil {
		m.setStatus(fmt.Sprintf("Failed to add new tag: %v", err), true)
		if !errors.Is(err, shared.ErrPersistence) {
			return
		}
	}

	res, err := m.engine.Apply(m.selected, models.TagSet{tag})
	m.afterRename(res, err, "Failed to add new tag")
}

func (m *Model) revert(name string) {
	res, err := m.engine.RevertTo(m.selected, name)
	m.afterRename(res, err, "Failed to revert name")
}

func (m *Model) afterRename(res tasks.Result, err error, failure string) {
	m.syncChecked()

	switch {
	case err != nil:
		m.logger.Error(failure, "image", m.selected.Name, "error", err)
		m.setStatus(fmt.Sprintf("%s: %v", failure, err), true)
	case len(m.reported) > 0:
		m.setStatus(fmt.Sprintf("Renamed to %s, but: %v", res.NewName, errors.Join(m.reported...)), true)
	case res.Renamed:
		m.setStatus(fmt.Sprintf("Renamed %s >>> %s", res.OldName, res.NewName), false)
	default:
		m.setStatus("Name unchanged", false)
	}
	m.reported = nil

	if err == nil && !res.Renamed && m.history != nil {
		if err := m.history.Persist(); err != nil {
			m.logger.Warn("failed to persist history", "error", err)
			m.setStatus(fmt.Sprintf("Name unchanged, but: %v", err), true)
		}
	}
}

func (m *Model) selectImage(rec *models.ImageRecord) {
	m.selected = rec
	m.cursor = 0
	m.syncChecked()
}

// syncChecked mirrors the selected record's tags into the checklist.
func (m *Model) syncChecked() {
	m.checked = map[string]bool{}
	if m.selected == nil {
		return
	}
	for _, t := range m.selected.Tags {
		m.checked[tagKey(t)] = true
	}
}

func (m *Model) selectedImage() *models.ImageRecord {
	if item, ok := m.imageList.SelectedItem().(imageItem); ok {
		return item.record
	}
	return nil
}

func (m *Model) startInput(purpose inputPurpose) tea.Cmd {
	m.inputFor = purpose
	m.input.SetValue("")
	return m.input.Focus()
}

func (m *Model) stopInput() {
	m.inputFor = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) showHistory() tea.Cmd {
	items := make([]list.Item, len(m.selected.NameHistory))
	for i, name := range m.selected.NameHistory {
		items[i] = historyItem{name: name, current: name == m.selected.Name}
	}
	m.historyList.Title = fmt.Sprintf("History of '%s'", m.selected.Name)
	m.view = HistoryView
	return m.historyList.SetItems(items)
}

func (m *Model) showTags() tea.Cmd {
	m.view = TagsView
	return m.refreshTags()
}

func (m *Model) refreshImages() tea.Cmd {
	items := make([]list.Item, len(m.records))
	for i, rec := range m.records {
		items[i] = imageItem{record: rec}
	}
	m.imageList.Title = fmt.Sprintf("Images in %s", m.root)
	return m.imageList.SetItems(items)
}

func (m *Model) refreshTags() tea.Cmd {
	known := m.tags.Tags()
	items := make([]list.Item, len(known))
	for i, t := range known {
		count := 0
		for _, rec := range m.records {
			if rec.Tags.Contains(t) {
				count++
			}
		}
		items[i] = tagItem{tag: t, count: count}
	}
	return m.tagList.SetItems(items)
}

func (m *Model) openLocation(rec *models.ImageRecord) tea.Cmd {
	dir := rec.Dir()
	return func() tea.Msg {
		return locationOpenedMsg(dir, m.open(dir))
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ImageListView:
		m.imageList, cmd = m.imageList.Update(msg)
	case HistoryView:
		m.historyList, cmd = m.historyList.Update(msg)
	case TagsView:
		m.tagList, cmd = m.tagList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startScan() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan, m.scanDone = progress, done
	m.progress = tasks.ProgressUpdate{}

	go func() {
		records, err := m.scanner.Scan(m.ctx, m.root, progress)
		close(progress)
		done <- scanCompleteMsg(records, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.scanDone
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		if update, ok := <-progress; ok {
			return scanProgressMsg(update)
		}
		return <-done
	}
}

func (m *Model) renderScan() string {
	title := styles.title.Render(fmt.Sprintf("Scanning %s", m.root))

	var phase string
	switch m.progress.Phase {
	case tasks.Walk:
		phase = fmt.Sprintf("Looking for images (%d found)", m.progress.Step)
	case tasks.Historicize:
		phase = fmt.Sprintf("Recalling history (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderImageList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.history, m.keys.tags, m.keys.open, m.keys.rescan, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.imageList.View(), helpView)
}

func (m *Model) renderImage() string {
	rec := m.selected
	title := styles.title.Render(rec.Name)
	info := fmt.Sprintf("Location: %s\nTags: %s\n", rec.Dir(), tagsOrNone(rec.Tags))

	var b strings.Builder
	known := m.tags.Tags()
	if len(known) == 0 {
		b.WriteString(styles.help.Render("No tags yet. Press n to create one."))
	}
	for i, t := range known {
		box := "[ ]"
		if m.checked[tagKey(t)] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s %s", box, t.Name)
		if i == m.cursor {
			line = styles.cursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	helpKeys := []key.Binding{m.keys.toggle, m.keys.apply, m.keys.newTag, m.keys.history, m.keys.open, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s\n%s", title, info, strings.TrimRight(b.String(), "\n"), helpView)
}

func (m *Model) renderHistory() string {
	revertKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "revert"))
	helpKeys := []key.Binding{revertKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}

func (m *Model) renderTags() string {
	helpKeys := []key.Binding{m.keys.newTag, m.keys.remove, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.tagList.View(), helpView)
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return styles.err.Render(m.status)
	}
	return styles.ok.Render(m.status)
}

func tagsOrNone(tags models.TagSet) string {
	if len(tags) == 0 {
		return "none"
	}
	return styles.tag.Render(tags.String())
}

func tagKey(t models.Tag) string { return strings.ToLower(t.Name) }
