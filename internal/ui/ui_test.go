package ui

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/phototag/internal/catalog"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
	"github.com/desertthunder/phototag/internal/tasks"
	tu "github.com/desertthunder/phototag/internal/testing"
)

var logger = shared.NewLogger(io.Discard)

type fixture struct {
	dir     string
	model   *Model
	tags    *catalog.TagStore
	history *catalog.HistoryStore
	stored  *tu.MemoryCollection[*models.ImageRecord]
	opened  []string
}

func newFixture(t *testing.T, files []string, observers ...tasks.Observer) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir()}
	for _, name := range files {
		tu.MustTouch(t, f.dir, name)
	}

	var err error
	f.tags, err = catalog.NewTagStore(tu.NewMemoryCollection[models.Tag](models.NewTags("red", "blue")...), logger)
	if err != nil {
		t.Fatalf("failed to create tag store: %v", err)
	}
	f.stored = tu.NewMemoryCollection[*models.ImageRecord]()
	f.history, err = catalog.NewHistoryStore(f.stored, logger)
	if err != nil {
		t.Fatalf("failed to create history store: %v", err)
	}

	engine := tasks.NewRenameEngine(tasks.RenameOpts{
		Logger:    logger,
		Observers: append([]tasks.Observer{f.history}, observers...),
	})

	f.model = NewModel(context.Background(), ModelOpts{
		Root:    f.dir,
		Scanner: tasks.NewScanner(f.history, nil, logger),
		Engine:  engine,
		Tags:    f.tags,
		History: f.history,
		Open: func(path string) error {
			f.opened = append(f.opened, path)
			return nil
		},
		Logger: logger,
	})
	f.model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	f.scan(t)
	return f
}

// scan runs the scan command chain until the scan completes.
func (f *fixture) scan(t *testing.T) {
	t.Helper()
	cmd := f.model.Init()
	for range 100 {
		msg := cmd()
		_, cmd = f.model.Update(msg)
		if m, ok := msg.(Msg); ok && m.kind == MsgScanComplete {
			return
		}
	}
	t.Fatal("scan did not complete")
}

func (f *fixture) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = f.model.Update(k)
	}
	return cmd
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.press(runes(string(r)))
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	space = tea.KeyMsg{Type: tea.KeySpace}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestScan(t *testing.T) {
	f := newFixture(t, []string{"cat.jpg", "sub/dog.png", "notes.txt"})

	if f.model.view != ImageListView {
		t.Fatalf("expected image list after scan, got %v", f.model.view)
	}
	if len(f.model.imageList.Items()) != 2 {
		t.Errorf("expected 2 images, got %d", len(f.model.imageList.Items()))
	}
	if !strings.Contains(f.model.status, "Found 2 images") {
		t.Errorf("unexpected status %q", f.model.status)
	}
	if f.history.Len() != 2 {
		t.Errorf("expected 2 historicized records, got %d", f.history.Len())
	}
}

func TestScanFailure(t *testing.T) {
	f := &fixture{dir: filepath.Join(t.TempDir(), "missing")}
	history, _ := catalog.NewHistoryStore(tu.NewMemoryCollection[*models.ImageRecord](), logger)
	tags, _ := catalog.NewTagStore(tu.NewMemoryCollection[models.Tag](), logger)

	f.model = NewModel(context.Background(), ModelOpts{
		Root:    f.dir,
		Scanner: tasks.NewScanner(history, nil, logger),
		Engine:  tasks.NewRenameEngine(tasks.RenameOpts{Logger: logger}),
		Tags:    tags,
		Logger:  logger,
	})
	f.scan(t)

	if !errors.Is(f.model.err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", f.model.err)
	}
	if !strings.Contains(f.model.View(), "Error:") {
		t.Errorf("expected error view, got %q", f.model.View())
	}
}

func TestImageView(t *testing.T) {
	t.Run("toggle and retag", func(t *testing.T) {
		f := newFixture(t, []string{"cat.jpg"})

		f.press(enter)
		if f.model.view != ImageView || f.model.selected.Name != "cat.jpg" {
			t.Fatalf("expected image view for cat.jpg, got %v", f.model.view)
		}

		f.press(space, runes("a"))
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat @red.jpg"))
		if !strings.Contains(f.model.status, "Renamed cat.jpg >>> cat @red.jpg") {
			t.Errorf("unexpected status %q", f.model.status)
		}

		f.press(runes("j"), space, runes("a"))
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat @red @blue.jpg"))

		// unchecking red deletes it
		f.press(runes("k"), space, runes("a"))
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat @blue.jpg"))
		if got := f.model.selected.Tags.String(); got != "blue" {
			t.Errorf("expected tags blue, got %s", got)
		}
	})

	t.Run("unchanged", func(t *testing.T) {
		f := newFixture(t, []string{"cat.jpg"})
		f.press(enter, runes("a"))
		if f.model.status != "Name unchanged" {
			t.Errorf("unexpected status %q", f.model.status)
		}
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat.jpg"))
	})

	t.Run("tag-only change is persisted", func(t *testing.T) {
		f := newFixture(t, []string{"cat @red.jpg"})
		saves := f.stored.Saves

		f.press(enter, space, runes("a"))
		if f.model.status != "Name unchanged" {
			t.Errorf("unexpected status %q", f.model.status)
		}
		if got := f.model.selected.Tags.String(); got != "red" {
			t.Errorf("expected tags red, got %q", got)
		}
		if f.stored.Saves <= saves {
			t.Error("expected history to be persisted")
		}
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat @red.jpg"))
	})

	t.Run("new tag applies immediately", func(t *testing.T) {
		f := newFixture(t, []string{"cat.jpg"})
		f.press(enter, runes("n"))
		if f.model.inputFor != inputImageTag {
			t.Fatal("expected tag input to be active")
		}

		f.typeText("green")
		f.press(enter)

		tu.AssertFileExists(t, filepath.Join(f.dir, "cat @green.jpg"))
		if _, ok := f.tags.Find("green"); !ok {
			t.Error("expected green in tag store")
		}
		if !f.model.checked["green"] {
			t.Error("expected green checked")
		}
	})

	t.Run("cancel input", func(t *testing.T) {
		f := newFixture(t, []string{"cat.jpg"})
		f.press(enter, runes("n"))
		f.typeText("green")
		f.press(esc)

		if f.model.inputFor != inputNone || f.model.view != ImageView {
			t.Error("expected input closed and image view kept")
		}
		if _, ok := f.tags.Find("green"); ok {
			t.Error("cancelled tag should not be stored")
		}
	})

	t.Run("collision", func(t *testing.T) {
		f := newFixture(t, []string{"cat.jpg"})
		tu.MustTouch(t, f.dir, "cat @red.jpg")

		f.press(enter, space, runes("a"))

		if !f.model.statusErr || !strings.Contains(f.model.status, "Failed to retag image") {
			t.Errorf("expected retag failure, got %q", f.model.status)
		}
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat.jpg"))
	})

	t.Run("observer failure", func(t *testing.T) {
		failing := tasks.ObserverFunc(func(models.RenameEvent) error { return errors.New("disk full") })
		f := newFixture(t, []string{"cat.jpg"}, failing)

		f.press(enter, space, runes("a"))
		tu.AssertFileExists(t, filepath.Join(f.dir, "cat @red.jpg"))
		if !f.model.statusErr || !strings.Contains(f.model.status, "disk full") {
			t.Errorf("expected reported observer error, got %q", f.model.status)
		}
	})

	t.Run("open location", func(t *testing.T) {
		f := newFixture(t, []string{"sub/cat.jpg"})
		f.press(enter)
		cmd := f.press(runes("o"))
		if cmd == nil {
			t.Fatal("expected open command")
		}
		f.model.Update(cmd())

		if len(f.opened) != 1 || f.opened[0] != filepath.Join(f.dir, "sub") {
			t.Errorf("unexpected opened paths %v", f.opened)
		}
		if !strings.HasPrefix(f.model.status, "Opened ") {
			t.Errorf("unexpected status %q", f.model.status)
		}
	})
}

func TestHistoryView(t *testing.T) {
	f := newFixture(t, []string{"cat.jpg"})
	f.press(enter, space, runes("a"), runes("j"), space, runes("a"))
	tu.AssertFileExists(t, filepath.Join(f.dir, "cat @red @blue.jpg"))

	f.press(runes("h"))
	if f.model.view != HistoryView {
		t.Fatalf("expected history view, got %v", f.model.view)
	}
	if n := len(f.model.historyList.Items()); n != 3 {
		t.Fatalf("expected 3 names, got %d", n)
	}

	f.press(enter)
	if f.model.view != ImageView {
		t.Errorf("expected image view after revert, got %v", f.model.view)
	}
	tu.AssertFileExists(t, filepath.Join(f.dir, "cat.jpg"))
	if len(f.model.selected.Tags) != 0 || len(f.model.checked) != 0 {
		t.Errorf("expected no tags after revert, got %v", f.model.selected.Tags)
	}
	if rec, ok := f.history.Lookup(filepath.Join(f.dir, "cat.jpg")); !ok || len(rec.NameHistory) != 3 {
		t.Errorf("expected history to follow the revert, got %+v", rec)
	}

	f.press(esc)
	if f.model.view != ImageView {
		t.Errorf("esc should return to image view, got %v", f.model.view)
	}
}

func TestTagsView(t *testing.T) {
	f := newFixture(t, []string{"cat.jpg"})

	f.press(runes("t"))
	if f.model.view != TagsView {
		t.Fatalf("expected tags view, got %v", f.model.view)
	}
	if n := len(f.model.tagList.Items()); n != 2 {
		t.Fatalf("expected 2 tags, got %d", n)
	}

	f.press(runes("n"))
	f.typeText("yellow")
	f.press(enter)
	if _, ok := f.tags.Find("yellow"); !ok {
		t.Error("expected yellow in tag store")
	}
	if n := len(f.model.tagList.Items()); n != 3 {
		t.Errorf("expected 3 tags, got %d", n)
	}

	f.press(runes("d"))
	if _, ok := f.tags.Find("red"); ok {
		t.Error("expected red removed")
	}
	if !strings.Contains(f.model.status, "Deleted tag red") {
		t.Errorf("unexpected status %q", f.model.status)
	}

	f.press(esc)
	if f.model.view != ImageListView {
		t.Errorf("expected image list, got %v", f.model.view)
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t, []string{"cat.jpg"})
	cmd := f.press(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
