package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todos/internal/store/jsonstore"
	"github.com/idilsaglam/todos/internal/ui"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func setup(t *testing.T, texts ...string) (*jsonstore.Store, modelTUI) {
	t.Helper()
	s := jsonstore.New(filepath.Join(t.TempDir(), ".todos"), jsonstore.Options{})
	for _, text := range texts {
		if _, err := s.Add(text, 0); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := s.Publish(); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	m := newModel(s, ui.NewTheme(&bytes.Buffer{}, "mono"))
	return s, send(m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func send(m modelTUI, msgs ...tea.Msg) modelTUI {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(modelTUI)
	}
	return m
}

func TestToggleSelected(t *testing.T) {
	s, m := setup(t, "Buy milk", "Call Bob")

	m = send(m, space)
	if it, _ := s.Get(1); !it.Completed {
		t.Fatal("expected item 1 to be completed")
	}
	if !s.Dirty() {
		t.Fatal("store should be dirty after toggle")
	}
	li, ok := m.selected()
	if !ok || li.ID != 1 || !li.Completed {
		t.Fatalf("list not refreshed: %+v", li)
	}
}

func TestDeleteSelected(t *testing.T) {
	s, m := setup(t, "Buy milk", "Call Bob")

	m = send(m, runes("d"))
	if _, ok := s.Get(1); ok {
		t.Fatal("item 1 should be deleted")
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("list has %d items, want 1", len(m.list.Items()))
	}
	if li, _ := m.selected(); li.ID != 2 {
		t.Fatalf("cursor on id %d, want 2", li.ID)
	}
}

func TestAddInline(t *testing.T) {
	s, m := setup(t)

	m = send(m, runes("a"))
	if !m.adding {
		t.Fatal("expected add mode")
	}
	m = send(m, runes("Walk dog"), enter)
	if m.adding {
		t.Fatal("add mode should close on enter")
	}
	it, ok := s.Get(1)
	if !ok || it.Text != "Walk dog" || it.Priority != 1 {
		t.Fatalf("unexpected item: %+v (found %v)", it, ok)
	}
}

func TestAddAcceptsEmptyText(t *testing.T) {
	s, m := setup(t)

	m = send(m, runes("a"), runes("   "), enter)
	if m.adding {
		t.Fatal("add mode should close on enter")
	}
	it, ok := s.Get(1)
	if !ok || it.Text != "" {
		t.Fatalf("expected an empty item, got %+v (found %v)", it, ok)
	}
}

func TestEscCancelsAdd(t *testing.T) {
	s, m := setup(t)

	m = send(m, runes("a"), runes("Walk dog"), esc)
	if m.adding {
		t.Fatal("esc should close add mode")
	}
	if s.Len() != 0 {
		t.Fatal("nothing should have been added")
	}
}

func TestPublishIfDirty(t *testing.T) {
	s, m := setup(t, "Buy milk")

	saved, err := publishIfDirty(s)
	if err != nil || saved {
		t.Fatalf("clean store: saved=%v err=%v, want no write", saved, err)
	}

	send(m, space, runes("a"), runes("Walk dog"), enter)
	saved, err = publishIfDirty(s)
	if err != nil || !saved {
		t.Fatalf("dirty store: saved=%v err=%v, want a write", saved, err)
	}
	if s.Dirty() {
		t.Fatal("store should be clean after publishing")
	}

	loaded, err := jsonstore.Open(s.Path(), jsonstore.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("got %d items on disk, want 2", loaded.Len())
	}
	if it, _ := loaded.Get(1); !it.Completed {
		t.Fatal("toggle was not written")
	}

	saved, _ = publishIfDirty(s)
	if saved {
		t.Fatal("second call must not write again")
	}
}

func TestPublishIfDirtyReportsWriteError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := jsonstore.New(filepath.Join(blocker, ".todos"), jsonstore.Options{})
	s.Add("x", 0)

	if saved, err := publishIfDirty(s); err == nil || saved {
		t.Fatalf("saved=%v err=%v, want a write error", saved, err)
	}
}

func TestEditSelected(t *testing.T) {
	s, m := setup(t, "Buy milk")

	m = send(m, runes("e"))
	if !m.editing || m.ti.Value() != "Buy milk" {
		t.Fatalf("edit mode not prefilled: editing=%v value=%q", m.editing, m.ti.Value())
	}
	m.ti.SetValue("Buy oat milk")
	send(m, enter)

	if it, _ := s.Get(1); it.Text != "Buy oat milk" {
		t.Fatalf("got text %q", it.Text)
	}
}

func TestPriorityKeys(t *testing.T) {
	s, m := setup(t, "a", "b")

	// lowering a moves it below b; the cursor follows the item
	m = send(m, runes("-"))
	if it, _ := s.Get(1); it.Priority != 2 {
		t.Fatalf("priority: got %d, want 2", it.Priority)
	}
	if li, _ := m.selected(); li.ID != 1 {
		t.Fatalf("cursor on id %d, want 1", li.ID)
	}
	if first := m.list.Items()[0].(listItem); first.ID != 2 {
		t.Fatalf("first listed id %d, want 2", first.ID)
	}

	m = send(m, runes("+"), runes("+"))
	if it, _ := s.Get(1); it.Priority != 1 {
		t.Fatalf("priority must not go below 1, got %d", it.Priority)
	}
}

func TestQuitLeavesStoreUntouched(t *testing.T) {
	s, m := setup(t, "a")
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if it, _ := s.Get(1); it.Completed {
		t.Fatal("quit must not mutate items")
	}
}

func TestViewShowsItems(t *testing.T) {
	_, m := setup(t, "Buy milk")
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("view missing item:\n%s", m.View())
	}
}
