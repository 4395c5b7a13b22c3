package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todos/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking unless the caller asks for it; fine for a local single-user CLI.

var (
	// ErrNotFound is returned by id-addressed operations when no live item has that id.
	ErrNotFound = errors.New("item not found")
	// ErrInvalidPriority is returned for priorities below 1.
	ErrInvalidPriority = errors.New("priority must be a positive integer")
)

// Options tune how a store loads its file.
type Options struct {
	// Lenient treats undecodable content as an empty collection instead of failing.
	Lenient bool
	Logger  *log.Logger
}

// Store is the in-memory item collection bound to its backing file.
type Store struct {
	path   string
	items  []model.Item
	nextID int
	dirty  bool
	log    *log.Logger
}

// New returns an empty store bound to path without touching the filesystem.
func New(path string, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{path: path, items: []model.Item{}, nextID: 1, log: logger}
}

// Open loads the collection stored at path. A missing file is an empty collection.
func Open(path string, opts Options) (*Store, error) {
	s := New(path, opts)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug("no todo file yet", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	items, err := Decode(b)
	if err != nil {
		err = &DecodeError{Path: path, Err: err}
		if !opts.Lenient {
			return nil, err
		}
		s.log.Warn("ignoring unreadable todo file", "path", path, "err", err)
		return s, nil
	}
	s.items = items
	for _, it := range items {
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	s.log.Debug("loaded todo file", "path", path, "items", len(items))
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of live items.
func (s *Store) Len() int { return len(s.items) }

// Dirty reports whether the collection changed since it was loaded or last published.
func (s *Store) Dirty() bool { return s.dirty }

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []model.Item {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns a copy of the collection ordered for display.
func (s *Store) Sorted() []model.Item {
	out := s.Items()
	model.SortByPriority(out)
	return out
}

// Get returns the item with the given id.
func (s *Store) Get(id int) (model.Item, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// Add appends a pending item. A zero priority means model.DefaultPriority.
// The new id is one past the highest id this store has seen, so ids are never reused.
func (s *Store) Add(text string, priority int) (model.Item, error) {
	if priority == 0 {
		priority = model.DefaultPriority
	}
	if priority < 0 {
		return model.Item{}, fmt.Errorf("add: %w", ErrInvalidPriority)
	}
	it := model.Item{ID: s.nextID, Text: text, Priority: priority}
	s.nextID++
	s.items = append(s.items, it)
	s.dirty = true
	return it, nil
}

// Delete removes the item with the given id. Other ids are untouched.
func (s *Store) Delete(id int) error {
	i := s.index(id)
	if i < 0 {
		return notFound(id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.dirty = true
	return nil
}

// Toggle flips the completed flag of the item with the given id.
func (s *Store) Toggle(id int) error {
	return s.update(id, func(it *model.Item) { it.Completed = !it.Completed })
}

// UpdateText replaces the text of the item with the given id.
func (s *Store) UpdateText(id int, text string) error {
	return s.update(id, func(it *model.Item) { it.Text = text })
}

// SetPriority replaces the priority of the item with the given id.
func (s *Store) SetPriority(id, priority int) error {
	if priority < 1 {
		return fmt.Errorf("priority %d: %w", priority, ErrInvalidPriority)
	}
	return s.update(id, func(it *model.Item) { it.Priority = priority })
}

func (s *Store) update(id int, fn func(*model.Item)) error {
	i := s.index(id)
	if i < 0 {
		return notFound(id)
	}
	fn(&s.items[i])
	s.dirty = true
	return nil
}

func (s *Store) index(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id int) error {
	return fmt.Errorf("item %d: %w", id, ErrNotFound)
}

// Publish overwrites the backing file with the whole collection.
// The data goes to a temp file next to the real file and is renamed into place.
// Symlinks are followed and an existing file keeps its permissions.
func (s *Store) Publish() error {
	b, err := Encode(s.items)
	if err != nil {
		return err
	}
	target, mode, err := resolveTarget(s.path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	s.dirty = false
	s.log.Debug("published todo file", "path", s.path, "target", target, "items", len(s.items))
	return nil
}

// resolveTarget returns the regular file a publish should replace and the mode to give it.
// New files get 0644.
func resolveTarget(path string) (string, os.FileMode, error) {
	const defaultMode os.FileMode = 0o644

	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, defaultMode, nil
		}
		return "", 0, fmt.Errorf("stat: %w", err)
	}
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("resolve %s: %w", path, err)
		}
		// dangling link: create the file it points at
		link, lerr := os.Readlink(path)
		if lerr != nil {
			return "", 0, fmt.Errorf("resolve %s: %w", path, err)
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		return link, defaultMode, nil
	}
	fi, err := os.Stat(target)
	if err != nil {
		return "", 0, fmt.Errorf("stat: %w", err)
	}
	return target, fi.Mode().Perm(), nil
}

// Encode serializes items the way they are stored on disk.
func Encode(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses stored content. Empty content is an empty collection.
func Decode(b []byte) ([]model.Item, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []model.Item{}, nil
	}
	if err := validate(b); err != nil {
		return nil, err
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	seen := make(map[int]bool, len(items))
	for i, it := range items {
		if seen[it.ID] {
			return nil, &ValidationError{Path: fmt.Sprintf("[%d].id", i), Err: fmt.Errorf("duplicate id %d", it.ID)}
		}
		seen[it.ID] = true
	}
	return items, nil
}
