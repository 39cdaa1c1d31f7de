package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"srburger-api/order"

	"github.com/goccy/go-json"
)

// FallbackStore keeps orders the primary store could not take, one JSON file
// per order, named by placement time so they replay in order.
type FallbackStore struct {
	dir string
	mu  sync.Mutex
}

// Pending is an order waiting in the fallback directory.
type Pending struct {
	Path   string
	Record order.Record
}

func NewFallbackStore(dir string) *FallbackStore {
	return &FallbackStore{dir: dir}
}

func (f *FallbackStore) Dir() string { return f.dir }

// Save writes rec atomically and returns the file path.
func (f *FallbackStore) Save(rec order.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("fallback dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}

	at := rec.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := fmt.Sprintf("%s_%s.json", at.UTC().Format("20060102T150405.000000000"), rec.ID)
	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write fallback order: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write fallback order: %w", err)
	}
	return path, nil
}

// Pending lists stored orders oldest first. Unreadable files are skipped and logged.
func (f *FallbackStore) Pending() ([]Pending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fallback dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Pending, 0, len(names))
	for _, name := range names {
		path := filepath.Join(f.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  skipping fallback order %s: %v", name, err)
			continue
		}
		var rec order.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			log.Printf("⚠️  skipping fallback order %s: %v", name, err)
			continue
		}
		out = append(out, Pending{Path: path, Record: rec})
	}
	return out, nil
}

func (f *FallbackStore) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove fallback order: %w", err)
	}
	return nil
}
