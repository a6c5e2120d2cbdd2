// store.go — In-memory asset store shared by HTTP handlers; doubles as a Loader.
package asset

import (
	"context"
	"crypto/rand"
	"image"
	"sort"
	"strings"
	"sync"
)

// Entry is one stored asset.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mime string `json:"mime"`
	Size int    `json:"size"`
	Data []byte `json:"-"`
}

// Store keeps uploaded assets in memory, keyed by random ID.
type Store struct {
	mu     sync.RWMutex
	assets map[string]*Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{assets: make(map[string]*Entry)}
}

// Add stores data and returns its new ID.
func (s *Store) Add(name string, data []byte, mimeType string) string {
	id := randomID()
	s.mu.Lock()
	s.assets[id] = &Entry{ID: id, Name: name, Mime: mimeType, Size: len(data), Data: data}
	s.mu.Unlock()
	return id
}

func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	e, ok := s.assets[id]
	s.mu.RUnlock()
	return e, ok
}

// Remove deletes id and reports whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[id]; !ok {
		return false
	}
	delete(s.assets, id)
	return true
}

// List returns all entries sorted by name, then ID.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.assets))
	for _, e := range s.assets {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Load treats src.Path as a store ID. A trailing extension matching
// src.Type is ignored, so layer files named "<id>.<type>" resolve.
func (s *Store) Load(ctx context.Context, src Source, done func(image.Image, error)) {
	LoaderFunc(func(_ context.Context, src Source) (image.Image, error) {
		e, ok := s.Get(src.Path)
		if !ok {
			e, ok = s.Get(strings.TrimSuffix(src.Path, "."+src.Type))
		}
		if !ok {
			return nil, ErrNotFound
		}
		return DecodeBytes(e.Data, src.Type)
	}).Load(ctx, src, done)
}

func randomID() string {
	return strings.ToLower(rand.Text())
}
