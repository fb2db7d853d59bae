// Package prompts exposes the user-authored template library to the core.
// The core only ever needs (name, content) pairs; the backing file is a
// plain JSON list with trivial load/save semantics.
package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Prompt is one named template. Content is opaque to this package; the
// generation layer looks for its placeholder there.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
}

// Store is a keyed prompt collection loaded from a JSON file. Reads are
// concurrent-safe; saves rewrite the whole file.
type Store struct {
	mu      sync.RWMutex
	path    string
	prompts map[string]Prompt
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, prompts: make(map[string]Prompt)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prompt store %s: %w", path, err)
	}

	var list []Prompt
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse prompt store %s: %w", path, err)
	}
	for _, p := range list {
		s.prompts[p.Name] = p
	}
	return s, nil
}

// Get returns the prompt named name.
func (s *Store) Get(name string) (Prompt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[name]
	return p, ok
}

// List returns all prompts sorted by name.
func (s *Store) List() []Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Add inserts or replaces a prompt and saves the file.
func (s *Store) Add(p Prompt) error {
	if p.Name == "" || p.Content == "" {
		return fmt.Errorf("prompt needs a name and content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts[p.Name] = p
	return s.save()
}

// Delete removes a prompt by name and saves the file.
func (s *Store) Delete(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[name]; !ok {
		return false, nil
	}
	delete(s.prompts, name)
	return true, s.save()
}

func (s *Store) save() error {
	list := make([]Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prompt store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write prompt store %s: %w", s.path, err)
	}
	return nil
}
