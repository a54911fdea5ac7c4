package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPersistence reports a failed write of the settings file. Reads never
// fail: unreadable or malformed files degrade to built-in defaults.
var ErrPersistence = errors.New("settings persistence failed")

// Store loads and saves the settings document.
type Store interface {
	Load() Document
	Save(Document) error
}

// FileStore keeps the document as indented JSON at Path.
type FileStore struct {
	Path string
}

func (s FileStore) Load() Document {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return Document{}
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}
	}
	return doc
}

func (s FileStore) Save(doc Document) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	// The file holds API keys, keep it owner-readable only.
	if err := os.WriteFile(s.Path, raw, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// MemoryStore holds the document in memory for tests and ephemeral runs.
type MemoryStore struct {
	doc Document
	set bool
}

func (s *MemoryStore) Load() Document {
	if !s.set {
		return Document{}
	}
	return s.doc.clone()
}

func (s *MemoryStore) Save(doc Document) error {
	s.doc = doc.clone()
	s.set = true
	return nil
}
