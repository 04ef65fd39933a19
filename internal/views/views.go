// Package views persists the catalog of named analytical views as a
// single JSON document and serves CRUD operations over it.
package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

const DocumentVersion = "1.0"

var (
	ErrNotFound    = errors.New("views: view not found")
	ErrNameExists  = errors.New("views: view already exists")
	ErrInvalidName = errors.New("views: invalid view name")
	ErrInvalidSQL  = errors.New("views: sql query is empty")
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Definition struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SQLQuery    string    `json:"sql_query"`
	Tags        []string  `json:"tags"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

// Patch describes a partial update; nil fields are left untouched.
type Patch struct {
	Description *string
	SQLQuery    *string
	Tags        []string
}

type document struct {
	Version     string                `json:"version"`
	Created     time.Time             `json:"created"`
	LastUpdated time.Time             `json:"last_updated"`
	Views       map[string]Definition `json:"views"`
}

// Catalog is safe for concurrent use; every successful mutation rewrites
// the backing document atomically via a same-directory temp file rename.
type Catalog struct {
	mu   sync.Mutex
	path string
	doc  document
	now  func() time.Time
}

// Open loads the catalog document at path, seeding the default view set
// when no document exists yet. The glob is embedded into the default
// view bodies.
func Open(path, glob string) (*Catalog, error) {
	c := &Catalog{path: path, now: func() time.Time { return time.Now().UTC() }}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var doc document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse views document %q: %w", path, err)
		}
		if doc.Version != DocumentVersion {
			return nil, fmt.Errorf("unsupported views document version %q (want %q)", doc.Version, DocumentVersion)
		}
		if doc.Views == nil {
			doc.Views = map[string]Definition{}
		}
		c.doc = doc
		return c, nil
	case errors.Is(err, os.ErrNotExist):
		now := c.now()
		c.doc = document{
			Version:     DocumentVersion,
			Created:     now,
			LastUpdated: now,
			Views:       defaultViews(glob, now),
		}
		if err := c.save(); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("read views document %q: %w", path, err)
	}
}

// List returns every view definition ordered by name.
func (c *Catalog) List() []Definition {
	c.mu.Lock()
	defer c.mu.Unlock()

	defs := make([]Definition, 0, len(c.doc.Views))
	for _, def := range c.doc.Views {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func (c *Catalog) Get(name string) (Definition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, ok := c.doc.Views[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return def, nil
}

func (c *Catalog) Create(name, description, sqlQuery string, tags []string) (Definition, error) {
	if !namePattern.MatchString(name) {
		return Definition{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.TrimSpace(sqlQuery) == "" {
		return Definition{}, fmt.Errorf("%w: view %q", ErrInvalidSQL, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.doc.Views[name]; ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNameExists, name)
	}

	now := c.now()
	def := Definition{
		Name:        name,
		Description: description,
		SQLQuery:    sqlQuery,
		Tags:        normalizeTags(tags),
		Created:     now,
		Updated:     now,
	}
	c.doc.Views[name] = def
	if err := c.saveLocked(); err != nil {
		delete(c.doc.Views, name)
		return Definition{}, err
	}
	return def, nil
}

func (c *Catalog) Update(name string, patch Patch) (Definition, error) {
	if patch.SQLQuery != nil && strings.TrimSpace(*patch.SQLQuery) == "" {
		return Definition{}, fmt.Errorf("%w: view %q", ErrInvalidSQL, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	previous, ok := c.doc.Views[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	def := previous
	if patch.Description != nil {
		def.Description = *patch.Description
	}
	if patch.SQLQuery != nil {
		def.SQLQuery = *patch.SQLQuery
	}
	if patch.Tags != nil {
		def.Tags = normalizeTags(patch.Tags)
	}
	def.Updated = c.now()

	c.doc.Views[name] = def
	if err := c.saveLocked(); err != nil {
		c.doc.Views[name] = previous
		return Definition{}, err
	}
	return def, nil
}

func (c *Catalog) Delete(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	previous, ok := c.doc.Views[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	delete(c.doc.Views, name)
	if err := c.saveLocked(); err != nil {
		c.doc.Views[name] = previous
		return err
	}
	return nil
}

func (c *Catalog) save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

// saveLocked writes the whole document to a sibling temp file and renames
// it into place so readers never observe a truncated document.
func (c *Catalog) saveLocked() error {
	c.doc.LastUpdated = c.now()

	encoded, err := json.MarshalIndent(c.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode views document: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create views directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".views-*.json")
	if err != nil {
		return fmt.Errorf("create temp views document: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp views document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp views document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp views document: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace views document %q: %w", c.path, err)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}
