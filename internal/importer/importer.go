// Package importer loads design documents from JSON files and installs them
// as the canonical canvas state. Imports can be triggered manually, on a
// cron schedule, or whenever a watched file changes.
package importer

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"canvas/internal/domain"
	"canvas/internal/store"
)

// Importer feeds externally-derived documents into the store.
type Importer struct {
	store *store.Store

	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	watching map[string]bool // absolute file path -> watched
	cron     *cron.Cron
}

func New(st *store.Store) *Importer {
	return &Importer{
		store:    st,
		watching: map[string]bool{},
	}
}

// ImportFile reads, normalizes, and installs a document from path.
func (im *Importer) ImportFile(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	im.store.Replace(doc, store.OriginAutomation)
	log.Printf("[Import] installed document from %s (%d nodes)", path, len(doc.Nodes))
	return doc, nil
}

// Parse decodes and normalizes a document from raw JSON.
func Parse(data []byte) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return Normalize(&doc), nil
}

// WatchFile re-imports path every time it is written. The containing
// directory is watched, since editors typically replace files on save.
func (im *Importer) WatchFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	im.mu.Lock()
	if im.watcher == nil {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			im.mu.Unlock()
			return fmt.Errorf("create watcher: %w", err)
		}
		im.watcher = watcher
		go im.watchLoop()
	}
	im.watching[absPath] = true
	im.mu.Unlock()

	return im.watcher.Add(filepath.Dir(absPath))
}

// Schedule re-imports path on a cron schedule (e.g. "@every 30s").
func (im *Importer) Schedule(spec, path string) error {
	im.mu.Lock()
	if im.cron == nil {
		im.cron = cron.New()
		im.cron.Start()
	}
	c := im.cron
	im.mu.Unlock()

	_, err := c.AddFunc(spec, func() {
		if _, err := im.ImportFile(path); err != nil {
			log.Printf("[Import] scheduled import failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule import: %w", err)
	}
	return nil
}

// Close stops the watcher and the scheduler.
func (im *Importer) Close() error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.cron != nil {
		im.cron.Stop()
		im.cron = nil
	}
	if im.watcher != nil {
		err := im.watcher.Close()
		im.watcher = nil
		return err
	}
	return nil
}

func (im *Importer) watchLoop() {
	for {
		im.mu.RLock()
		watcher := im.watcher
		im.mu.RUnlock()
		if watcher == nil {
			return
		}

		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			im.mu.RLock()
			watched := im.watching[absPath]
			im.mu.RUnlock()
			if !watched {
				continue
			}
			if _, err := im.ImportFile(absPath); err != nil {
				log.Printf("[Import] watched import failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Import] watcher error: %v", err)
		}
	}
}
