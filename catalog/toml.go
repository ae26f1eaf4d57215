package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	toml "github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultCatalog []byte

// file is the on disk layout of a TOML catalog.
type file struct {
	Bodies []Record `toml:"body"`
}

// TOMLProvider serves records from a TOML file, or from the built-in solar system catalog when no
// path is given.
type TOMLProvider struct {
	path    string
	mu      sync.RWMutex
	records map[string]Record
}

// NewTOMLProvider loads the catalog at path (the built-in catalog if path is empty).
func NewTOMLProvider(path string) (*TOMLProvider, error) {
	p := &TOMLProvider{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// DefaultProvider returns the built-in solar system catalog.
func DefaultProvider() *TOMLProvider {
	records, err := decode(defaultCatalog)
	if err != nil {
		panic(fmt.Errorf("built-in catalog: %s", err))
	}
	return &TOMLProvider{records: records}
}

// Reload reads the file again. The previous records are kept if the file is invalid.
func (p *TOMLProvider) Reload() error {
	data := defaultCatalog
	if p.path != "" {
		var err error
		if data, err = os.ReadFile(p.path); err != nil {
			return fmt.Errorf("catalog: reading %s: %w", p.path, err)
		}
	}
	records, err := decode(data)
	if err != nil {
		return fmt.Errorf("catalog: parsing %s: %w", p.source(), err)
	}
	p.mu.Lock()
	p.records = records
	p.mu.Unlock()
	return nil
}

func (p *TOMLProvider) source() string {
	if p.path == "" {
		return "built-in catalog"
	}
	return p.path
}

// Lookup implements Provider.
func (p *TOMLProvider) Lookup(_ context.Context, name string) (Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.records[name]
	if !ok {
		return Record{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return r, nil
}

// Names implements Provider.
func (p *TOMLProvider) Names(_ context.Context) ([]string, error) {
	p.mu.RLock()
	names := make([]string, 0, len(p.records))
	for name := range p.records {
		names = append(names, name)
	}
	p.mu.RUnlock()
	sort.Strings(names)
	return names, nil
}

// Watch reloads the catalog whenever its file changes, until the context is done.
// Reload failures are logged and the previous records kept.
func (p *TOMLProvider) Watch(ctx context.Context, logger kitlog.Logger) error {
	if p.path == "" {
		return fmt.Errorf("catalog: cannot watch the %s", p.source())
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	// Editors often replace the file, so the directory is watched.
	if err := fw.Add(filepath.Dir(p.path)); err != nil {
		fw.Close()
		return fmt.Errorf("catalog: watching %s: %w", p.path, err)
	}
	go p.watch(ctx, fw, logger)
	return nil
}

func (p *TOMLProvider) watch(ctx context.Context, fw *fsnotify.Watcher, logger kitlog.Logger) {
	defer fw.Close()
	const debounce = 100 * time.Millisecond
	var pending <-chan time.Time
	target := filepath.Clean(p.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.After(debounce)
			}
		case <-pending:
			pending = nil
			if err := p.Reload(); err != nil {
				level.Error(logger).Log("subsys", "catalog", "message", "reload failed", "err", err)
				continue
			}
			p.mu.RLock()
			n := len(p.records)
			p.mu.RUnlock()
			level.Info(logger).Log("subsys", "catalog", "message", "reloaded", "path", p.path, "bodies", n)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			level.Warn(logger).Log("subsys", "catalog", "err", err)
		}
	}
}

func decode(data []byte) (map[string]Record, error) {
	var f file
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	records := make(map[string]Record, len(f.Bodies))
	for _, r := range f.Bodies {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := records[r.Name]; dup {
			return nil, fmt.Errorf("duplicate body %s", r.Name)
		}
		records[r.Name] = r
	}
	return records, nil
}

// WriteTOML writes the records in the catalog file format.
func WriteTOML(w io.Writer, records []Record) error {
	return toml.NewEncoder(w).Encode(file{Bodies: records})
}
