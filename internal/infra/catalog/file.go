package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"autoshop/internal/domain/product"
	"autoshop/internal/pkg/errs"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

var ErrInvalidFixture = errs.New("invalid catalog fixture")

type fixture struct {
	Products []product.Product `yaml:"products"`
}

// FileCatalog serves products from a YAML fixture and can reload it when the
// file changes.
type FileCatalog struct {
	*Memory
	path string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewFileCatalog(path string) (*FileCatalog, error) {
	fc := &FileCatalog{Memory: NewMemory(), path: path}
	if err := fc.Reload(); err != nil {
		return nil, err
	}
	return fc, nil
}

func (f *FileCatalog) Reload() error {
	products, err := LoadFixture(f.path)
	if err != nil {
		return err
	}
	f.Replace(products)
	slog.Info("catalog fixture loaded", "path", f.path, "products", len(products))
	return nil
}

func LoadFixture(path string) ([]product.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "read catalog fixture %s", path)
	}

	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "parse catalog fixture %s", path), ErrInvalidFixture)
	}

	seen := make(map[string]struct{}, len(fx.Products))
	for i, p := range fx.Products {
		if p.ID == "" {
			return nil, errs.Mark(errs.Newf("product #%d has no id", i), ErrInvalidFixture)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, errs.Mark(errs.Newf("duplicate product id %q", p.ID), ErrInvalidFixture)
		}
		seen[p.ID] = struct{}{}
		if p.Sphere != "" && !p.Sphere.IsValid() {
			return nil, errs.Mark(errs.Newf("product %q has unknown sphere %q", p.ID, p.Sphere), ErrInvalidFixture)
		}
	}
	return fx.Products, nil
}

// Watch reloads the fixture whenever it is written or replaced. A broken
// fixture is logged and the previous snapshot stays in service.
func (f *FileCatalog) Watch(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create fixture watcher")
	}
	// editors replace files on save, so watch the directory
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		_ = watcher.Close()
		return errs.Wrapf(err, "watch %s", filepath.Dir(f.path))
	}

	f.watcher = watcher
	f.done = make(chan struct{})
	go f.run(ctx, watcher, f.done)
	return nil
}

func (f *FileCatalog) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	const debounce = 100 * time.Millisecond
	var pending <-chan time.Time
	target := filepath.Clean(f.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("catalog watcher error", "error", err.Error())
		case <-pending:
			pending = nil
			if err := f.Reload(); err != nil {
				slog.Error("catalog fixture reload failed, keeping previous snapshot",
					"path", f.path,
					"error", err.Error())
			}
		}
	}
}

func (f *FileCatalog) Close() error {
	f.mu.Lock()
	watcher, done := f.watcher, f.done
	f.watcher, f.done = nil, nil
	f.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}
