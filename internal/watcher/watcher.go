package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher registers new uploads as they appear anywhere below the uploads dir.
type Watcher struct {
	root      string
	registrar port.AttachmentRegistrar
	debounce  time.Duration
	fsw       *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func New(root string, registrar port.AttachmentRegistrar, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		root:      root,
		registrar: registrar,
		debounce:  debounce,
		fsw:       fsw,
		pending:   make(map[string]*time.Timer),
	}
	if err := w.addTree(context.Background(), root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is done, then waits for in-flight registrations.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		for p, t := range w.pending {
			if t.Stop() {
				w.wg.Done()
			}
			delete(w.pending, p)
		}
		w.mu.Unlock()
		w.wg.Wait()
		_ = w.fsw.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warnf(ctx, "watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if skipName(filepath.Base(ev.Name)) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ctx, ev.Name); err != nil {
				logger.Warnf(ctx, "could not watch %s: %v", ev.Name, err)
			}
			return
		}
	}

	if !isUpload(ev.Name) {
		return
	}
	w.schedule(ctx, ev.Name)
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		if !t.Stop() {
			// already firing
			return
		}
		w.wg.Done()
	}
	w.wg.Add(1)
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.register(context.WithoutCancel(ctx), path)
	})
}

func (w *Watcher) register(ctx context.Context, path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		logger.Warnf(ctx, "ignoring %s outside %s", path, w.root)
		return
	}
	a, err := w.registrar.Register(ctx, filepath.ToSlash(rel))
	if err != nil {
		logger.Warnf(ctx, "❌  could not register %s: %v", rel, err)
		return
	}
	logger.Infof(ctx, "✅  registered %s as attachment #%s", a.Path, a.ID)
}

// addTree watches dir and every non-hidden directory below it. Files already
// present in newly created directories are scheduled too, since their events
// may have fired before the watch was added.
func (w *Watcher) addTree(ctx context.Context, dir string) error {
	isRoot := dir == w.root
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if p != w.root && skipName(d.Name()) {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
			logger.Debugf(ctx, "watching %s", p)
			return nil
		}
		if !isRoot && !skipName(d.Name()) && isUpload(p) {
			w.schedule(ctx, p)
		}
		return nil
	})
}

// skipName matches dot-files, which covers the optimiser's temp outputs and
// the records and backup dirs.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}

func isUpload(path string) bool {
	f, ok := model.FormatFromPath(path)
	return ok && f.IsSource()
}
