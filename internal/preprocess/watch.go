package preprocess

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/redbco/redb-dbdoc/internal/docgen"
)

// DefaultDebounce is how long Watch waits for a burst of writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watch processes files once and again whenever one of them changes, until
// ctx is done. dest maps a source to its output path, which must differ from
// the source: a file rewritten in place has no tags left to regenerate.
// Failures are logged and watching continues, except for strict failures
// which end the watch.
func (p *Processor) Watch(ctx context.Context, files []string, dest func(string) string, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	// Directories are watched rather than files so editors that save by
	// renaming a temp file are still seen.
	watched := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		out, err := filepath.Abs(dest(f))
		if err != nil {
			return err
		}
		if out == abs {
			return fmt.Errorf("cannot watch %s: output would overwrite the source", f)
		}
		watched[abs] = f
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		p.log.Debugf("Watching %s", dir)
	}

	for _, f := range files {
		if err := p.rerun(ctx, f, dest); err != nil {
			return err
		}
	}
	p.log.Infof("Watching %d file(s) for changes", len(files))

	pending := make(map[string]bool)
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			src, tracked := watched[filepath.Clean(event.Name)]
			if !tracked || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending[src] = true
			settle = time.After(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			p.log.Errorf("Watcher error: %v", err)

		case <-settle:
			settle = nil
			for src := range pending {
				delete(pending, src)
				if err := p.rerun(ctx, src, dest); err != nil {
					return err
				}
			}
		}
	}
}

func (p *Processor) rerun(ctx context.Context, src string, dest func(string) string) error {
	err := p.ProcessFile(ctx, src, dest(src))
	if err == nil {
		return nil
	}
	if docgen.IsFatal(err) {
		return err
	}
	p.log.Errorf("%v", err)
	return nil
}
