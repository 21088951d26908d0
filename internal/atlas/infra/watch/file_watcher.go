// Package watch 在数据文件变化时触发重新加载。
package watch

import (
	"context"
	"path/filepath"
	"time"

	"WorldMap/modules/kit/logx"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// FileWatcher 监听文件所在目录：编辑器保存时常见 rename/重建，直接监听文件会丢事件。
type FileWatcher struct {
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
	onChange func(ctx context.Context)
	log      logx.Logger
}

func NewFileWatcher(paths []string, debounce time.Duration, onChange func(ctx context.Context), l logx.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	w := &FileWatcher{
		files:    make(map[string]struct{}, len(paths)),
		dirs:     make(map[string]struct{}, len(paths)),
		debounce: debounce,
		onChange: onChange,
		log:      l,
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		w.files[abs] = struct{}{}
		w.dirs[filepath.Dir(abs)] = struct{}{}
	}
	return w
}

// Run 阻塞直到 ctx 结束；一段时间内的多次变更只触发一次 onChange。
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for dir := range w.dirs {
		if err = fw.Add(dir); err != nil {
			return err
		}
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			pending = nil
			w.onChange(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("data watcher error", zap.Error(err))
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("data file changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		}
	}
}

func (w *FileWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
