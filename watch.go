package heft

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/akmonengine/heft/logging"
	"github.com/fsnotify/fsnotify"
)

// ConfigDebounce is how long a config file must stay quiet before it is
// reloaded. Editors often write a file in several steps.
const ConfigDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a config file whenever it changes on disk. Parsed
// configs arrive on Configs, load failures on Errors. Applying a config is up
// to the receiver, between two steps.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  logging.Logger

	Configs chan Config
	Errors  chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func WatchConfig(path string, logger logging.Logger) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("heft: watch config %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("heft: watch config %s: %w", path, err)
	}
	// The directory is watched so that rename-over saves are seen.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("heft: watch config %s: %w", path, err)
	}

	watcher := &ConfigWatcher{
		watcher: w,
		path:    abs,
		logger:  logging.OrNop(logger),
		Configs: make(chan Config, 1),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *ConfigWatcher) Path() string {
	return w.path
}

func (w *ConfigWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Configs)
		close(w.Errors)
	})
	return err
}

func (w *ConfigWatcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// A rename moves the file away; the one renamed into place shows up as Create.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(ConfigDebounce)
			} else {
				timer.Reset(ConfigDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publishError(fmt.Errorf("heft: watch config %s: %w", w.path, err))
		case <-w.closeCh:
			return
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Warnf("config reload failed: %v", err)
		w.publishError(err)
		return
	}
	w.logger.Infof("config %s reloaded", w.path)

	select {
	case w.Configs <- cfg:
	case <-w.closeCh:
	}
}

// publishError never blocks the watch loop: an error nobody drained yet wins
// over the new one.
func (w *ConfigWatcher) publishError(err error) {
	select {
	case w.Errors <- err:
	default:
		w.logger.Warnf("config watcher dropped error: %v", err)
	}
}
