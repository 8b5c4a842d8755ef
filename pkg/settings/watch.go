package settings

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads the settings file at path whenever it changes and passes each
// successfully parsed Resolver to fn. Invalid intermediate writes are
// reported to onErr, when given, and otherwise ignored.
//
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Resolver), onErr func(error)) error {
	if fn == nil {
		return errors.New("settings: nil watch callback")
	}

	dir := filepath.Dir(path)
	target := filepath.Join(dir, filepath.Base(path))

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The directory is watched so editors that replace the file are seen.
	if err := w.Add(dir); err != nil {
		return err
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	reload := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			r, err := LoadFile(path)
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				return
			}
			fn(r)
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == target && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				reload()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}
