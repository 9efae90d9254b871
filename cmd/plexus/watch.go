package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/fsnotify/fsnotify"
)

// watchDescriptors calls reload whenever path is written or replaced. The
// parent directory is watched so editors that save through a rename are
// noticed too.
func watchDescriptors(ctx context.Context, path string, reload func()) (io.Closer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file system watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					slog.Info("descriptors changed, rebuilding graph", slog.String("source", path), slog.String("event", event.Op.String()))
					reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("file system watcher error", slogx.Error(err))
			}
		}
	}()

	slog.Debug("watching descriptors", slog.String("source", path))
	return watcher, nil
}
