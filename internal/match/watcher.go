package match

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appconfig "matchflow/config"
	"matchflow/internal/channel"
	"matchflow/logger"
)

var mediaExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".m4v": {},
	".wav": {},
}

// Watcher monitors an inbox directory and turns newly arrived media files
// into match jobs. A file is queued only after its size has been stable for
// the settle delay, so half-copied videos are never picked up.
type Watcher struct {
	config   appconfig.WatchConfig
	channels *channel.Channels
	watcher  *fsnotify.Watcher
	wg       sync.WaitGroup
	log      *logger.Log
}

func NewWatcher(cfg appconfig.WatchConfig, channels *channel.Channels) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(cfg.InboxDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.InboxDir, err)
	}

	return &Watcher{
		config:   cfg,
		channels: channels,
		watcher:  fsw,
		log:      logger.GetLogger(),
	}, nil
}

// Start blocks until the context is cancelled or the watcher breaks. Files
// already present in the inbox when the watcher starts are queued as well, so
// a restart never strands a match.
func (w *Watcher) Start(ctx context.Context) error {
	log := w.log.WithComponent("inbox_watcher").WithFields(logger.Fields{"inbox": w.config.InboxDir})
	log.Info("inbox watcher started")

	w.queueExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			log.Info("inbox watcher stopped")
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isMediaFile(event.Name) {
				log.WithFields(logger.Fields{"path": event.Name}).Debug("ignoring non-media file")
				continue
			}
			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				w.settleAndQueue(ctx, path)
			}(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.WithError(err).Error("watcher error")
		}
	}
}

func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) queueExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.config.InboxDir)
	if err != nil {
		w.log.WithComponent("inbox_watcher").WithError(err).Warn("failed to list inbox")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isMediaFile(entry.Name()) {
			continue
		}
		w.channels.SendJob(ctx, channel.MatchJob{Path: filepath.Join(w.config.InboxDir, entry.Name())})
	}
}

// settleAndQueue waits until the file size stops changing, then queues it.
func (w *Watcher) settleAndQueue(ctx context.Context, path string) {
	log := w.log.WithComponent("inbox_watcher").WithFields(logger.Fields{"path": path})

	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.config.SettleDelay):
		}

		info, err := os.Stat(path)
		if err != nil {
			log.WithError(err).Warn("file vanished before it settled")
			return
		}
		if info.Size() == lastSize {
			break
		}
		lastSize = info.Size()
	}

	log.Info("new match file settled, queueing")
	w.channels.SendJob(ctx, channel.MatchJob{Path: path})
}

func isMediaFile(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
