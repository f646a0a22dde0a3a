package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"camgallery/internal/service"
)

// RetentionWorker periodically evicts images above the configured limit and
// deletes archived weather rows older than archiveMaxAge.
type RetentionWorker struct {
	images        service.ImageService
	weather       service.WeatherService
	interval      time.Duration
	archiveMaxAge time.Duration
	now           func() time.Time

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

func NewRetentionWorker(
	images service.ImageService,
	weather service.WeatherService,
	interval, archiveMaxAge time.Duration,
) *RetentionWorker {
	return &RetentionWorker{
		images:        images,
		weather:       weather,
		interval:      interval,
		archiveMaxAge: archiveMaxAge,
		now:           time.Now,
	}
}

func (w *RetentionWorker) Name() string { return "retention" }

func (w *RetentionWorker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	log.Printf("Retention Worker started with interval %v", w.interval)

	// first pass right away
	w.RunOnce(context.Background())

	go w.run(w.stopChan, w.done)
}

func (w *RetentionWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mu.Unlock()

	<-done
	log.Println("Retention Worker stopped")
}

func (w *RetentionWorker) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce(context.Background())
		case <-stop:
			return
		}
	}
}

// RunOnce performs a single retention pass and reports what it removed.
func (w *RetentionWorker) RunOnce(ctx context.Context) (images int, rows int64) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	images, err := w.images.Prune()
	if err != nil {
		log.Printf("Retention Worker image cleanup error: %v", err)
	}

	if w.archiveMaxAge > 0 {
		rows, err = w.weather.PruneArchive(ctx, w.now().Add(-w.archiveMaxAge))
		if err != nil && !errors.Is(err, service.ErrArchiveDisabled) {
			log.Printf("Retention Worker archive cleanup error: %v", err)
		}
	}

	if images > 0 || rows > 0 {
		log.Printf("Retention Worker: removed %d images and %d archived records", images, rows)
	}
	return images, rows
}
