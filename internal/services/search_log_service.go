// internal/services/search_log_service.go
package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/medlocator/internal/models"
)

// SearchLogService records searches without ever blocking or failing the
// search itself. Entries go through a bounded queue drained by workers.
type SearchLogService struct {
	db      *gorm.DB
	queue   chan *models.SearchLog
	workers int
	log     *logrus.Entry

	dropped atomic.Int64
	failed  atomic.Int64
	written atomic.Int64

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

func NewSearchLogService(db *gorm.DB, queueSize, workers int) *SearchLogService {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	return &SearchLogService{
		db:      db,
		queue:   make(chan *models.SearchLog, queueSize),
		workers: workers,
		log:     logrus.WithField("component", "search_log"),
	}
}

// Record enqueues entry and returns immediately. A full queue drops it.
func (s *SearchLogService) Record(entry *models.SearchLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.dropped.Add(1)
		return
	}

	select {
	case s.queue <- entry:
	default:
		s.dropped.Add(1)
		s.log.WithField("request_id", entry.RequestID).Warn("Search log queue full, dropping entry")
	}
}

// Start launches the workers. Calling it more than once is a no-op.
func (s *SearchLogService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.run(ctx)
	}
}

// Stop closes the queue and waits for the workers to drain it.
func (s *SearchLogService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *SearchLogService) run(ctx context.Context) {
	defer s.wg.Done()
	for entry := range s.queue {
		s.write(ctx, entry)
	}
}

func (s *SearchLogService) write(ctx context.Context, entry *models.SearchLog) {
	// Detached so entries queued before shutdown still land
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.db.WithContext(writeCtx).Create(entry).Error; err != nil {
		s.failed.Add(1)
		s.log.WithError(err).WithField("request_id", entry.RequestID).Error("Failed to write search log")
		return
	}
	s.written.Add(1)
}

func (s *SearchLogService) Dropped() int64 { return s.dropped.Load() }
func (s *SearchLogService) Failed() int64  { return s.failed.Load() }
func (s *SearchLogService) Written() int64 { return s.written.Load() }
