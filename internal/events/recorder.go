// Package events provides the async operational event log. Writes go
// through a buffered channel so a slow database never blocks the hot path;
// a full buffer drops the event.
package events

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

// Event types written by the platform.
const (
	TypeInfo    = "info"
	TypeRevenue = "revenue"
	TypeSystem  = "system"
	TypeAlert   = "alert"
)

// Recorder appends events to the logs table from a single background
// goroutine.
type Recorder struct {
	db     *gorm.DB
	logg   *logger.Logger
	queue  chan models.EventLog
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewRecorder starts the recorder with the given buffer size.
func NewRecorder(db *gorm.DB, logg *logger.Logger, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	r := &Recorder{
		db:    db,
		logg:  logg,
		queue: make(chan models.EventLog, bufferSize),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for event := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := r.db.WithContext(ctx).Create(&event).Error
		cancel()
		if err != nil && r.logg != nil {
			r.logg.Error(context.Background(), "event log write failed", err)
		}
	}
}

// Record enqueues an event. Returns false when the buffer is full or the
// recorder is closed; the event is then lost by design of the log channel.
// The mutex is held across the send so Close cannot close the queue
// mid-record.
func (r *Recorder) Record(eventType, message string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}

	select {
	case r.queue <- models.EventLog{Message: message, Type: eventType}:
		return true
	default:
		return false
	}
}

// Recent returns the latest events, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]models.EventLog, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []models.EventLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// Close drains queued events and stops the writer.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
