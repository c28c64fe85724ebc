package trips

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrPersistence marks a failed batch flush. The pipeline treats it as fatal;
// batches flushed before the failure stay durable.
var ErrPersistence = errors.New("persistence failure")

// TripSink receives enriched trips. The pipeline only knows this interface;
// tests swap in an in-memory sink.
type TripSink interface {
	Add(t Trip) error
	Flush() error
}

// BatchWriter buffers trips and writes each full batch as one multi-row
// insert. Add blocks for the duration of a flush, which is what throttles
// the upstream reader.
type BatchWriter struct {
	db   *gorm.DB
	size int
	buf  []Trip
}

const DefaultBatchSize = 2000

func NewBatchWriter(d *gorm.DB, size int) *BatchWriter {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchWriter{db: d, size: size, buf: make([]Trip, 0, size)}
}

func (w *BatchWriter) Add(t Trip) error {
	w.buf = append(w.buf, t)
	if len(w.buf) >= w.size {
		return w.Flush()
	}
	return nil
}

// Flush writes the buffered trips, including a final partial batch at
// end-of-stream. No-op when the buffer is empty.
func (w *BatchWriter) Flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	if err := w.db.Create(&w.buf).Error; err != nil {
		return fmt.Errorf("%w: batch of %d: %v", ErrPersistence, len(w.buf), err)
	}
	w.buf = w.buf[:0]
	return nil
}
