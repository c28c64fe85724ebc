package trips

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// ExclusionLog is the append-only audit sink for rejected rows. One TSV line
// per rejection: ISO-8601 timestamp, reason code, raw row as JSON. Writes are
// best-effort and capped per run so a pathological input file cannot grow the
// log without bound; rejections past the cap are still counted upstream.
type ExclusionLog struct {
	w       io.Writer
	closer  io.Closer
	cap     int
	written int
	warned  bool
}

const DefaultExclusionCap = 10000

func OpenExclusionLog(path string, capacity int) (*ExclusionLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open exclusion log: %w", err)
	}
	l := NewExclusionLog(f, capacity)
	l.closer = f
	return l, nil
}

func NewExclusionLog(w io.Writer, capacity int) *ExclusionLog {
	if capacity <= 0 {
		capacity = DefaultExclusionCap
	}
	return &ExclusionLog{w: w, cap: capacity}
}

func (l *ExclusionLog) Log(reason Reason, row TripRow) {
	if l == nil || l.w == nil || l.written >= l.cap {
		return
	}

	raw, err := json.Marshal(row)
	if err != nil {
		// TripRow is all strings; this cannot realistically fail.
		return
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	if _, err := fmt.Fprintf(l.w, "%s\t%s\t%s\n", ts, reason, raw); err != nil {
		if !l.warned {
			log.WithError(err).Warn("exclusion log write failed, further failures suppressed")
			l.warned = true
		}
		return
	}
	l.written++
}

// Written reports how many lines made it to the log this run.
func (l *ExclusionLog) Written() int { return l.written }

func (l *ExclusionLog) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
