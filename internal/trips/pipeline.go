package trips

import (
	"fmt"
	"io"

	"github.com/UrbanAtlas/trip-backend/internal/zones"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Summary is what a single ingestion run reports back.
type Summary struct {
	RunID     string         `json:"run_id"`
	Processed int            `json:"processed"`
	Valid     int            `json:"valid"`
	Excluded  int            `json:"excluded"`
	ByReason  map[Reason]int `json:"by_reason"`
}

// Pipeline wires one ingestion run: a zone snapshot taken before streaming
// starts, a sink for accepted trips and an audit log for rejected ones.
// The snapshot is never re-read mid-run, so zone edits only show up in the
// next run.
type Pipeline struct {
	Zones      *zones.Snapshot
	Sink       TripSink
	Exclusions *ExclusionLog
}

// Run drains the source sequentially: validate, then either log the
// rejection or enrich and hand to the sink. Sink and source errors are fatal
// and abort the run; batches flushed before the error stay durable.
func (p *Pipeline) Run(src TripSource) (Summary, error) {
	sum := Summary{
		RunID:    uuid.NewString(),
		ByReason: map[Reason]int{},
	}

	runLog := log.WithField("run_id", sum.RunID)
	runLog.WithField("zones", p.Zones.Len()).Info("trip ingestion started")

	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("trip source: %w", err)
		}
		sum.Processed++

		v := Validate(row, p.Zones)
		if !v.Accepted {
			sum.Excluded++
			sum.ByReason[v.Reason]++
			p.Exclusions.Log(v.Reason, row)
			continue
		}

		if err := p.Sink.Add(Enrich(row, p.Zones)); err != nil {
			return sum, err
		}
		sum.Valid++

		if sum.Processed%100000 == 0 {
			runLog.WithFields(log.Fields{
				"processed": sum.Processed,
				"valid":     sum.Valid,
				"excluded":  sum.Excluded,
			}).Info("trip ingestion progress")
		}
	}

	if err := p.Sink.Flush(); err != nil {
		return sum, err
	}

	runLog.WithFields(log.Fields{
		"processed": sum.Processed,
		"valid":     sum.Valid,
		"excluded":  sum.Excluded,
	}).Info("trip ingestion finished")
	return sum, nil
}
