package trips

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// memorySink collects enriched trips in memory and can be armed to fail on a
// given Add call, standing in for a batch flush failure.
type memorySink struct {
	trips   []Trip
	flushes int
	failAt  int // 1-based Add index that fails; 0 = never
}

func (m *memorySink) Add(t Trip) error {
	if m.failAt > 0 && len(m.trips)+1 >= m.failAt {
		return ErrPersistence
	}
	m.trips = append(m.trips, t)
	return nil
}

func (m *memorySink) Flush() error {
	m.flushes++
	return nil
}

// sliceSource feeds rows from a slice, mimicking a streaming trip file.
type sliceSource struct {
	rows []TripRow
	i    int
}

func (s *sliceSource) Next() (TripRow, error) {
	if s.i >= len(s.rows) {
		return TripRow{}, io.EOF
	}
	row := s.rows[s.i]
	s.i++
	return row, nil
}

func (s *sliceSource) Close() error { return nil }

// TestPipeline_CountsAndAudit runs three rows — one good, one unknown-zone,
// one too-short — and checks the summary counts, the sink contents and the
// audit log lines.
func TestPipeline_CountsAndAudit(t *testing.T) {
	bad := validRow()
	bad.PULocationID = "999"

	short := validRow()
	short.DropoffDatetime = "2024-01-01 08:00:30"

	var auditBuf bytes.Buffer
	sink := &memorySink{}
	p := &Pipeline{
		Zones:      testSnapshot(),
		Sink:       sink,
		Exclusions: NewExclusionLog(&auditBuf, 100),
	}

	sum, err := p.Run(&sliceSource{rows: []TripRow{validRow(), bad, short}})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if sum.Processed != 3 || sum.Valid != 1 || sum.Excluded != 2 {
		t.Errorf("summary = %d/%d/%d, want 3/1/2", sum.Processed, sum.Valid, sum.Excluded)
	}
	if sum.ByReason[ReasonInvalidZone] != 1 || sum.ByReason[ReasonDurationRange] != 1 {
		t.Errorf("by_reason = %v", sum.ByReason)
	}
	if sum.RunID == "" {
		t.Error("summary is missing a run id")
	}
	if len(sink.trips) != 1 {
		t.Fatalf("sink has %d trips, want 1", len(sink.trips))
	}
	if sink.flushes != 1 {
		t.Errorf("sink flushed %d times, want 1 final flush", sink.flushes)
	}

	lines := strings.Split(strings.TrimRight(auditBuf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("audit log has %d lines, want 2", len(lines))
	}

	// Each line: <RFC3339 ts>\t<reason>\t<raw row json>.
	parts := strings.SplitN(lines[0], "\t", 3)
	if len(parts) != 3 {
		t.Fatalf("audit line has %d fields: %q", len(parts), lines[0])
	}
	if _, err := time.Parse(time.RFC3339, parts[0]); err != nil {
		t.Errorf("audit timestamp %q: %v", parts[0], err)
	}
	if parts[1] != string(ReasonInvalidZone) {
		t.Errorf("audit reason = %q, want %q", parts[1], ReasonInvalidZone)
	}
	var logged TripRow
	if err := json.Unmarshal([]byte(parts[2]), &logged); err != nil {
		t.Fatalf("audit raw row is not JSON: %v", err)
	}
	if logged.PULocationID != "999" {
		t.Errorf("audit raw row PULocationID = %q, want the verbatim original", logged.PULocationID)
	}
}

// TestPipeline_SinkFailureAborts verifies a persistence failure stops the run
// immediately and surfaces ErrPersistence.
func TestPipeline_SinkFailureAborts(t *testing.T) {
	rows := []TripRow{validRow(), validRow(), validRow()}
	sink := &memorySink{failAt: 2}
	p := &Pipeline{
		Zones:      testSnapshot(),
		Sink:       sink,
		Exclusions: NewExclusionLog(&bytes.Buffer{}, 100),
	}

	sum, err := p.Run(&sliceSource{rows: rows})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if sum.Valid != 1 {
		t.Errorf("valid = %d, want 1 before the failure", sum.Valid)
	}
}

// TestExclusionLog_Cap verifies rejections past the cap are dropped from the
// log while the run statistics keep counting.
func TestExclusionLog_Cap(t *testing.T) {
	bad := validRow()
	bad.PULocationID = "999"

	var auditBuf bytes.Buffer
	p := &Pipeline{
		Zones:      testSnapshot(),
		Sink:       &memorySink{},
		Exclusions: NewExclusionLog(&auditBuf, 2),
	}

	sum, err := p.Run(&sliceSource{rows: []TripRow{bad, bad, bad, bad, bad}})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if sum.Excluded != 5 {
		t.Errorf("excluded = %d, want all 5 counted", sum.Excluded)
	}
	if got := strings.Count(auditBuf.String(), "\n"); got != 2 {
		t.Errorf("audit log has %d lines, want capped 2", got)
	}
	if p.Exclusions.Written() != 2 {
		t.Errorf("Written() = %d, want 2", p.Exclusions.Written())
	}
}

// TestCSVSource_Streams verifies the CSV source resolves columns by header
// name and feeds the pipeline end to end.
func TestCSVSource_Streams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	content := strings.Join([]string{
		"VendorID,tpep_pickup_datetime,tpep_dropoff_datetime,passenger_count,trip_distance,RatecodeID,store_and_fwd_flag,PULocationID,DOLocationID,payment_type,fare_amount,extra,mta_tax,tip_amount,tolls_amount,improvement_surcharge,total_amount",
		"1,2024-01-01 08:00:00,2024-01-01 08:20:00,1,5,1,N,1,2,1,20,0,0.5,5,0,0.3,25",
		"2,2024-01-01 09:00:00,2024-01-01 09:00:30,1,1,1,N,1,2,1,5,0,0.5,0,0,0.3,6",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := OpenCSVSource(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	sink := &memorySink{}
	p := &Pipeline{
		Zones:      testSnapshot(),
		Sink:       sink,
		Exclusions: NewExclusionLog(&bytes.Buffer{}, 100),
	}

	sum, err := p.Run(src)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if sum.Processed != 2 || sum.Valid != 1 || sum.Excluded != 1 {
		t.Errorf("summary = %d/%d/%d, want 2/1/1", sum.Processed, sum.Valid, sum.Excluded)
	}
	if len(sink.trips) != 1 || sink.trips[0].TotalAmount != 25 {
		t.Errorf("sink = %+v", sink.trips)
	}
}
