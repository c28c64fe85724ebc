package trips

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
)

// parquetTrip mirrors the TLC yellow-cab parquet schema. Numeric columns come
// through as their native types; everything is optional because monthly files
// disagree on which columns they carry.
type parquetTrip struct {
	VendorID             int64     `parquet:"VendorID,optional"`
	PickupDatetime       time.Time `parquet:"tpep_pickup_datetime,optional"`
	DropoffDatetime      time.Time `parquet:"tpep_dropoff_datetime,optional"`
	PassengerCount       float64   `parquet:"passenger_count,optional"`
	TripDistance         float64   `parquet:"trip_distance,optional"`
	RatecodeID           float64   `parquet:"RatecodeID,optional"`
	StoreAndFwdFlag      string    `parquet:"store_and_fwd_flag,optional"`
	PULocationID         int64     `parquet:"PULocationID,optional"`
	DOLocationID         int64     `parquet:"DOLocationID,optional"`
	PaymentType          int64     `parquet:"payment_type,optional"`
	FareAmount           float64   `parquet:"fare_amount,optional"`
	Extra                float64   `parquet:"extra,optional"`
	MTATax               float64   `parquet:"mta_tax,optional"`
	TipAmount            float64   `parquet:"tip_amount,optional"`
	TollsAmount          float64   `parquet:"tolls_amount,optional"`
	ImprovementSurcharge float64   `parquet:"improvement_surcharge,optional"`
	CongestionSurcharge  float64   `parquet:"congestion_surcharge,optional"`
	AirportFee           float64   `parquet:"airport_fee,optional"`
	TotalAmount          float64   `parquet:"total_amount,optional"`
}

// ParquetSource streams trip rows from a columnar export in fixed-size
// chunks, so a multi-million-row file is never resident in memory at once.
type ParquetSource struct {
	f   *os.File
	r   *parquet.GenericReader[parquetTrip]
	buf []parquetTrip
	n   int
	idx int
	eof bool
}

const parquetChunk = 1024

func OpenParquetSource(path string) (*ParquetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trip file: %w", err)
	}
	return &ParquetSource{
		f:   f,
		r:   parquet.NewGenericReader[parquetTrip](f),
		buf: make([]parquetTrip, parquetChunk),
	}, nil
}

func (s *ParquetSource) Next() (TripRow, error) {
	if s.idx >= s.n {
		if s.eof {
			return TripRow{}, io.EOF
		}
		n, err := s.r.Read(s.buf)
		if err == io.EOF {
			s.eof = true
		} else if err != nil {
			return TripRow{}, fmt.Errorf("read parquet rows: %w", err)
		}
		if n == 0 {
			return TripRow{}, io.EOF
		}
		s.n, s.idx = n, 0
	}

	row := s.buf[s.idx]
	s.idx++
	return row.toTripRow(), nil
}

func (s *ParquetSource) Close() error {
	s.r.Close()
	return s.f.Close()
}

// toTripRow renders the typed parquet record into the string shape shared
// with the CSV source, so the validator and exclusion log see one format.
func (t parquetTrip) toTripRow() TripRow {
	return TripRow{
		VendorID:             formatInt(t.VendorID),
		PickupDatetime:       formatTimestamp(t.PickupDatetime),
		DropoffDatetime:      formatTimestamp(t.DropoffDatetime),
		PassengerCount:       formatFloat(t.PassengerCount),
		TripDistance:         formatFloat(t.TripDistance),
		RatecodeID:           formatFloat(t.RatecodeID),
		StoreAndFwdFlag:      t.StoreAndFwdFlag,
		PULocationID:         formatInt(t.PULocationID),
		DOLocationID:         formatInt(t.DOLocationID),
		PaymentType:          formatInt(t.PaymentType),
		FareAmount:           formatFloat(t.FareAmount),
		Extra:                formatFloat(t.Extra),
		MTATax:               formatFloat(t.MTATax),
		TipAmount:            formatFloat(t.TipAmount),
		TollsAmount:          formatFloat(t.TollsAmount),
		ImprovementSurcharge: formatFloat(t.ImprovementSurcharge),
		CongestionSurcharge:  formatFloat(t.CongestionSurcharge),
		AirportFee:           formatFloat(t.AirportFee),
		TotalAmount:          formatFloat(t.TotalAmount),
	}
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
