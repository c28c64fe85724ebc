package trips

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TripSource is a pull-based iterator over raw trip rows. Next returns io.EOF
// at end of stream. Because the pipeline only pulls the next row after the
// previous one is fully handled (including any batch flush), the source never
// runs ahead of the consumer.
type TripSource interface {
	Next() (TripRow, error)
	Close() error
}

// OpenSource picks a reader for the file by extension: .parquet for columnar
// exports, anything else is treated as delimited text.
func OpenSource(path string) (TripSource, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return OpenParquetSource(path)
	}
	return OpenCSVSource(path)
}

// CSVSource streams one row at a time from a delimited trip file. Columns are
// located by header name, so column order does not matter and unknown columns
// are ignored.
type CSVSource struct {
	f   *os.File
	r   *csv.Reader
	col map[string]int
}

func OpenCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trip file: %w", err)
	}

	r := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read trip header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	return &CSVSource{f: f, r: r, col: col}, nil
}

func (s *CSVSource) Next() (TripRow, error) {
	rec, err := s.r.Read()
	if err != nil {
		if err == io.EOF {
			return TripRow{}, io.EOF
		}
		return TripRow{}, fmt.Errorf("read trip row: %w", err)
	}

	get := func(name string) string {
		i, ok := s.col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	return TripRow{
		VendorID:             get("VendorID"),
		PickupDatetime:       get("tpep_pickup_datetime"),
		DropoffDatetime:      get("tpep_dropoff_datetime"),
		PassengerCount:       get("passenger_count"),
		TripDistance:         get("trip_distance"),
		RatecodeID:           get("RatecodeID"),
		StoreAndFwdFlag:      get("store_and_fwd_flag"),
		PULocationID:         get("PULocationID"),
		DOLocationID:         get("DOLocationID"),
		PaymentType:          get("payment_type"),
		FareAmount:           get("fare_amount"),
		Extra:                get("extra"),
		MTATax:               get("mta_tax"),
		TipAmount:            get("tip_amount"),
		TollsAmount:          get("tolls_amount"),
		ImprovementSurcharge: get("improvement_surcharge"),
		CongestionSurcharge:  get("congestion_surcharge"),
		AirportFee:           get("airport_fee"),
		TotalAmount:          get("total_amount"),
	}, nil
}

func (s *CSVSource) Close() error { return s.f.Close() }
