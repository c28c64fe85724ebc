package trips

import "testing"

// TestParseAmount covers the tolerant numeric parser: thousands separators,
// whitespace, empty defaults and the unparseable sentinel.
func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		def  float64
		want float64
	}{
		{"12.5", 0, 12.5},
		{" 12.5 ", 0, 12.5},
		{"1,250.50", 0, 1250.5},
		{"", 0, 0},
		{"", 7, 7},
		{"garbage", 0, badNumber},
		{"-3", 0, -3},
	}
	for _, c := range cases {
		if got := parseAmount(c.in, c.def); got != c.want {
			t.Errorf("parseAmount(%q, %v) = %v, want %v", c.in, c.def, got, c.want)
		}
	}
}

// TestParseZoneID verifies integer and float-formatted ids parse, while
// missing and fractional values do not.
func TestParseZoneID(t *testing.T) {
	if id, ok := parseZoneID("132"); !ok || id != 132 {
		t.Errorf("parseZoneID(132) = %d, %v", id, ok)
	}
	if id, ok := parseZoneID("132.0"); !ok || id != 132 {
		t.Errorf("parseZoneID(132.0) = %d, %v", id, ok)
	}
	if _, ok := parseZoneID(""); ok {
		t.Error("parseZoneID(\"\") should fail")
	}
	if _, ok := parseZoneID("132.5"); ok {
		t.Error("parseZoneID(132.5) should fail")
	}
	if _, ok := parseZoneID("abc"); ok {
		t.Error("parseZoneID(abc) should fail")
	}
}

// TestParseTimestamp verifies all supported layouts parse to the same instant.
func TestParseTimestamp(t *testing.T) {
	inputs := []string{
		"2024-01-01 08:00:00",
		"2024-01-01T08:00:00",
	}
	for _, in := range inputs {
		ts, ok := parseTimestamp(in)
		if !ok {
			t.Errorf("parseTimestamp(%q) failed", in)
			continue
		}
		if ts.Hour() != 8 || ts.Year() != 2024 {
			t.Errorf("parseTimestamp(%q) = %v", in, ts)
		}
	}

	if _, ok := parseTimestamp(""); ok {
		t.Error("empty timestamp should fail")
	}
	if _, ok := parseTimestamp("01/01/2024"); ok {
		t.Error("unsupported layout should fail")
	}
}
