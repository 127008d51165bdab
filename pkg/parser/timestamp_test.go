package parser

import (
	"regexp"
	"testing"
	"time"
)

func TestExtractor_Extract(t *testing.T) {
	pattern := regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`)
	layout := "2006-01-02 15:04:05"

	extractor := NewExtractor(pattern, layout)

	ts, err := extractor.Extract("[2024-01-15 10:30:00] GET /index.html")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("Extract() = %v, want %v", ts, want)
	}
}

func TestExtractor_NoMatch(t *testing.T) {
	pattern := regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`)
	extractor := NewExtractor(pattern, "2006-01-02 15:04:05")

	if _, err := extractor.Extract("no timestamp here"); err == nil {
		t.Error("Extract() expected error for non-matching line")
	}
}

func TestExtractor_FallbackLayouts(t *testing.T) {
	// The common format allows an optional timezone offset; both
	// variants must parse through the same extractor.
	format, err := Lookup("common")
	if err != nil {
		t.Fatal(err)
	}
	extractor := format.Extractor()

	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{
			name: "with offset",
			line: `127.0.0.1 - - [15/Jun/2024:10:30:00 +0200] "GET / HTTP/1.1" 200 512`,
			want: time.Date(2024, 6, 15, 10, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "without offset",
			line: `127.0.0.1 - - [15/Jun/2024:10:30:00] "GET / HTTP/1.1" 200 512`,
			want: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := extractor.Extract(tt.line)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Extract() = %v, want %v", ts, tt.want)
			}
		})
	}
}

func TestExtractor_ParseFailure(t *testing.T) {
	// Pattern matches but the captured text isn't a valid timestamp.
	pattern := regexp.MustCompile(`^\[(\S+)\]`)
	extractor := NewExtractor(pattern, "2006-01-02 15:04:05")

	if _, err := extractor.Extract("[not-a-time] GET /"); err == nil {
		t.Error("Extract() expected error for unparsable timestamp")
	}
}
