package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Format describes a named timestamp format for a log file.
type Format struct {
	Name       string         // Format name used in configuration
	PatternStr string         // Regex capturing the timestamp portion of a line
	Layouts    []string       // Go time layouts to try, in order
	Examples   []string       // Example log lines that match
	pattern    *regexp.Regexp // Compiled regex (set during init)
}

// Pattern returns the pre-compiled regex for this format.
func (f *Format) Pattern() *regexp.Regexp {
	return f.pattern
}

// Extractor returns a timestamp extractor for this format.
func (f *Format) Extractor() *Extractor {
	return NewExtractor(f.pattern, f.Layouts...)
}

// builtinFormats holds the known timestamp formats, keyed by name.
var builtinFormats = compileFormats([]*Format{
	// Apache/NGINX common log format; the timezone offset is optional in
	// some writers, so both layouts are tried.
	{
		Name:       "common",
		PatternStr: `\[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}(?:\s+[+-]\d{4})?)\]`,
		Layouts:    []string{"02/Jan/2006:15:04:05 -0700", "02/Jan/2006:15:04:05"},
		Examples:   []string{`127.0.0.1 - - [15/Jun/2024:10:30:00 +0000] "GET / HTTP/1.1" 200 512`},
	},
	// Combined differs from common only in trailing fields; the
	// timestamp portion is identical.
	{
		Name:       "combined",
		PatternStr: `\[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}(?:\s+[+-]\d{4})?)\]`,
		Layouts:    []string{"02/Jan/2006:15:04:05 -0700", "02/Jan/2006:15:04:05"},
		Examples:   []string{`127.0.0.1 - - [15/Jun/2024:10:30:00 +0000] "GET / HTTP/1.1" 200 512 "-" "curl/8.0"`},
	},
	{
		Name:       "iso8601",
		PatternStr: `(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:[+-]\d{2}:\d{2}|Z)?)`,
		Layouts:    []string{"2006-01-02T15:04:05-07:00", "2006-01-02T15:04:05Z", "2006-01-02T15:04:05"},
		Examples:   []string{`2024-06-15T10:30:00+00:00 GET /`},
	},
	{
		Name:       "bracketed",
		PatternStr: `^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`,
		Layouts:    []string{"2006-01-02 15:04:05"},
		Examples:   []string{`[2024-06-15 10:30:00] GET /`},
	},
	{
		Name:       "syslog",
		PatternStr: `^(\w{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})`,
		Layouts:    []string{"Jan 2 15:04:05"},
		Examples:   []string{`Jun 14 15:16:01 host httpd: GET /`},
	},
	// Report logs produced by the request log analyzer carry a marker
	// line rather than raw request lines; the window seeker anchors on it.
	{
		Name:       "rla",
		PatternStr: `Processing started at (\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2})`,
		Layouts:    []string{"02/Jan/2006:15:04:05"},
		Examples:   []string{`Processing started at 15/Jun/2024:10:30:00`},
	},
})

func compileFormats(formats []*Format) map[string]*Format {
	m := make(map[string]*Format, len(formats))
	for _, f := range formats {
		f.pattern = regexp.MustCompile(f.PatternStr)
		m[f.Name] = f
	}
	return m
}

// Lookup returns the named format, or an error listing known names.
func Lookup(name string) (*Format, error) {
	f, ok := builtinFormats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (known: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the known format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(builtinFormats))
	for name := range builtinFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
