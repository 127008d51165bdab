package parser

import (
	"bufio"
	"fmt"
	"os"
	"sort"
)

// DefaultDetectSample is how many lines DetectFormat examines.
const DefaultDetectSample = 100

// Candidate is a format that matched during detection.
type Candidate struct {
	Format  *Format
	Matched int // lines whose timestamp both matched and parsed
	Sampled int // lines examined
}

// DetectFormat samples up to maxLines lines from the start of the file
// and scores every known format against them. Candidates are returned
// best first; an empty result means no format matched anything.
func DetectFormat(path string, maxLines int) ([]Candidate, error) {
	if maxLines <= 0 {
		maxLines = DefaultDetectSample
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	for len(lines) < maxLines && sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var candidates []Candidate
	for _, name := range FormatNames() {
		format := builtinFormats[name]
		extractor := format.Extractor()

		matched := 0
		for _, line := range lines {
			if _, err := extractor.Extract(line); err == nil {
				matched++
			}
		}
		if matched > 0 {
			candidates = append(candidates, Candidate{
				Format:  format,
				Matched: matched,
				Sampled: len(lines),
			})
		}
	}

	// Best first; ties broken by name for stable output.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Matched != candidates[j].Matched {
			return candidates[i].Matched > candidates[j].Matched
		}
		return candidates[i].Format.Name < candidates[j].Format.Name
	})

	return candidates, nil
}
