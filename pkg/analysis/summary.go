package analysis

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultTopPaths is how many request paths the summary lists.
const DefaultTopPaths = 10

// requestPattern pulls the method, path, and status out of a common or
// combined format line.
var requestPattern = regexp.MustCompile(`"(\S+)\s+(\S+)[^"]*"\s+(\d{3})`)

// SummaryEngine is the built-in analysis engine: a plain-text summary of
// the window with totals, status classes, and the most requested paths.
type SummaryEngine struct {
	// TopPaths is how many paths to list; DefaultTopPaths when zero.
	TopPaths int
}

// Name identifies the engine in the rendered report.
func (e *SummaryEngine) Name() string {
	return "summary"
}

// Analyze scans the window forward and builds the summary body.
func (e *SummaryEngine) Analyze(ctx context.Context, req Request) (string, error) {
	topPaths := e.TopPaths
	if topPaths <= 0 {
		topPaths = DefaultTopPaths
	}

	var (
		total    int
		unparsed int
		statuses = make(map[string]int)
		paths    = make(map[string]int)
	)

	sc := bufio.NewScanner(req.Source)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		total++

		m := requestPattern.FindStringSubmatch(sc.Text())
		if m == nil {
			unparsed++
			continue
		}

		statuses[m[3][:1]+"xx"]++
		paths[m[2]]++
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading analysis window: %w", err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Requests: %d\n", total)
	if unparsed > 0 {
		fmt.Fprintf(&b, "Unparsed lines: %d\n", unparsed)
	}

	if len(statuses) > 0 {
		fmt.Fprintf(&b, "Status classes:\n")
		for _, class := range sortedKeys(statuses) {
			fmt.Fprintf(&b, "  %s: %d\n", class, statuses[class])
		}
	}

	if len(paths) > 0 {
		fmt.Fprintf(&b, "Top paths:\n")
		for _, pc := range topCounts(paths, topPaths) {
			fmt.Fprintf(&b, "  %6d  %s\n", pc.count, pc.key)
		}
	}

	return b.String(), nil
}

type keyCount struct {
	key   string
	count int
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topCounts returns the n highest-count entries, ties broken by key for
// stable output.
func topCounts(m map[string]int, n int) []keyCount {
	entries := make([]keyCount, 0, len(m))
	for k, c := range m {
		entries = append(entries, keyCount{key: k, count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
