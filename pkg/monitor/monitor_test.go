package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jrenner/tailgate/pkg/parser"
)

// memStore is an in-memory state.Store for tests.
type memStore struct {
	values map[string]time.Time
	sets   []string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]time.Time)}
}

func (m *memStore) Get(key string) (time.Time, bool) {
	t, ok := m.values[key]
	return t, ok
}

func (m *memStore) Set(key string, t time.Time) error {
	m.values[key] = t
	m.sets = append(m.sets, key)
	return nil
}

// clfLine renders a common-format request line for the given timestamp.
func clfLine(ts time.Time) string {
	return fmt.Sprintf(`127.0.0.1 - - [%s] "GET / HTTP/1.1" 200 512`,
		ts.Format("02/Jan/2006:15:04:05 -0700"))
}

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.log")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func commonExtractor(t *testing.T) *parser.Extractor {
	t.Helper()
	format, err := parser.Lookup("common")
	if err != nil {
		t.Fatal(err)
	}
	return format.Extractor()
}
