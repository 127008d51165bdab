package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jrenner/tailgate/pkg/parser"
)

// SeekWindow locates the byte offset where the analysis window starting
// at target begins, without a full forward scan. It reverse-scans the
// file, remembering the offset of the earliest line whose timestamp is
// still at or after target, and stops at the first older line: the
// backward cost is bounded by the window's own length, not the file's
// history.
//
// When no line satisfies the target (target predates all data, or
// nothing parses) the offset is 0 and the whole file is in the window.
//
// The returned file is open and positioned at the offset, ready for a
// forward read to end-of-file; the caller owns it.
func SeekWindow(ctx context.Context, path string, target time.Time, extractor *parser.Extractor) (*os.File, int64, error) {
	sc, err := parser.OpenReverse(path)
	if err != nil {
		return nil, 0, err
	}
	defer sc.Close()

	var offset int64

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		ts, err := extractor.Extract(sc.Text())
		if err != nil {
			continue
		}
		if ts.Before(target) {
			break
		}
		offset = sc.Offset()
	}

	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("seeking window start in %s: %w", path, err)
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, 0, fmt.Errorf("reopening %s: %w", path, err)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("seeking %s to offset %d: %w", path, offset, err)
	}

	return f, offset, nil
}
