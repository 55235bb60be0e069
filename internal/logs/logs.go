package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

const (
	pollInterval = 250 * time.Millisecond
	maxLineBytes = 1024 * 1024
)

// Request describes one read of a log file. A negative Cursor asks for the
// last Limit complete lines; a non-negative Cursor resumes from that byte
// position. When Follow is set and the read yields nothing, the call polls
// for new lines for up to Wait before returning.
type Request struct {
	Cursor int64
	Limit  int
	Follow bool
	Wait   time.Duration
}

// Page is the result of one read: the lines found and the cursor to resume
// from on the next call.
type Page struct {
	Lines  []string
	Cursor int64
}

// Read serves one page of the log file at path. A missing file is not an
// error; it yields an empty page with cursor zero so callers can keep polling
// until the daemon writes its first line. The cursor only ever advances past
// complete lines, so a line caught mid-write is returned whole on a later
// call instead of being split.
func Read(ctx context.Context, path string, req Request) (Page, error) {
	if req.Wait < 0 {
		req.Wait = 0
	}

	page, err := readOnce(path, req.Cursor, req.Limit)
	if err != nil {
		return page, err
	}
	if len(page.Lines) > 0 || !req.Follow || req.Wait == 0 {
		return page, nil
	}
	return awaitLines(ctx, path, page.Cursor, req.Wait)
}

func readOnce(path string, cursor int64, limit int) (Page, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, nil
		}
		return Page{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Page{}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return Page{}, fmt.Errorf("log path %s is a directory", path)
	}
	size := info.Size()

	if cursor < 0 {
		return lastLines(file, size, limit)
	}
	if cursor > size {
		// Truncated or rotated underneath us. Restart at the top.
		cursor = 0
	}
	return scanFrom(file, cursor)
}

// lastLines returns the trailing window of complete lines and a cursor at the
// end of the file.
func lastLines(file *os.File, size int64, limit int) (Page, error) {
	page := Page{Cursor: size}
	if limit <= 0 {
		return page, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		page.Lines = append(page.Lines, scanner.Text())
		if len(page.Lines) > limit {
			page.Lines = page.Lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return Page{Cursor: size}, fmt.Errorf("read log file: %w", err)
	}
	return page, nil
}

// scanFrom reads every complete line between cursor and the end of the file.
// A trailing partial line is left unread so the cursor never lands inside a
// line.
func scanFrom(file *os.File, cursor int64) (Page, error) {
	if _, err := file.Seek(cursor, io.SeekStart); err != nil {
		return Page{}, fmt.Errorf("seek log file: %w", err)
	}

	page := Page{Cursor: cursor}
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return page, nil
		}
		if err != nil {
			return page, fmt.Errorf("read log file: %w", err)
		}
		page.Cursor += int64(len(line))
		page.Lines = append(page.Lines, strings.TrimRight(line, "\r\n"))
	}
}

func awaitLines(ctx context.Context, path string, cursor int64, wait time.Duration) (Page, error) {
	deadline := time.Now().Add(wait)
	for {
		select {
		case <-ctx.Done():
			return Page{Cursor: cursor}, ctx.Err()
		case <-time.After(pollInterval):
		}

		page, err := readOnce(path, cursor, 0)
		if err != nil || len(page.Lines) > 0 {
			return page, err
		}
		cursor = page.Cursor
		if !time.Now().Before(deadline) {
			return page, nil
		}
	}
}
