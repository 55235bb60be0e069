package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"reelflow/internal/services"
)

const (
	defaultLockTimeout = 5 * time.Second
	defaultRetryDelay  = 50 * time.Millisecond
)

// Table is a JSON file holding a map of records keyed by string identifiers.
// Writers serialize on an advisory file lock and replace the whole file
// atomically, so concurrent writers to different keys of the same table never
// interleave partial states.
type Table[V any] struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
	retryDelay  time.Duration
}

// Option customizes table behaviour.
type Option func(*options)

type options struct {
	lockTimeout time.Duration
	retryDelay  time.Duration
}

// WithLockTimeout bounds the wait for the table write lock.
func WithLockTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.lockTimeout = timeout
		}
	}
}

// WithRetryDelay sets the polling interval while waiting for the lock.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay > 0 {
			o.retryDelay = delay
		}
	}
}

// NewTable binds a table to the JSON file at path. The file and its parent
// directory are created lazily on first write.
func NewTable[V any](path string, opts ...Option) *Table[V] {
	o := options{lockTimeout: defaultLockTimeout, retryDelay: defaultRetryDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[V]{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: o.lockTimeout,
		retryDelay:  o.retryDelay,
	}
}

// Path returns the backing file path.
func (t *Table[V]) Path() string {
	return t.path
}

// Read returns a snapshot of the table without taking the write lock. A
// missing file reads as an empty table.
func (t *Table[V]) Read(ctx context.Context) (map[string]V, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, _, err := ReadFile[map[string]V](t.path)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = map[string]V{}
	}
	return records, nil
}

// Get returns the record stored under key, if any.
func (t *Table[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	records, err := t.Read(ctx)
	if err != nil {
		return zero, false, err
	}
	value, ok := records[key]
	if !ok {
		return zero, false, nil
	}
	return value, true, nil
}

// Update applies fn to the current table contents under the advisory lock and
// atomically replaces the file with the result. fn receives a mutable map; a
// returned error aborts the write and releases the lock.
func (t *Table[V]) Update(ctx context.Context, fn func(map[string]V) error) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return services.Wrap(services.ErrInternal, "jsonstore", "update", "create data directory", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, t.lockTimeout)
	defer cancel()

	ok, err := t.lock.TryLockContext(lockCtx, t.retryDelay)
	if err != nil || !ok {
		if err == nil || errors.Is(err, context.DeadlineExceeded) {
			return services.Wrap(services.ErrConflict, "jsonstore", "lock", fmt.Sprintf("timed out acquiring lock for %s", filepath.Base(t.path)), err)
		}
		return services.Wrap(services.ErrInternal, "jsonstore", "lock", "acquire table lock", err)
	}
	defer t.lock.Unlock()

	records, _, err := ReadFile[map[string]V](t.path)
	if err != nil {
		return err
	}
	if records == nil {
		records = map[string]V{}
	}

	if err := fn(records); err != nil {
		return err
	}

	return writeAtomic(t.path, records)
}

// ReadFile decodes the JSON file at path into T. The second return value
// reports whether the file existed.
func ReadFile[T any](path string) (T, bool, error) {
	var value T
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return value, false, nil
		}
		return value, false, services.Wrap(services.ErrInternal, "jsonstore", "read", path, err)
	}
	if len(data) == 0 {
		return value, true, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, true, services.Wrap(services.ErrInternal, "jsonstore", "decode", path, err)
	}
	return value, true, nil
}

// writeAtomic marshals value and replaces path in one rename so readers never
// observe a partially written table.
func writeAtomic(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrInternal, "jsonstore", "encode", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return services.Wrap(services.ErrInternal, "jsonstore", "write", "create temp file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return services.Wrap(services.ErrInternal, "jsonstore", "write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrInternal, "jsonstore", "write", "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrInternal, "jsonstore", "write", "replace table file", err)
	}
	return nil
}
