package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

const fileExt = "json"

// FileStoreConfig holds dependencies for a FileStore
type FileStoreConfig struct {
	Dir    string // created if absent
	Kind   string // record type suffix, e.g. "guild"
	Codec  Codec
	Logger *slog.Logger
}

// FileStore keeps one file per record at <Dir>/<id>.<Kind>.json and an
// in-memory index of known ids. The index is built once when the store is
// opened and maintained by Put and Delete; files added or removed by other
// processes afterwards are not observed.
type FileStore[T Record] struct {
	dir    string
	kind   string
	codec  Codec
	logger *slog.Logger
	index  *xsync.MapOf[uuid.UUID, struct{}]
}

// NewFileStore creates the directory if needed and scans it for existing
// records of the configured kind.
func NewFileStore[T Record](cfg FileStoreConfig) (*FileStore[T], error) {
	if cfg.Kind == "" || strings.Contains(cfg.Kind, ".") {
		return nil, fmt.Errorf("%w: invalid record kind %q", ErrStorage, cfg.Kind)
	}
	if cfg.Codec == nil {
		return nil, fmt.Errorf("%w: codec is required", ErrStorage)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrStorage, cfg.Dir, err)
	}

	s := &FileStore[T]{
		dir:    cfg.Dir,
		kind:   cfg.Kind,
		codec:  cfg.Codec,
		logger: logger.With("type", cfg.Kind),
		index:  xsync.NewMapOf[uuid.UUID, struct{}](),
	}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore[T]) scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("%w: scan %s: %v", ErrStorage, s.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := s.parseName(e.Name()); ok {
			s.index.Store(id, struct{}{})
		}
	}
	s.logger.Debug("record index loaded", "count", s.index.Size(), "dir", s.dir)
	return nil
}

// parseName accepts "<uuid>.<kind>.json" and nothing else
func (s *FileStore[T]) parseName(name string) (uuid.UUID, bool) {
	parts := strings.Split(name, ".")
	if len(parts) != 3 || parts[1] != s.kind || parts[2] != fileExt {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Path returns the file a record with this id lives in
func (s *FileStore[T]) Path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+"."+s.kind+"."+fileExt)
}

// Kind returns the record type suffix
func (s *FileStore[T]) Kind() string {
	return s.kind
}

// Len returns the number of indexed ids
func (s *FileStore[T]) Len() int {
	return s.index.Size()
}

// IDs returns a snapshot of the indexed ids in no particular order
func (s *FileStore[T]) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, s.index.Size())
	s.index.Range(func(id uuid.UUID, _ struct{}) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// Load reads and decodes a record, distinguishing ErrNotFound, ErrDecode
// and ErrStorage.
func (s *FileStore[T]) Load(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, fmt.Errorf("%s %s: %w", s.kind, id, ErrNotFound)
		}
		return zero, fmt.Errorf("%w: read %s %s: %v", ErrStorage, s.kind, id, err)
	}

	var record T
	if err := s.codec.Unmarshal(data, &record); err != nil {
		return zero, fmt.Errorf("%w: %s %s: %v", ErrDecode, s.kind, id, err)
	}
	if record.RecordID() != id {
		return zero, fmt.Errorf("%w: %s file %s holds id %s", ErrDecode, s.kind, id, record.RecordID())
	}
	return record, nil
}

// Get returns the record, or false if it is missing or unreadable.
// Failures other than a missing file are logged.
func (s *FileStore[T]) Get(ctx context.Context, id uuid.UUID) (T, bool) {
	record, err := s.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("record unreadable, treating as absent", "id", id, "error", err)
		}
		var zero T
		return zero, false
	}
	return record, true
}

// Put encodes the record and replaces its file via a temp file and rename,
// then adds the id to the index.
func (s *FileStore[T]) Put(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := record.RecordID()
	if id == uuid.Nil {
		return fmt.Errorf("%w: %s has no id", ErrInvalidRecord, s.kind)
	}

	data, err := s.codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode %s %s: %v", ErrStorage, s.kind, id, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id.String()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s %s: %v", ErrStorage, s.kind, id, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s %s: %v", ErrStorage, s.kind, id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s %s: %v", ErrStorage, s.kind, id, err)
	}
	if err := os.Rename(tmpName, s.Path(id)); err != nil {
		return fmt.Errorf("%w: rename %s %s: %v", ErrStorage, s.kind, id, err)
	}

	s.index.Store(id, struct{}{})
	return nil
}

// Delete removes the record file and its index entry. A missing file is not
// an error.
func (s *FileStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.index.Delete(id)
	if err := os.Remove(s.Path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete %s %s: %v", ErrStorage, s.kind, id, err)
	}
	return nil
}

// All lazily yields every indexed record. Records that fail to load are
// logged and skipped. Iteration stops early if ctx is cancelled.
func (s *FileStore[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, id := range s.IDs() {
			if ctx.Err() != nil {
				return
			}
			record, ok := s.Get(ctx, id)
			if !ok {
				continue
			}
			if !yield(record) {
				return
			}
		}
	}
}
