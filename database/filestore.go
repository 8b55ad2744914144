package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"tractionlab/api/logger"
)

var (
	ErrClosed      = errors.New("file store is closed")
	ErrInvalidName = errors.New("invalid record name")
)

var recordNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore is the durable state of the process: one JSON file per named
// record under a single data directory. Every read and write goes through
// Update, which holds one process-wide lock for the whole callback.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	closed bool
	logger *slog.Logger
}

// NewFileStore ensures dir exists and returns a store rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	s := &FileStore{
		dir:    dir,
		logger: logger.WithComponent("filestore"),
	}
	s.logger.Info("file store ready", "dir", dir)
	return s, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Update runs fn with the store lock held. Nested calls deadlock: fn must only
// use the Tx it is given.
func (s *FileStore) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return fn(&Tx{store: s})
}

// Close waits for the in-flight critical section, if any, and rejects
// further updates. Writes are synchronous so there is nothing to flush.
func (s *FileStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		s.logger.Info("file store closed", "dir", s.dir)
	}
}

func (s *FileStore) path(name string) (string, error) {
	if !recordNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Tx is the handle passed to Update callbacks. It is only valid inside the
// callback that received it.
type Tx struct {
	store *FileStore
}

// ReadJSON decodes the named record into v. Any failure is reported as a
// *ReadFault so callers can apply their own default.
func (tx *Tx) ReadJSON(name string, v any) error {
	path, err := tx.store.path(name)
	if err != nil {
		return &ReadFault{Name: name, Kind: FaultIO, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ReadFault{Name: name, Kind: FaultMissing, Err: err}
		}
		return &ReadFault{Name: name, Kind: FaultIO, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ReadFault{Name: name, Kind: FaultMalformed, Err: err}
	}
	return nil
}

// WriteJSON replaces the named record with the compact encoding of v.
func (tx *Tx) WriteJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return tx.write(name, data)
}

// WriteJSONIndent replaces the named record with an indented encoding of v.
func (tx *Tx) WriteJSONIndent(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return tx.write(name, data)
}

// write stores data through a temp file and rename so a crash leaves either
// the previous or the new content in place.
func (tx *Tx) write(name string, data []byte) error {
	path, err := tx.store.path(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}

	success = true
	tx.store.logger.Debug("record written", "name", name, "bytes", len(data))
	return nil
}
