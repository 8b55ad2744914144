package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"tractionlab/api/database"
	"tractionlab/api/logger"
)

// Collection is a named append-only log of T persisted as one JSON array.
// Each append rewrites the whole array.
type Collection[T any] struct {
	fs       *database.FileStore
	name     string
	observer Observer
	logger   *slog.Logger
}

func NewCollection[T any](fs *database.FileStore, name string, observer Observer) *Collection[T] {
	return &Collection[T]{
		fs:       fs,
		name:     name,
		observer: observerOrNop(observer),
		logger:   logger.WithComponent("record-store").With("collection", name),
	}
}

// Append adds record to the end of the collection.
func (c *Collection[T]) Append(record T) error {
	return c.fs.Update(func(tx *database.Tx) error {
		_, err := c.AppendTx(tx, record)
		return err
	})
}

// LoadAll returns every record in insertion order, or an empty slice when the
// collection is absent or unreadable.
func (c *Collection[T]) LoadAll() []T {
	var records []T
	_ = c.fs.Update(func(tx *database.Tx) error {
		records = c.LoadTx(tx)
		return nil
	})
	if records == nil {
		records = []T{}
	}
	return records
}

// AppendTx appends inside an open transaction and returns the new length.
// Elements already on disk are carried over verbatim, including ones that do
// not decode as T.
func (c *Collection[T]) AppendTx(tx *database.Tx, record T) (int, error) {
	raw := c.loadRaw(tx)

	encoded, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("encoding %s record: %w", c.name, err)
	}
	raw = append(raw, encoded)

	if err := tx.WriteJSONIndent(c.name, raw); err != nil {
		return 0, fmt.Errorf("saving collection %s: %w", c.name, err)
	}
	return len(raw), nil
}

// LoadTx decodes the collection inside an open transaction. Elements that do
// not decode as T are skipped.
func (c *Collection[T]) LoadTx(tx *database.Tx) []T {
	raw := c.loadRaw(tx)
	records := make([]T, 0, len(raw))
	for i, elem := range raw {
		var rec T
		if err := json.Unmarshal(elem, &rec); err != nil {
			c.logger.Warn("skipping undecodable record", "index", i, "error", err)
			c.observer.ReadFault(database.FaultMalformed.String())
			continue
		}
		records = append(records, rec)
	}
	return records
}

// CountTx returns the number of stored elements, decodable or not. Every
// displayed total uses it.
func (c *Collection[T]) CountTx(tx *database.Tx) int {
	return len(c.loadRaw(tx))
}

func (c *Collection[T]) loadRaw(tx *database.Tx) []json.RawMessage {
	var raw []json.RawMessage
	if err := tx.ReadJSON(c.name, &raw); err != nil {
		reportFault(c.logger, c.observer, err)
		return nil
	}
	return raw
}
