package store

import (
	"fmt"
	"log/slog"
	"net/http"

	"tractionlab/api/apperrors"
	"tractionlab/api/database"
	"tractionlab/api/logger"
	"tractionlab/api/utils"
)

// counterRecord is the on-disk shape of a counter: {"count": n}.
type counterRecord struct {
	Count int `json:"count"`
}

// CounterStore reads and writes named non-negative integers.
type CounterStore struct {
	fs       *database.FileStore
	observer Observer
	logger   *slog.Logger
}

func NewCounterStore(fs *database.FileStore, observer Observer) *CounterStore {
	return &CounterStore{
		fs:       fs,
		observer: observerOrNop(observer),
		logger:   logger.WithComponent("counter-store"),
	}
}

// Get returns the counter value, or 0 when it is absent or unreadable.
func (s *CounterStore) Get(name string) int {
	var value int
	_ = s.fs.Update(func(tx *database.Tx) error {
		value = s.Load(tx, name)
		return nil
	})
	return value
}

// Set overwrites the counter with value.
func (s *CounterStore) Set(name string, value int) error {
	return s.fs.Update(func(tx *database.Tx) error {
		return s.Save(tx, name, value)
	})
}

// Increment adds one to the counter and returns the new value.
func (s *CounterStore) Increment(name string) (int, error) {
	var value int
	err := s.fs.Update(func(tx *database.Tx) error {
		var err error
		value, err = s.Add(tx, name)
		return err
	})
	return value, err
}

// Read returns the stored value or a *database.ReadFault. Hand-edited values
// such as "5" or 5.0 are accepted; an object without "count" reads as 0. A
// negative or non-numeric count is reported as malformed.
func (s *CounterStore) Read(tx *database.Tx, name string) (int, error) {
	var rec map[string]any
	if err := tx.ReadJSON(name, &rec); err != nil {
		return 0, err
	}
	raw, ok := rec["count"]
	if !ok {
		return 0, nil
	}
	count, ok := utils.LooseInt(raw)
	if !ok {
		return 0, &database.ReadFault{
			Name: name,
			Kind: database.FaultMalformed,
			Err:  fmt.Errorf("count %v is not an integer", raw),
		}
	}
	if count < 0 {
		return 0, &database.ReadFault{
			Name: name,
			Kind: database.FaultMalformed,
			Err:  fmt.Errorf("negative count %d", count),
		}
	}
	return count, nil
}

// Load is Read with the counter default applied: any fault reads as 0.
func (s *CounterStore) Load(tx *database.Tx, name string) int {
	value, err := s.Read(tx, name)
	if err != nil {
		reportFault(s.logger, s.observer, err)
		return 0
	}
	return value
}

func (s *CounterStore) Save(tx *database.Tx, name string, value int) error {
	if value < 0 {
		return apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "counter %s cannot be set to %d", name, value)
	}
	if err := tx.WriteJSON(name, counterRecord{Count: value}); err != nil {
		return fmt.Errorf("saving counter %s: %w", name, err)
	}
	return nil
}

// Add increments the counter inside an open transaction.
func (s *CounterStore) Add(tx *database.Tx, name string) (int, error) {
	value := s.Load(tx, name) + 1
	if err := s.Save(tx, name, value); err != nil {
		return 0, err
	}
	return value, nil
}

// reportFault logs a read fault and counts it. Missing records are the normal
// cold-start state and only log at debug.
func reportFault(log *slog.Logger, observer Observer, err error) {
	fault, ok := database.AsReadFault(err)
	if !ok {
		log.Error("storage read failed", "error", err)
		observer.ReadFault("unknown")
		return
	}
	observer.ReadFault(fault.Kind.String())
	if fault.Kind == database.FaultMissing {
		log.Debug("record not found, using default", "name", fault.Name)
		return
	}
	log.Warn("record unreadable, using default",
		"name", fault.Name,
		"kind", fault.Kind.String(),
		"error", fault.Err,
	)
}
