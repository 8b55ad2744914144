package store

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tractionlab/api/apperrors"
	"tractionlab/api/config"
	"tractionlab/api/database"
	"tractionlab/api/logger"
	"tractionlab/api/models"
	"tractionlab/api/utils"
)

// LeadStore captures early-access sign-ups and owns the shared interest
// counter that both the interest button and sign-ups bump.
type LeadStore struct {
	fs            *database.FileStore
	counters      *CounterStore
	leads         *Collection[models.EarlyAccessRecord]
	clicksCounter string
	source        string
	now           func() time.Time
	observer      Observer
	logger        *slog.Logger
}

// NewLeadStore creates a new LeadStore instance.
func NewLeadStore(fs *database.FileStore, counters *CounterStore, leads *Collection[models.EarlyAccessRecord], cfg *config.Config, observer Observer) *LeadStore {
	return &LeadStore{
		fs:            fs,
		counters:      counters,
		leads:         leads,
		clicksCounter: cfg.Storage.ClicksCounter,
		source:        cfg.EarlyAccess.Source,
		now:           time.Now,
		observer:      observerOrNop(observer),
		logger:        logger.WithComponent("lead-store"),
	}
}

// CreateLead validates req, appends the lead and bumps the interest counter.
// It returns the number of leads after the append.
func (s *LeadStore) CreateLead(req models.EarlyAccessRequest, userAgent string) (int, error) {
	email := strings.TrimSpace(req.Email)
	if !utils.IsValidEmail(email) {
		return 0, apperrors.New(apperrors.ErrInvalidEmail, http.StatusBadRequest, "email must contain @")
	}
	if !req.Consent {
		return 0, apperrors.New(apperrors.ErrNoConsent, http.StatusBadRequest, "consent is required")
	}

	record := models.EarlyAccessRecord{
		Timestamp: utils.FormatTimestamp(s.now()),
		Email:     email,
		Consent:   true,
		Source:    s.source,
		UserAgent: userAgent,
	}

	var total int
	err := s.fs.Update(func(tx *database.Tx) error {
		var err error
		total, err = s.leads.AppendTx(tx, record)
		if err != nil {
			return err
		}
		_, err = s.counters.Add(tx, s.clicksCounter)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create lead: %w", err)
	}

	s.observer.LeadCaptured()
	s.observer.InterestClicked()
	s.logger.Info("lead captured", "source", s.source, "total", total)
	return total, nil
}

// RecordInterest increments the shared interest counter.
func (s *LeadStore) RecordInterest() (int, error) {
	count, err := s.counters.Increment(s.clicksCounter)
	if err != nil {
		return 0, fmt.Errorf("failed to record interest: %w", err)
	}
	s.observer.InterestClicked()
	return count, nil
}

// Count returns the number of stored leads.
func (s *LeadStore) Count() int {
	var n int
	_ = s.fs.Update(func(tx *database.Tx) error {
		n = s.leads.CountTx(tx)
		return nil
	})
	return n
}
