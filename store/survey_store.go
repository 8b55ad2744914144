package store

import (
	"fmt"
	"strings"
	"time"

	"tractionlab/api/models"
	"tractionlab/api/utils"
)

// SurveyStore stores survey submissions.
type SurveyStore struct {
	responses *Collection[models.SurveyRecord]
	now       func() time.Time
	observer  Observer
}

func NewSurveyStore(responses *Collection[models.SurveyRecord], observer Observer) *SurveyStore {
	return &SurveyStore{
		responses: responses,
		now:       time.Now,
		observer:  observerOrNop(observer),
	}
}

// Submit trims the form fields, stamps the record with the current UTC time
// and appends it.
func (s *SurveyStore) Submit(form models.SurveyForm) (models.SurveyRecord, error) {
	record := models.SurveyRecord{
		Timestamp:       utils.FormatTimestamp(s.now()),
		Usefulness:      strings.TrimSpace(form.Usefulness),
		LLMUsage:        strings.TrimSpace(form.LLMUsage),
		MainProblem:     strings.TrimSpace(form.MainProblem),
		ReadyToPractice: strings.TrimSpace(form.ReadyToPractice),
		ProductInterest: strings.TrimSpace(form.ProductInterest),
		Email:           strings.TrimSpace(form.Email),
	}
	if err := s.responses.Append(record); err != nil {
		return models.SurveyRecord{}, fmt.Errorf("failed to store survey response: %w", err)
	}
	s.observer.SurveySubmitted()
	return record, nil
}
