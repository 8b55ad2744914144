package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tractionlab/api/apperrors"
	"tractionlab/api/config"
	"tractionlab/api/models"
)

var fixedNow = time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)

func newTestLeadStore(t *testing.T) (*LeadStore, *CounterStore, *Collection[models.EarlyAccessRecord]) {
	t.Helper()
	fs := newTestFileStore(t)
	counters := NewCounterStore(fs, nil)
	leads := NewCollection[models.EarlyAccessRecord](fs, "early_access", nil)
	s := NewLeadStore(fs, counters, leads, config.Default(), nil)
	s.now = func() time.Time { return fixedNow }
	return s, counters, leads
}

func TestLeadStore_CreateLead_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.EarlyAccessRequest
		code string
	}{
		{"no at sign", models.EarlyAccessRequest{Email: "not-an-email", Consent: true}, apperrors.CodeInvalidEmail},
		{"blank email", models.EarlyAccessRequest{Email: "   ", Consent: true}, apperrors.CodeInvalidEmail},
		{"email checked before consent", models.EarlyAccessRequest{Email: "", Consent: false}, apperrors.CodeInvalidEmail},
		{"no consent", models.EarlyAccessRequest{Email: "a@b.com", Consent: false}, apperrors.CodeNoConsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, counters, leads := newTestLeadStore(t)

			_, err := s.CreateLead(tt.req, "ua")
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.Code(err))
			assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
			assert.Empty(t, leads.LoadAll())
			assert.Equal(t, 0, counters.Get("interest_counter"))
		})
	}
}

func TestLeadStore_CreateLead(t *testing.T) {
	s, counters, leads := newTestLeadStore(t)
	require.NoError(t, counters.Set("interest_counter", 4))

	total, err := s.CreateLead(models.EarlyAccessRequest{Email: "  a@b.com ", Consent: true}, "Mozilla/5.0")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = s.CreateLead(models.EarlyAccessRequest{Email: "c@d.com", Consent: true}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	got := leads.LoadAll()
	require.Len(t, got, 2)
	assert.Equal(t, models.EarlyAccessRecord{
		Timestamp: "2025-05-04T10:00:00.000000",
		Email:     "a@b.com",
		Consent:   true,
		Source:    "landing",
		UserAgent: "Mozilla/5.0",
	}, got[0])
	assert.Equal(t, 6, counters.Get("interest_counter"))
	assert.Equal(t, 2, s.Count())
}

func TestLeadStore_RecordInterest(t *testing.T) {
	s, counters, _ := newTestLeadStore(t)

	n, err := s.RecordInterest()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.RecordInterest()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, counters.Get("interest_counter"))
}

func TestSurveyStore_Submit(t *testing.T) {
	fs := newTestFileStore(t)
	responses := NewCollection[models.SurveyRecord](fs, "survey_results", nil)
	s := NewSurveyStore(responses, nil)
	s.now = func() time.Time { return fixedNow }

	rec, err := s.Submit(models.SurveyForm{
		Usefulness:      " 5 ",
		LLMUsage:        "daily",
		MainProblem:     "  prompts drift  ",
		ReadyToPractice: "yes",
		ProductInterest: "",
		Email:           "q@r.io",
	})
	require.NoError(t, err)

	want := models.SurveyRecord{
		Timestamp:       "2025-05-04T10:00:00.000000",
		Usefulness:      "5",
		LLMUsage:        "daily",
		MainProblem:     "prompts drift",
		ReadyToPractice: "yes",
		ProductInterest: "",
		Email:           "q@r.io",
	}
	assert.Equal(t, want, rec)
	assert.Equal(t, []models.SurveyRecord{want}, responses.LoadAll())
}
