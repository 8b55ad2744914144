package store

import (
	"math"
	"sort"
	"strings"
	"time"

	"tractionlab/api/config"
	"tractionlab/api/database"
	"tractionlab/api/models"
	"tractionlab/api/utils"
)

// AnalyticsStore is the read-only reporting side: view counters, survey
// statistics and the most recent submissions.
type AnalyticsStore struct {
	fs        *database.FileStore
	counters  *CounterStore
	responses *Collection[models.SurveyRecord]
	leads     *Collection[models.EarlyAccessRecord]
	pages     []string
	storage   config.StorageConfig
	admin     config.AdminConfig
}

func NewAnalyticsStore(
	fs *database.FileStore,
	counters *CounterStore,
	responses *Collection[models.SurveyRecord],
	leads *Collection[models.EarlyAccessRecord],
	cfg *config.Config,
) *AnalyticsStore {
	return &AnalyticsStore{
		fs:        fs,
		counters:  counters,
		responses: responses,
		leads:     leads,
		pages:     cfg.Tracking.Pages,
		storage:   cfg.Storage,
		admin:     cfg.Admin,
	}
}

// GetMetrics reads every page's view counters and the click counter in one
// critical section.
func (s *AnalyticsStore) GetMetrics() (models.MetricsSnapshot, error) {
	var snap models.MetricsSnapshot
	err := s.fs.Update(func(tx *database.Tx) error {
		snap = s.metricsTx(tx)
		return nil
	})
	return snap, err
}

// GetReport composes the admin report. Nothing is written.
func (s *AnalyticsStore) GetReport() (models.AdminReport, error) {
	var (
		snap       models.MetricsSnapshot
		responses  []models.SurveyRecord
		leads      []models.EarlyAccessRecord
		leadsTotal int
	)
	err := s.fs.Update(func(tx *database.Tx) error {
		snap = s.metricsTx(tx)
		responses = s.responses.LoadTx(tx)
		leads = s.leads.LoadTx(tx)
		leadsTotal = s.leads.CountTx(tx)
		return nil
	})
	if err != nil {
		return models.AdminReport{}, err
	}

	return models.AdminReport{
		Metrics:          snap,
		SurveyStats:      BuildSurveyStats(responses),
		LastResponses:    RecentSurveyResponses(responses, s.admin.RecentResponses),
		EarlyAccessTotal: leadsTotal,
		EarlyAccessLast:  RecentLeads(leads, s.admin.RecentLeads),
	}, nil
}

func (s *AnalyticsStore) metricsTx(tx *database.Tx) models.MetricsSnapshot {
	snap := models.MetricsSnapshot{
		Pages: make([]models.PageMetricsEntry, 0, len(s.pages)),
	}
	for _, page := range s.pages {
		snap.Pages = append(snap.Pages, models.PageMetricsEntry{
			Page: page,
			PageMetrics: models.PageMetrics{
				ViewsTotal:  s.counters.Load(tx, s.storage.ViewsCounter(page)),
				ViewsUnique: s.counters.Load(tx, s.storage.UniqueViewsCounter(page)),
			},
		})
	}
	snap.Clicks = s.counters.Load(tx, s.storage.ClicksCounter)
	return snap
}

// BuildSurveyStats computes the per-field distributions over rows. Blank
// values are counted under "none".
func BuildSurveyStats(rows []models.SurveyRecord) models.SurveyStats {
	stats := models.SurveyStats{
		Total:           len(rows),
		Usefulness:      []models.ValueShare{},
		LLMUsage:        []models.ValueShare{},
		ReadyToPractice: []models.ValueShare{},
		ProductInterest: []models.ValueShare{},
	}
	if stats.Total == 0 {
		return stats
	}

	usefulness := newFrequency()
	llmUsage := newFrequency()
	ready := newFrequency()
	interest := newFrequency()
	for _, row := range rows {
		usefulness.add(row.Usefulness)
		llmUsage.add(row.LLMUsage)
		ready.add(row.ReadyToPractice)
		interest.add(row.ProductInterest)
	}

	stats.Usefulness = usefulness.shares(stats.Total)
	stats.LLMUsage = llmUsage.shares(stats.Total)
	stats.ReadyToPractice = ready.shares(stats.Total)
	stats.ProductInterest = interest.shares(stats.Total)
	return stats
}

// frequency counts values and remembers first-encounter order for ties.
type frequency struct {
	order  []string
	counts map[string]int
}

func newFrequency() *frequency {
	return &frequency{counts: make(map[string]int)}
}

func (f *frequency) add(value string) {
	key := strings.TrimSpace(value)
	if key == "" {
		key = "none"
	}
	if _, ok := f.counts[key]; !ok {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

func (f *frequency) shares(total int) []models.ValueShare {
	result := make([]models.ValueShare, 0, len(f.order))
	for _, key := range f.order {
		count := f.counts[key]
		result = append(result, models.ValueShare{
			Value:   key,
			Count:   count,
			Percent: math.RoundToEven(float64(count)*1000/float64(total)) / 10,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// RecentSurveyResponses returns up to limit responses, newest first.
// Unparsable timestamps sort last.
func RecentSurveyResponses(rows []models.SurveyRecord, limit int) []models.SurveyRecord {
	return newestFirst(rows, limit, func(r models.SurveyRecord) string { return r.Timestamp })
}

// RecentLeads returns up to limit leads, newest first. Unparsable timestamps
// sort last.
func RecentLeads(rows []models.EarlyAccessRecord, limit int) []models.EarlyAccessRecord {
	return newestFirst(rows, limit, func(r models.EarlyAccessRecord) string { return r.Timestamp })
}

func newestFirst[T any](rows []T, limit int, timestamp func(T) string) []T {
	type keyed struct {
		at  time.Time
		row T
	}
	sorted := make([]keyed, len(rows))
	for i, row := range rows {
		// Zero time is the minimum, so unparsable rows end up last.
		at, _ := utils.ParseTimestamp(timestamp(row))
		sorted[i] = keyed{at: at, row: row}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.After(sorted[j].at)
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]T, len(sorted))
	for i, k := range sorted {
		out[i] = k.row
	}
	return out
}
