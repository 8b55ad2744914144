package store

import (
	"tractionlab/api/config"
	"tractionlab/api/database"
	"tractionlab/api/models"
)

// Stores bundles every store built on one FileStore.
type Stores struct {
	Counters  *CounterStore
	Responses *Collection[models.SurveyRecord]
	Leads     *Collection[models.EarlyAccessRecord]
	Registrar *VisitRegistrar
	LeadStore *LeadStore
	Surveys   *SurveyStore
	Analytics *AnalyticsStore
}

func New(fs *database.FileStore, cfg *config.Config, observer Observer) *Stores {
	counters := NewCounterStore(fs, observer)
	responses := NewCollection[models.SurveyRecord](fs, cfg.Storage.SurveyCollection, observer)
	leads := NewCollection[models.EarlyAccessRecord](fs, cfg.Storage.LeadsCollection, observer)

	return &Stores{
		Counters:  counters,
		Responses: responses,
		Leads:     leads,
		Registrar: NewVisitRegistrar(fs, counters, cfg, observer),
		LeadStore: NewLeadStore(fs, counters, leads, cfg, observer),
		Surveys:   NewSurveyStore(responses, observer),
		Analytics: NewAnalyticsStore(fs, counters, responses, leads, cfg),
	}
}
