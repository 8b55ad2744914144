package store

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tractionlab/api/apperrors"
	"tractionlab/api/config"
	"tractionlab/api/database"
	"tractionlab/api/logger"
	"tractionlab/api/utils"
)

// CookieReader is the read side of a request's cookie jar. *gin.Context
// satisfies it.
type CookieReader interface {
	Cookie(name string) (string, error)
}

// VisitorCookie is an identity cookie the response must set.
type VisitorCookie struct {
	Name   string
	Value  string
	MaxAge time.Duration
}

// Visit is the outcome of registering one page request.
type Visit struct {
	Page       string
	TotalViews int
	Clicks     int
	NewVisitor bool
	Cookie     *VisitorCookie
}

// VisitRegistrar counts page views. Uniqueness is tracked per page: a
// browser is counted once per page, via a cookie named <prefix><page>.
type VisitRegistrar struct {
	fs       *database.FileStore
	counters *CounterStore
	pages    map[string]struct{}
	storage  config.StorageConfig
	tracking config.TrackingConfig
	newToken func() string
	observer Observer
	logger   *slog.Logger
}

func NewVisitRegistrar(fs *database.FileStore, counters *CounterStore, cfg *config.Config, observer Observer) *VisitRegistrar {
	pages := make(map[string]struct{}, len(cfg.Tracking.Pages))
	for _, p := range cfg.Tracking.Pages {
		pages[p] = struct{}{}
	}
	return &VisitRegistrar{
		fs:       fs,
		counters: counters,
		pages:    pages,
		storage:  cfg.Storage,
		tracking: cfg.Tracking,
		newToken: utils.NewVisitorToken,
		observer: observerOrNop(observer),
		logger:   logger.WithComponent("visit-registrar"),
	}
}

// CookieName returns the identity cookie that marks page as seen.
func (r *VisitRegistrar) CookieName(page string) string {
	return r.tracking.CookiePrefix + page
}

// Register counts a view of page. The total-views increment, the click
// counter read and the conditional unique-views increment run in a single
// critical section.
func (r *VisitRegistrar) Register(page string, cookies CookieReader) (Visit, error) {
	if _, ok := r.pages[page]; !ok {
		return Visit{}, apperrors.Newf(apperrors.ErrUnknownPage, http.StatusNotFound, "page %q is not tracked", page)
	}

	cookieName := r.CookieName(page)
	_, err := cookies.Cookie(cookieName)
	seen := err == nil

	visit := Visit{Page: page}
	err = r.fs.Update(func(tx *database.Tx) error {
		total, err := r.counters.Add(tx, r.storage.ViewsCounter(page))
		if err != nil {
			return err
		}
		visit.TotalViews = total
		visit.Clicks = r.counters.Load(tx, r.storage.ClicksCounter)

		if !seen {
			if _, err := r.counters.Add(tx, r.storage.UniqueViewsCounter(page)); err != nil {
				return err
			}
			visit.NewVisitor = true
		}
		return nil
	})
	if err != nil {
		return Visit{}, fmt.Errorf("registering visit to %s: %w", page, err)
	}

	if visit.NewVisitor {
		visit.Cookie = &VisitorCookie{
			Name:   cookieName,
			Value:  r.newToken(),
			MaxAge: r.tracking.CookieMaxAge,
		}
	}
	r.observer.PageViewed(page, visit.NewVisitor)
	r.logger.Debug("visit registered",
		"page", page,
		"total_views", visit.TotalViews,
		"new_visitor", visit.NewVisitor,
	)
	return visit, nil
}
