package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"tractionlab/api/apperrors"
	"tractionlab/api/logger"
	"tractionlab/api/models"
	"tractionlab/api/store"
	"tractionlab/api/utils"
)

// Tracked page identifiers served by PageHandlers.
const (
	PageMain   = "main"
	PageGuide  = "guide"
	PageSurvey = "survey"
)

type PageHandlers struct {
	Registrar *store.VisitRegistrar
	LeadStore *store.LeadStore
	Surveys   *store.SurveyStore
	logger    *slog.Logger
}

func NewPageHandlers(registrar *store.VisitRegistrar, leads *store.LeadStore, surveys *store.SurveyStore) *PageHandlers {
	return &PageHandlers{
		Registrar: registrar,
		LeadStore: leads,
		Surveys:   surveys,
		logger:    logger.WithComponent("page-handlers"),
	}
}

// Index renders the landing page with the number of early-access leads.
func (h *PageHandlers) Index(c *gin.Context) {
	if _, ok := h.registerVisit(c, PageMain); !ok {
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"count": h.LeadStore.Count()})
}

// Guide renders the long-read guide with the interest counter.
func (h *PageHandlers) Guide(c *gin.Context) {
	visit, ok := h.registerVisit(c, PageGuide)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "prompt_guide.html", gin.H{"count": visit.Clicks})
}

// Survey renders the survey form and stores a response on POST.
func (h *PageHandlers) Survey(c *gin.Context) {
	visit, ok := h.registerVisit(c, PageSurvey)
	if !ok {
		return
	}

	submitted := false
	if c.Request.Method == http.MethodPost {
		var form models.SurveyForm
		if err := c.ShouldBind(&form); err != nil {
			h.logger.Warn("survey form could not be parsed", "error", err)
			c.HTML(http.StatusBadRequest, "survey.html", gin.H{"submitted": false, "count": visit.Clicks})
			return
		}
		if _, err := h.Surveys.Submit(form); err != nil {
			h.logger.Error("failed to store survey response", "error", err)
			c.String(http.StatusInternalServerError, "Failed to save your answers")
			return
		}
		submitted = true
	}

	c.HTML(http.StatusOK, "survey.html", gin.H{"submitted": submitted, "count": visit.Clicks})
}

// registerVisit counts the view and sets the identity cookie for first-time
// visitors. It writes the error response itself when it returns false.
func (h *PageHandlers) registerVisit(c *gin.Context, page string) (store.Visit, bool) {
	visit, err := h.Registrar.Register(page, c)
	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("failed to register visit", "page", page, "error", err)
		}
		c.String(status, http.StatusText(status))
		return store.Visit{}, false
	}

	if visit.Cookie != nil {
		utils.SetVisitorCookie(c, visit.Cookie.Name, visit.Cookie.Value, visit.Cookie.MaxAge)
	}
	return visit, true
}
