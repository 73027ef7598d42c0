// README: Quote and calendar handlers for the booking form.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"linguaschool/internal/modules/pricing"
)

type QuoteHandler struct {
	pricing *pricing.Service
}

func NewQuoteHandler(svc *pricing.Service) *QuoteHandler {
	return &QuoteHandler{pricing: svc}
}

type quoteResp struct {
	Price            int64               `json:"price"`
	Currency         string              `json:"currency"`
	Breakdown        []string            `json:"breakdown"`
	Options          pricing.Options     `json:"options"`
	Eligibility      pricing.Eligibility `json:"eligibility"`
	WeekendOrHoliday bool                `json:"weekend_or_holiday"`
	StartTime        string              `json:"start_time"`
	DurationHours    float64             `json:"duration_hours"`
	StudentCount     int                 `json:"student_count"`
}

// Create prices a booking form. Missing or malformed numbers fall back to
// their defaults, so any well-formed JSON body gets a quote.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req draftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !validKind(req.Kind) {
		writeError(c, http.StatusBadRequest, "kind must be course or tutor")
		return
	}
	p, q := h.pricing.QuoteDraft(c.Request.Context(), req.draft())
	m := q.Money()
	writeJSON(c, http.StatusOK, quoteResp{
		Price:            m.Amount,
		Currency:         m.Currency,
		Breakdown:        q.Breakdown,
		Options:          p.Request.Options,
		Eligibility:      p.Eligibility,
		WeekendOrHoliday: p.Request.IsWeekendOrHoliday,
		StartTime:        p.Request.StartTime,
		DurationHours:    p.Request.DurationHours,
		StudentCount:     p.Request.StudentCount,
	})
}

type calendarResp struct {
	Date              string `json:"date"`
	WeekendOrHoliday  bool   `json:"weekend_or_holiday"`
	EarlyRegistration bool   `json:"early_registration"`
	DaysUntil         int    `json:"days_until"`
}

// Calendar reports the calendar rules for one start date.
func (h *QuoteHandler) Calendar(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("date"))
	d, err := pricing.ParseDate(raw)
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	cal := h.pricing.Calendar()
	writeJSON(c, http.StatusOK, calendarResp{
		Date:              d.Format(pricing.DateLayout),
		WeekendOrHoliday:  pricing.IsWeekendOrHoliday(d),
		EarlyRegistration: cal.CheckEarlyRegistration(d),
		DaysUntil:         cal.DaysUntil(d),
	})
}
