// README: Handler tests over a real pricing engine and a fake order service.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguaschool/internal/http/handlers"
	"linguaschool/internal/modules/order"
	"linguaschool/internal/modules/pricing"
	"linguaschool/internal/orderapi"
)

type memRemote struct {
	mu     sync.Mutex
	orders map[int64]orderapi.Order
	keys   []string
}

func (m *memRemote) ListOrders(_ context.Context, key string) ([]orderapi.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	out := []orderapi.Order{}
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memRemote) GetOrder(_ context.Context, key string, id int64) (*orderapi.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	o, ok := m.orders[id]
	if !ok {
		return nil, &orderapi.APIError{Status: http.StatusNotFound, Message: "not found"}
	}
	return &o, nil
}

func (m *memRemote) CreateOrder(_ context.Context, key string, o orderapi.Order) (*orderapi.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	o.ID = int64(len(m.orders) + 1)
	m.orders[o.ID] = o
	return &o, nil
}

func (m *memRemote) UpdateOrder(_ context.Context, key string, id int64, o orderapi.Order) (*orderapi.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	if _, ok := m.orders[id]; !ok {
		return nil, &orderapi.APIError{Status: http.StatusNotFound, Message: "not found"}
	}
	o.ID = id
	m.orders[id] = o
	return &o, nil
}

func (m *memRemote) DeleteOrder(_ context.Context, key string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	if _, ok := m.orders[id]; !ok {
		return &orderapi.APIError{Status: http.StatusNotFound, Message: "not found"}
	}
	delete(m.orders, id)
	return nil
}

// buildTestRouter wires the handlers with "today" fixed at 2026-10-19.
func buildTestRouter(t *testing.T) (*gin.Engine, *memRemote) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	now := func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	pricingSvc := pricing.NewService(nil, nil, pricing.NewCalendar(now, time.UTC), nil)
	remote := &memRemote{orders: map[int64]orderapi.Order{}}
	orderSvc := order.NewService(pricingSvc, remote, nil)

	r := gin.New()
	qh := handlers.NewQuoteHandler(pricingSvc)
	r.POST("/api/quotes", qh.Create)
	r.GET("/api/calendar/:date", qh.Calendar)
	oh := handlers.NewOrderHandler(orderSvc)
	r.GET("/api/orders", oh.List)
	r.POST("/api/orders", oh.Create)
	r.GET("/api/orders/:id", oh.Get)
	r.PUT("/api/orders/:id", oh.Update)
	r.DELETE("/api/orders/:id", oh.Delete)
	r.GET("/api/orders/:id/quotes", oh.Quotes)
	return r, remote
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type quoteBody struct {
	Price       int64               `json:"price"`
	Currency    string              `json:"currency"`
	Breakdown   []string            `json:"breakdown"`
	Options     string              `json:"options"`
	Eligibility pricing.Eligibility `json:"eligibility"`
}

func TestQuote_CourseForm(t *testing.T) {
	r, _ := buildTestRouter(t)
	// Numbers arrive as strings or numbers depending on the form widget.
	w := doRequest(r, http.MethodPost, "/api/quotes", `{
		"kind": "course",
		"date": "2026-11-21",
		"time": "18:00",
		"persons": "6",
		"fee": 250,
		"week_length": "5",
		"total_length": 8,
		"interactive": true
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got quoteBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "RUB", got.Currency)
	assert.Equal(t, pricing.Eligibility{EarlyRegistration: true, GroupEnrollment: true, IntensiveCourse: true}, got.Eligibility)
	assert.Equal(t, "earlyRegistration,groupEnrollment,intensiveCourse,interactive", got.Options)
	// 250×8=2000, weekend 3000, evening 4000, ×6 24000, early -10% 21600, interactive ×1.5.
	assert.Equal(t, int64(32400), got.Price)
	assert.Equal(t, "Базовая: 250 × 8 ч = 2000 ₽", got.Breakdown[0])
}

func TestQuote_EmptyFormUsesDefaults(t *testing.T) {
	r, _ := buildTestRouter(t)
	w := doRequest(r, http.MethodPost, "/api/quotes", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got quoteBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	// Fee 100 for one week at noon.
	assert.Equal(t, int64(100), got.Price)
	assert.Equal(t, []string{"Базовая: 100 × 1 ч = 100 ₽"}, got.Breakdown)
}

func TestQuote_BadInput(t *testing.T) {
	r, _ := buildTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/api/quotes", `{"fee":`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodPost, "/api/quotes", `{"kind":"webinar"}`).Code)
}

func TestCalendar(t *testing.T) {
	r, _ := buildTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/calendar/2026-11-04", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2026-11-04","weekend_or_holiday":true,"early_registration":false,"days_until":16}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/api/calendar/2026-11-18", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2026-11-18","weekend_or_holiday":false,"early_registration":true,"days_until":30}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, doRequest(r, http.MethodGet, "/api/calendar/tomorrow", nil).Code)
}

func TestOrderLifecycle(t *testing.T) {
	r, remote := buildTestRouter(t)
	form := map[string]any{
		"course_id":    7,
		"date":         "2026-10-21",
		"time":         "10:00",
		"persons":      1,
		"fee":          200,
		"week_length":  2,
		"total_length": 8,
	}

	w := doRequest(r, http.MethodPost, "/api/orders?api_key=k-1", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Order struct {
			ID    int64 `json:"id"`
			Price int64 `json:"price"`
		} `json:"order"`
		Quote pricing.Quote `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, int64(1), placed.Order.ID)
	assert.Equal(t, int64(2000), placed.Order.Price)
	assert.Equal(t, int64(2000), placed.Quote.FinalPrice)

	w = doRequest(r, http.MethodGet, "/api/orders/1?api_key=k-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	form["excursions"] = true
	w = doRequest(r, http.MethodPut, "/api/orders/1?api_key=k-1", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(2500), remote.orders[1].Price)

	w = doRequest(r, http.MethodGet, "/api/orders?api_key=k-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	// No quote store is configured in this router.
	w = doRequest(r, http.MethodGet, "/api/orders/1/quotes?api_key=k-1", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/orders/1?api_key=k-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodGet, "/api/orders/1?api_key=k-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, k := range remote.keys {
		assert.Equal(t, "k-1", k)
	}
}

func TestOrderErrors(t *testing.T) {
	r, _ := buildTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing api key", http.MethodGet, "/api/orders", nil, http.StatusUnauthorized},
		{"bad id", http.MethodGet, "/api/orders/abc?api_key=k", nil, http.StatusBadRequest},
		{"zero id", http.MethodDelete, "/api/orders/0?api_key=k", nil, http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/api/orders?api_key=k", `{`, http.StatusBadRequest},
		{"no course or tutor", http.MethodPost, "/api/orders?api_key=k", map[string]any{"date": "2026-10-21", "time": "10:00", "persons": 1}, http.StatusBadRequest},
		{"missing date", http.MethodPost, "/api/orders?api_key=k", map[string]any{"course_id": 1, "time": "10:00", "persons": 1}, http.StatusBadRequest},
		{"tutor without hours", http.MethodPost, "/api/orders?api_key=k", map[string]any{"tutor_id": 1, "date": "2026-10-21", "time": "1000", "persons": 1}, http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/api/orders/9?api_key=k", map[string]any{"course_id": 1, "date": "2026-10-21", "time": "10:00", "persons": 1}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}
