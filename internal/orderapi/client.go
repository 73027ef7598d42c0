// README: HTTP/JSON client for the remote order service, guarded by a circuit breaker.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// APIError is a non-2xx answer, or a 2xx answer carrying an "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order api: %d %s", e.Status, e.Message)
}

// Order is the remote order record. Exactly one of CourseID and TutorID is
// sent; the other is omitted rather than sent as 0.
type Order struct {
	ID                int64  `json:"id,omitempty"`
	CourseID          int64  `json:"course_id,omitempty"`
	TutorID           int64  `json:"tutor_id,omitempty"`
	DateStart         string `json:"date_start"`
	TimeStart         string `json:"time_start"`
	Duration          int    `json:"duration"`
	Persons           int    `json:"persons"`
	Price             int64  `json:"price"`
	EarlyRegistration bool   `json:"early_registration"`
	GroupEnrollment   bool   `json:"group_enrollment"`
	IntensiveCourse   bool   `json:"intensive_course"`
	Supplementary     bool   `json:"supplementary"`
	Personalized      bool   `json:"personalized"`
	Excursions        bool   `json:"excursions"`
	Assessment        bool   `json:"assessment"`
	Interactive       bool   `json:"interactive"`
	StudentID         int64  `json:"student_id,omitempty"`
}

// Client talks to the remote course/order service. The API key is forwarded
// as the api_key query parameter on every call.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     *zap.Logger
}

// NewClient creates a Client. After five consecutive transport or 5xx
// failures the breaker opens for openFor.
func NewClient(baseURL string, timeout, openFor time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "order-api",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

func (c *Client) ListOrders(ctx context.Context, apiKey string) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, http.MethodGet, "/orders", apiKey, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, apiKey string, id int64) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), apiKey, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, apiKey string, o Order) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/orders", apiKey, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, apiKey string, id int64, o Order) (*Order, error) {
	o.ID = 0
	var out Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), apiKey, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOrder(ctx context.Context, apiKey string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), apiKey, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = b
	}
	endpoint := c.baseURL + path + "?api_key=" + url.QueryEscape(apiKey)

	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, endpoint, payload)
	})
	if err != nil {
		c.log.Debug("order api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Error string `json:"error"`
	}
	// Arrays and empty bodies cannot carry an error field.
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		_ = json.Unmarshal(trimmed, &envelope)
	}

	if resp.StatusCode >= 300 {
		msg := envelope.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if envelope.Error != "" {
		return nil, &APIError{Status: http.StatusBadRequest, Message: envelope.Error}
	}
	return data, nil
}
