// README: Order service prices bookings and forwards them to the remote order service.
package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"linguaschool/internal/modules/pricing"
	"linguaschool/internal/orderapi"
	"linguaschool/internal/types"
)

type Pricing interface {
	Prepare(d pricing.Draft) pricing.Prepared
	Quote(ctx context.Context, req pricing.BookingRequest) pricing.Quote
	Record(ctx context.Context, orderID types.ID, req pricing.BookingRequest, q pricing.Quote) error
	History(ctx context.Context, orderID types.ID) ([]pricing.Snapshot, error)
}

// Remote is the subset of orderapi.Client the service needs.
type Remote interface {
	ListOrders(ctx context.Context, apiKey string) ([]orderapi.Order, error)
	GetOrder(ctx context.Context, apiKey string, id int64) (*orderapi.Order, error)
	CreateOrder(ctx context.Context, apiKey string, o orderapi.Order) (*orderapi.Order, error)
	UpdateOrder(ctx context.Context, apiKey string, id int64, o orderapi.Order) (*orderapi.Order, error)
	DeleteOrder(ctx context.Context, apiKey string, id int64) error
}

type Service struct {
	pricing Pricing
	remote  Remote
	log     *zap.Logger
}

func NewService(pricing Pricing, remote Remote, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{pricing: pricing, remote: remote, log: log}
}

var (
	ErrBadRequest  = errors.New("bad request")
	ErrMissingKey  = errors.New("api key required")
	ErrNotFound    = errors.New("order not found")
	ErrRejected    = errors.New("order rejected by order service")
	ErrUnavailable = errors.New("order service unavailable")
)

type SubmitCommand struct {
	APIKey   string
	CourseID types.ID
	TutorID  types.ID
	Draft    pricing.Draft
}

type UpdateCommand struct {
	APIKey   string
	OrderID  types.ID
	CourseID types.ID
	TutorID  types.ID
	Draft    pricing.Draft
}

// Submit validates and prices the draft, then creates the remote order.
// The price sent is always the server-side quote.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*Placed, error) {
	if cmd.APIKey == "" {
		return nil, ErrMissingKey
	}
	o, p, q, err := s.price(ctx, cmd.CourseID, cmd.TutorID, cmd.Draft)
	if err != nil {
		return nil, err
	}

	created, err := s.remote.CreateOrder(ctx, cmd.APIKey, toRemote(o))
	if err != nil {
		return nil, s.remoteErr("create", err)
	}
	placed := &Placed{Order: fromRemote(*created), Quote: q, Eligibility: p.Eligibility}
	s.record(ctx, placed.Order.ID, p.Request, q)

	s.log.Info("order submitted",
		zap.Int64("order_id", int64(placed.Order.ID)),
		zap.String("kind", string(o.Kind())),
		zap.Int64("price", q.FinalPrice),
	)
	return placed, nil
}

// Update reprices the draft and replaces the remote order.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Placed, error) {
	if cmd.APIKey == "" {
		return nil, ErrMissingKey
	}
	if cmd.OrderID <= 0 {
		return nil, ErrBadRequest
	}
	o, p, q, err := s.price(ctx, cmd.CourseID, cmd.TutorID, cmd.Draft)
	if err != nil {
		return nil, err
	}

	updated, err := s.remote.UpdateOrder(ctx, cmd.APIKey, int64(cmd.OrderID), toRemote(o))
	if err != nil {
		return nil, s.remoteErr("update", err)
	}
	// An empty answer still means success; report what was sent.
	sent := o
	if updated != nil && *updated != (orderapi.Order{}) {
		sent = fromRemote(*updated)
	}
	placed := &Placed{Order: sent, Quote: q, Eligibility: p.Eligibility}
	if placed.Order.ID == 0 {
		placed.Order.ID = cmd.OrderID
	}
	s.record(ctx, placed.Order.ID, p.Request, q)
	return placed, nil
}

func (s *Service) Get(ctx context.Context, apiKey string, id types.ID) (*Order, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	r, err := s.remote.GetOrder(ctx, apiKey, int64(id))
	if err != nil {
		return nil, s.remoteErr("get", err)
	}
	o := fromRemote(*r)
	return &o, nil
}

func (s *Service) List(ctx context.Context, apiKey string) ([]Order, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	rs, err := s.remote.ListOrders(ctx, apiKey)
	if err != nil {
		return nil, s.remoteErr("list", err)
	}
	out := make([]Order, 0, len(rs))
	for _, r := range rs {
		out = append(out, fromRemote(r))
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, apiKey string, id types.ID) error {
	if apiKey == "" {
		return ErrMissingKey
	}
	if err := s.remote.DeleteOrder(ctx, apiKey, int64(id)); err != nil {
		return s.remoteErr("delete", err)
	}
	return nil
}

// Quotes lists the quotes recorded for an order the caller can see.
func (s *Service) Quotes(ctx context.Context, apiKey string, id types.ID) ([]pricing.Snapshot, error) {
	if _, err := s.Get(ctx, apiKey, id); err != nil {
		return nil, err
	}
	return s.pricing.History(ctx, id)
}

func (s *Service) price(ctx context.Context, courseID, tutorID types.ID, d pricing.Draft) (Order, pricing.Prepared, pricing.Quote, error) {
	if (courseID > 0) == (tutorID > 0) {
		return Order{}, pricing.Prepared{}, pricing.Quote{}, fmt.Errorf("%w: exactly one of course_id and tutor_id is required", ErrBadRequest)
	}
	d.Kind = pricing.KindCourse
	if tutorID > 0 {
		d.Kind = pricing.KindTutor
	}
	if err := d.Validate(); err != nil {
		return Order{}, pricing.Prepared{}, pricing.Quote{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	p := s.pricing.Prepare(d)
	q := s.pricing.Quote(ctx, p.Request)
	o := Order{
		CourseID:  courseID,
		TutorID:   tutorID,
		DateStart: strings.TrimSpace(d.Date),
		TimeStart: p.Request.StartTime,
		Duration:  int(p.Request.DurationHours),
		Persons:   p.Request.StudentCount,
		Price:     q.FinalPrice,
		Options:   p.Request.Options,
	}
	return o, p, q, nil
}

// record keeps quote history best effort; the remote order already exists.
func (s *Service) record(ctx context.Context, id types.ID, req pricing.BookingRequest, q pricing.Quote) {
	if id <= 0 {
		return
	}
	if err := s.pricing.Record(ctx, id, req, q); err != nil && !errors.Is(err, pricing.ErrNoStore) {
		s.log.Warn("quote snapshot not recorded", zap.Int64("order_id", int64(id)), zap.Error(err))
	}
}

func (s *Service) remoteErr(op string, err error) error {
	var apiErr *orderapi.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		return ErrNotFound
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrRejected, apiErr.Message)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ErrUnavailable
	}
	s.log.Error("order service call failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s order: %w", op, err)
}
