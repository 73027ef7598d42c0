// README: Pricing service wraps the pure engine with sanitization, caching, and quote history.
package pricing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"linguaschool/internal/types"
)

var ErrNoStore = errors.New("quote store not configured")

type Service struct {
	store    *Store
	cache    *Cache
	calendar Calendar
	log      *zap.Logger
}

// NewService wires the service. store and cache may be nil; quoting still
// works without them.
func NewService(store *Store, cache *Cache, calendar Calendar, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, cache: cache, calendar: calendar, log: log}
}

func (s *Service) Calendar() Calendar {
	return s.calendar
}

func (s *Service) Prepare(d Draft) Prepared {
	return Prepare(d, s.calendar)
}

// Quote prices req. The cache only saves work: any cache error falls back
// to the engine.
func (s *Service) Quote(ctx context.Context, req BookingRequest) Quote {
	if s.cache != nil {
		q, ok, err := s.cache.Get(ctx, req)
		if err != nil {
			s.log.Warn("quote cache read failed", zap.Error(err))
		}
		if ok {
			return q
		}
	}

	q := Compute(req)

	if s.cache != nil {
		if err := s.cache.Set(ctx, req, q); err != nil {
			s.log.Warn("quote cache write failed", zap.Error(err))
		}
	}
	return q
}

// QuoteDraft sanitizes and prices a raw form in one step.
func (s *Service) QuoteDraft(ctx context.Context, d Draft) (Prepared, Quote) {
	p := s.Prepare(d)
	return p, s.Quote(ctx, p.Request)
}

// Record persists the quote an order was submitted with.
func (s *Service) Record(ctx context.Context, orderID types.ID, req BookingRequest, q Quote) error {
	if s.store == nil {
		return ErrNoStore
	}
	snap := &Snapshot{
		OrderID:   orderID,
		Request:   req,
		Quote:     q,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return err
	}
	s.log.Debug("quote recorded",
		zap.Int64("order_id", int64(orderID)),
		zap.Int64("price", q.FinalPrice),
		zap.String("options", req.Options.String()),
	)
	return nil
}

func (s *Service) History(ctx context.Context, orderID types.ID) ([]Snapshot, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.ListByOrder(ctx, orderID)
}
