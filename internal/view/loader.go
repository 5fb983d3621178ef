package view

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/strongcode/gymbook/internal/logger"
	"github.com/strongcode/gymbook/pkg/domain"
)

// ErrSuperseded is returned when a newer load started while this one was in
// flight. The container keeps the newer load's result.
var ErrSuperseded = errors.New("load superseded by a newer one")

// API is the subset of the client the loaders use.
type API interface {
	ListClasses(ctx context.Context) ([]domain.Class, error)
	ListGyms(ctx context.Context) ([]domain.Gym, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, classID int) (*domain.Booking, error)
}

// Loader fetches collections and renders them into a container.
type Loader struct {
	api API
	dst *Container
	log *zap.Logger
}

// NewLoader creates a Loader writing into dst. A nil logger discards output.
func NewLoader(api API, dst *Container, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{api: api, dst: dst, log: log}
}

// Container returns the pane this loader writes into.
func (l *Loader) Container() *Container {
	return l.dst
}

func (l *Loader) LoadClasses(ctx context.Context) error {
	return l.Load(ctx, SourceClasses)
}

func (l *Loader) LoadGyms(ctx context.Context) error {
	return l.Load(ctx, SourceGyms)
}

func (l *Loader) LoadBookings(ctx context.Context) error {
	return l.Load(ctx, SourceBookings)
}

// Load fetches src and replaces the container's contents with it. On error
// the container is left as it was.
func (l *Loader) Load(ctx context.Context, src Source) error {
	return l.LoadAt(ctx, l.dst.Begin(), src)
}

// LoadAt is Load for a generation the caller already began. Callers that
// trigger loads from an event loop begin synchronously so trigger order,
// not completion order, decides which load wins.
func (l *Loader) LoadAt(ctx context.Context, gen uint64, src Source) error {
	frags, err := l.fetch(ctx, src)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.log.Debug("load canceled", logger.Screen(string(src)), logger.Generation(gen))
		} else {
			l.log.Warn("load failed", logger.Screen(string(src)), logger.Generation(gen), zap.Error(err))
		}
		return fmt.Errorf("view.Load %s: %w", src, err)
	}
	if !l.dst.Commit(gen, src, frags) {
		l.log.Debug("discarding stale load", logger.Screen(string(src)), logger.Generation(gen))
		return ErrSuperseded
	}
	l.log.Debug("loaded", logger.Screen(string(src)), logger.Generation(gen), logger.Count(len(frags)))
	return nil
}

func (l *Loader) fetch(ctx context.Context, src Source) ([]Fragment, error) {
	switch src {
	case SourceClasses:
		classes, err := l.api.ListClasses(ctx)
		if err != nil {
			return nil, err
		}
		return ClassFragments(classes), nil
	case SourceGyms:
		gyms, err := l.api.ListGyms(ctx)
		if err != nil {
			return nil, err
		}
		return GymFragments(gyms), nil
	case SourceBookings:
		bookings, err := l.api.ListBookings(ctx)
		if err != nil {
			return nil, err
		}
		return BookingFragments(bookings), nil
	}
	return nil, fmt.Errorf("unknown source %q", src)
}

// BookClass books classID. The container is not refreshed afterwards.
func (l *Loader) BookClass(ctx context.Context, classID int) (*domain.Booking, error) {
	b, err := l.api.CreateBooking(ctx, classID)
	if err != nil {
		l.log.Warn("booking failed", logger.ClassID(classID), zap.Error(err))
		return nil, fmt.Errorf("view.BookClass: %w", err)
	}
	l.log.Info("booked", logger.ClassID(classID), zap.Int("booking_id", b.ID), zap.String("status", b.Status))
	return b, nil
}
