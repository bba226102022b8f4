package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"eventreg/internal/admin/models"
	regmodels "eventreg/internal/registration/models"
	"eventreg/internal/registration/store"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

// Store is the read and delete surface of the record store.
type Store interface {
	List(ctx context.Context) ([]*regmodels.Registration, error)
	FindByID(ctx context.Context, id uuid.UUID) (*regmodels.Registration, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByField(ctx context.Context, field regmodels.Field) (map[string]int, error)
}

const defaultTicketSize = 256

// Service answers admin queries over the record store. It never validates
// records; only the registration service writes them.
type Service struct {
	store      Store
	logger     *slog.Logger
	location   *time.Location
	ticketSize int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLocation sets the zone whose midnight starts "today" in Stats.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTicketSize sets the edge length in pixels of ticket QR codes.
func WithTicketSize(px int) Option {
	return func(s *Service) {
		if px > 0 {
			s.ticketSize = px
		}
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("registration store is required")
	}
	s := &Service{
		store:      store,
		logger:     slog.Default(),
		location:   time.Local,
		ticketSize: defaultTicketSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var tracer = otel.Tracer("eventreg/admin")

// List returns records newest first. A non-blank query keeps only records whose
// name or email contains it, ignoring case.
func (s *Service) List(ctx context.Context, query string) ([]*regmodels.Registration, error) {
	ctx, span := tracer.Start(ctx, "admin.List")
	defer span.End()

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to list registrations")
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	out := make([]*regmodels.Registration, 0, len(all))
	for _, r := range all {
		if r.Matches(q) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*regmodels.Registration, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, s.internal(ctx, err, "failed to load registration")
	}
	return r, nil
}

// Stats computes the total, the count since local midnight and the most common
// branch. The three store queries run concurrently.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, span := tracer.Start(ctx, "admin.Stats")
	defer span.End()

	since := StartOfDay(requestcontext.Now(ctx), s.location)
	stats := &models.Stats{}
	var branches map[string]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountAll(gctx)
		if err != nil {
			return fmt.Errorf("count all: %w", err)
		}
		stats.Total = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountSince(gctx, since)
		if err != nil {
			return fmt.Errorf("count since %s: %w", since.Format(time.RFC3339), err)
		}
		stats.Today = n
		return nil
	})
	g.Go(func() error {
		counts, err := s.store.CountByField(gctx, regmodels.FieldBranch)
		if err != nil {
			return fmt.Errorf("count by branch: %w", err)
		}
		branches = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.internal(ctx, err, "failed to compute stats")
	}

	stats.TopCategory = TopCategory(branches)
	return stats, nil
}

// Delete removes a record. A missing id is reported through the result, not as
// an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*models.DeleteResult, error) {
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to delete registration")
	}
	if deleted {
		s.logger.InfoContext(ctx, "registration deleted",
			"registration_id", id,
			"admin", requestcontext.Admin(ctx),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return &models.DeleteResult{Deleted: deleted}, nil
}

// ExportTable returns the header row followed by one row per record in list
// order. Timestamps are RFC 3339 in UTC.
func (s *Service) ExportTable(ctx context.Context) ([][]string, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to export registrations")
	}

	table := make([][]string, 0, len(all)+1)
	table = append(table, append([]string(nil), models.ExportHeader...))
	for _, r := range all {
		table = append(table, []string{
			r.ID.String(),
			r.Name,
			r.Email,
			r.Phone,
			r.College,
			r.Branch,
			r.Year,
			r.Interest,
			r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return table, nil
}

// Ticket renders a PNG QR code identifying the registration at the door.
func (s *Service) Ticket(ctx context.Context, id uuid.UUID) ([]byte, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(TicketPayload(r), qrcode.Medium, s.ticketSize)
	if err != nil {
		return nil, s.internal(ctx, err, "failed to render ticket")
	}
	return png, nil
}

// TicketPayload is the text encoded in a registration's QR ticket.
func TicketPayload(r *regmodels.Registration) string {
	return "eventreg:" + r.ID.String() + ":" + r.Email
}

func (s *Service) internal(ctx context.Context, err error, msg string) error {
	s.logger.ErrorContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// StartOfDay returns midnight of now's calendar day in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// TopCategory picks the value with the highest count. Ties go to the
// lexicographically smallest value; an empty map yields NoCategory.
func TopCategory(counts map[string]int) string {
	if len(counts) == 0 {
		return models.NoCategory
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
