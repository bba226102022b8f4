package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"eventreg/internal/registration/metrics"
	"eventreg/internal/registration/models"
	"eventreg/internal/registration/store"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

// Store is the part of the record store registration needs.
type Store interface {
	Insert(ctx context.Context, r *models.Registration) (*models.Registration, error)
}

// Service validates public submissions and hands them to the store. It is the
// only path by which records enter the store.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("registration store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var tracer = otel.Tracer("eventreg/registration")

// Register trims and validates req, then stores a new record. A duplicate
// normalized email yields CodeConflict; storage failures yield CodeInternal.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.Registration, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "registration.Register")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveRegister(start)
	}

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			s.rejected(de.Reason)
			span.SetAttributes(attribute.String("registration.rejected", de.Reason))
		}
		return nil, err
	}

	stored, err := s.store.Insert(ctx, &models.Registration{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		College:   req.College,
		Branch:    req.Branch,
		Year:      req.Year,
		Interest:  req.Interest,
		CreatedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			s.rejected("duplicate_email")
			span.SetAttributes(attribute.String("registration.rejected", "duplicate_email"))
			return nil, dErrors.New(dErrors.CodeConflict, "this email is already registered")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.logger.ErrorContext(ctx, "failed to store registration",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register")
	}

	span.SetAttributes(attribute.String("registration.id", stored.ID.String()))
	s.logger.InfoContext(ctx, "registration created",
		"registration_id", stored.ID,
		"branch", stored.Branch,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	return stored, nil
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}
