package service

import (
	"context"
	"errors"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/document"
	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/planner"
	"alcyxob/session-planner/internal/storage"
)

// --- Error Definitions ---
var (
	ErrValidationFailed     = errors.New("plan request validation failed")
	ErrStorageNotConfigured = errors.New("plan storage is not configured")
)

const pdfContentType = "application/pdf"

// PlanRequest describes a session plan. ExerciseIDs hand-pick exercises in the given order;
// otherwise the plan holds every catalog exercise matching Criteria.
type PlanRequest struct {
	Title       string
	Criteria    domain.Criteria
	ExerciseIDs []string
	RequestedBy string
}

// PublishedPlan is an exported plan stored for download.
type PublishedPlan struct {
	Plan      *domain.SessionPlan
	ObjectKey string
	URL       string
	ExpiresAt time.Time
}

// PlanOptions tunes exports.
type PlanOptions struct {
	DefaultTitle   string
	MaxTokenLength int
	TruncateLength int
	StoragePrefix  string
	PresignExpiry  time.Duration
}

type PlanService interface {
	Search(ctx context.Context, criteria domain.Criteria) ([]domain.Exercise, error)
	Digest(ctx context.Context, criteria domain.Criteria) (string, error)
	BuildPlan(ctx context.Context, req PlanRequest) (*domain.SessionPlan, error)
	ExportPlan(ctx context.Context, req PlanRequest) (*domain.SessionPlan, []byte, error)
	PublishPlan(ctx context.Context, req PlanRequest) (*PublishedPlan, error)
}

type planService struct {
	catalog CatalogService
	storage storage.FileStorage // nil when publishing is disabled
	opts    PlanOptions
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewPlanService wires the catalog cache to the planner and document packages.
// fileStorage may be nil.
func NewPlanService(catalog CatalogService, fileStorage storage.FileStorage, opts PlanOptions, log *zap.Logger) PlanService {
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = document.DefaultTitle
	}
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = storage.DefaultPresignedURLExpiry
	}
	return &planService{
		catalog: catalog,
		storage: fileStorage,
		opts:    opts,
		log:     log,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

func (s *planService) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Exercise, error) {
	exercises, err := s.catalog.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	return planner.Filter(exercises, criteria)
}

func (s *planService) Digest(ctx context.Context, criteria domain.Criteria) (string, error) {
	matches, err := s.Search(ctx, criteria)
	if err != nil {
		return "", err
	}
	return planner.FormatDigest(matches, criteria.Phase, criteria.Intensity), nil
}

func (s *planService) BuildPlan(ctx context.Context, req PlanRequest) (*domain.SessionPlan, error) {
	if len(req.ExerciseIDs) > 0 && !req.Criteria.IsEmpty() {
		return nil, errors.Join(ErrValidationFailed, errors.New("give either exercise ids or filter criteria, not both"))
	}

	var (
		exercises []domain.Exercise
		err       error
	)
	if len(req.ExerciseIDs) > 0 {
		var catalog []domain.Exercise
		if catalog, err = s.catalog.Exercises(ctx); err == nil {
			exercises, err = planner.Select(catalog, req.ExerciseIDs)
		}
	} else {
		exercises, err = s.Search(ctx, req.Criteria)
	}
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = s.opts.DefaultTitle
	}
	plan := domain.NewSessionPlan(s.newID(), title, req.Criteria, exercises, s.now())
	plan.RequestedBy = req.RequestedBy
	return plan, nil
}

func (s *planService) ExportPlan(ctx context.Context, req PlanRequest) (*domain.SessionPlan, []byte, error) {
	plan, err := s.BuildPlan(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := document.Generate(plan.Exercises,
		document.WithTitle(plan.Title),
		document.WithSubtitle(plan.Criteria.String()),
		document.WithGeneratedAt(plan.GeneratedAt),
		document.WithMaxTokenLength(s.opts.MaxTokenLength),
		document.WithTruncateLength(s.opts.TruncateLength),
		document.WithLogger(s.log.With(zap.String("plan", plan.ID))),
	)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("session plan exported",
		zap.String("plan", plan.ID),
		zap.Int("exercises", len(plan.Exercises)),
		zap.Int("minutes", plan.TotalMinutes),
		zap.Int("bytes", len(pdf)))
	return plan, pdf, nil
}

func (s *planService) PublishPlan(ctx context.Context, req PlanRequest) (*PublishedPlan, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	plan, pdf, err := s.ExportPlan(ctx, req)
	if err != nil {
		return nil, err
	}

	key := path.Join(s.opts.StoragePrefix, plan.ID+".pdf")
	metadata := map[string]string{
		"plan-id":   plan.ID,
		"exercises": strconv.Itoa(len(plan.Exercises)),
	}
	if plan.RequestedBy != "" {
		metadata["requested-by"] = plan.RequestedBy
	}
	if err := s.storage.PutObject(ctx, key, pdfContentType, pdf, metadata); err != nil {
		return nil, err
	}

	url, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.opts.PresignExpiry)
	if err != nil {
		return nil, err
	}
	return &PublishedPlan{
		Plan:      plan,
		ObjectKey: key,
		URL:       url,
		ExpiresAt: s.now().Add(s.opts.PresignExpiry).UTC(),
	}, nil
}
