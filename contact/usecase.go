package contact

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"contactform/errs"

	"github.com/google/uuid"
)

var ErrStorageNotConfigured = errs.Errorf(errs.ENOTIMPLEMENTED, "submission storage is not configured")

type Service interface {
	Sink
	SubmitContact(ctx context.Context, f Fields) error
	ListContacts(ctx context.Context) ([]Submission, error)
}

type Repository interface {
	CreateContact(ctx context.Context, s Submission) error
	AllContacts(ctx context.Context) ([]Submission, error)
}

// Usecase is the submission sink. Without a repository it only logs the
// submission id.
type Usecase struct {
	r       Repository
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

type UsecaseOption func(uc *Usecase)

func WithRepository(r Repository) UsecaseOption {
	return func(uc *Usecase) {
		uc.r = r
	}
}

func WithLogger(l *slog.Logger) UsecaseOption {
	return func(uc *Usecase) {
		uc.logger = l
	}
}

// WithSubmitTimeout bounds each repository write.
func WithSubmitTimeout(d time.Duration) UsecaseOption {
	return func(uc *Usecase) {
		uc.timeout = d
	}
}

func NewUsecase(opts ...UsecaseOption) *Usecase {
	uc := &Usecase{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, fn := range opts {
		fn(uc)
	}
	return uc
}

// SubmitContact validates f and records it in one step.
func (uc *Usecase) SubmitContact(ctx context.Context, f Fields) error {
	if err := f.Validate().Err(); err != nil {
		return err
	}
	return uc.Record(ctx, f)
}

// Record stores an already validated form.
func (uc *Usecase) Record(ctx context.Context, f Fields) error {
	s := Submission{
		ID:          uuid.NewString(),
		Fields:      normalize(f),
		SubmittedAt: uc.now().UTC(),
	}

	// field values stay out of logs
	uc.logger.InfoContext(ctx, "contact submitted", "id", s.ID)

	if uc.r == nil {
		return nil
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}
	if err := uc.r.CreateContact(ctx, s); err != nil {
		uc.logger.ErrorContext(ctx, "cannot store contact", "id", s.ID, "error", err)
		return err
	}
	return nil
}

func (uc *Usecase) ListContacts(ctx context.Context) ([]Submission, error) {
	if uc.r == nil {
		return nil, ErrStorageNotConfigured
	}
	return uc.r.AllContacts(ctx)
}

// normalize trims the free-text fields. Text is stored as typed; escaping
// belongs to whoever renders it.
func normalize(f Fields) Fields {
	return Fields{
		Name:    strings.TrimSpace(f.Name),
		Email:   f.Email,
		Phone:   f.Phone,
		Message: strings.TrimSpace(f.Message),
	}
}
