package postgres

import (
	"context"
	"contactform/contact"
	"time"

	"gorm.io/gorm"
)

// ContactModel represents the database model for contact submissions
type ContactModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Email       string    `gorm:"not null"`
	Phone       string    `gorm:"not null"`
	Message     string    `gorm:"not null"`
	SubmittedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactRepository implements contact.Repository interface
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateContact stores a submission
func (r *ContactRepository) CreateContact(ctx context.Context, s contact.Submission) error {
	model := ContactModel{
		ID:          s.ID,
		Name:        s.Fields.Name,
		Email:       s.Fields.Email,
		Phone:       s.Fields.Phone,
		Message:     s.Fields.Message,
		SubmittedAt: s.SubmittedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// AllContacts returns submissions, newest first
func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Submission, error) {
	var models []ContactModel
	if err := r.db.WithContext(ctx).Order("submitted_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	submissions := make([]contact.Submission, len(models))
	for i, model := range models {
		submissions[i] = model.toSubmission()
	}
	return submissions, nil
}

func (m ContactModel) toSubmission() contact.Submission {
	return contact.Submission{
		ID: m.ID,
		Fields: contact.Fields{
			Name:    m.Name,
			Email:   m.Email,
			Phone:   m.Phone,
			Message: m.Message,
		},
		SubmittedAt: m.SubmittedAt.UTC(),
	}
}
