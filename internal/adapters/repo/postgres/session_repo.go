package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arjunvir/vastra/internal/domain"
)

type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) *SessionRepo { return &SessionRepo{db: db} }

// Create mints a fresh random session id. Possession of the id grants
// access to the session's cart and wishlist, so nothing guessable goes in.
func (r *SessionRepo) Create(ctx context.Context) (*domain.Session, error) {
	s := domain.Session{ID: uuid.New(), LastSeenAt: time.Now()}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Find(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var s domain.Session
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}
