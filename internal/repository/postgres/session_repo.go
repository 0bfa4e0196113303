package postgres

import (
	"context"
	"time"

	"github.com/calebw/tasklist-api/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByAccessToken(ctx context.Context, accessToken string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).First(&session, "access_token = ?", accessToken).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetByTokenTriple(ctx context.Context, id int64, accessToken, refreshToken string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).
		First(&session, "id = ? AND access_token = ? AND refresh_token = ?", id, accessToken, refreshToken).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Rotate is the compare-and-swap for token refresh: the WHERE clause matches
// the pre-rotation pair, so a concurrent refresh that already rotated the
// row leaves nothing to update.
func (r *sessionRepository) Rotate(ctx context.Context, current *domain.Session, accessToken string, accessExpiry time.Time, refreshToken string, refreshExpiry time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("id = ? AND user_id = ? AND access_token = ? AND refresh_token = ?",
			current.ID, current.UserID, current.AccessToken, current.RefreshToken).
		Updates(map[string]interface{}{
			"access_token":         accessToken,
			"access_token_expiry":  accessExpiry,
			"refresh_token":        refreshToken,
			"refresh_token_expiry": refreshExpiry,
		})
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) Delete(ctx context.Context, id int64, accessToken string) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&domain.Session{}, "id = ? AND access_token = ?", id, accessToken)
	return result.RowsAffected, result.Error
}
