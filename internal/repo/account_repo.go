package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/powerwise-backend/internal/domain"
)

// CreateAccount stores a new account. Emails are compared lower-cased; a
// clash returns ErrDuplicate.
func CreateAccount(ctx context.Context, db *gorm.DB, email, passwordHash string) (*domain.Account, error) {
	a := &domain.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

// GetAccountByEmail fetches an account by (case-insensitive) email.
func GetAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Account, error) {
	var a domain.Account
	err := db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
