package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// ErrDuplicateEmail is returned when the unique email constraint rejects an insert.
var ErrDuplicateEmail = apperrors.NewConflict("email already registered", nil)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userRepository struct {
	store *persistence.Store
}

// NewUserRepository returns a store-backed implementation.
func NewUserRepository(store *persistence.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	row := userToRow(user)
	if err := db.Create(&row).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	user.ID = row.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*domain.User, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var row persistence.UserRow
	if err := db.Where(query, args...).Take(&row).Error; err != nil {
		return nil, err
	}
	return rowToUser(&row), nil
}

func userToRow(u *domain.User) persistence.UserRow {
	return persistence.UserRow{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Password:   u.Password,
		Department: u.Department,
		Role:       string(u.Role),
	}
}

func rowToUser(row *persistence.UserRow) *domain.User {
	return &domain.User{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		Password:   row.Password,
		Department: row.Department,
		Role:       domain.Role(row.Role),
	}
}

// isDuplicateKey relies on the store opening gorm with TranslateError, which
// maps each driver's unique violation to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
