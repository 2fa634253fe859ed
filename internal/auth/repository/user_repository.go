package repository

import (
	"context"
	"errors"
	"time"

	authdomain "mailmind-backend/internal/auth/domain"
	"mailmind-backend/pkg/docstore"

	"golang.org/x/crypto/bcrypt"
)

const userCollection = "users"

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	Save(ctx context.Context, user *authdomain.User) error
}

type userRepository struct {
	store docstore.Store
}

func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	var stored storedUser
	if err := r.store.Read(ctx, userCollection, id, &stored); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return stored.toUser(), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	docs, err := r.store.Query(ctx, userCollection, "email", email)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}
	stored, err := docstore.Decode[storedUser](docs[0])
	if err != nil {
		return nil, err
	}
	return stored.toUser(), nil
}

func (r *userRepository) Save(ctx context.Context, user *authdomain.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	return r.store.Write(ctx, userCollection, user.ID, fromUser(user))
}

// storedUser is the persisted shape. The password hash needs an explicit
// tag because the domain type hides it from JSON responses.
type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func fromUser(u *authdomain.User) *storedUser {
	return &storedUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (s *storedUser) toUser() *authdomain.User {
	return &authdomain.User{
		ID:           s.ID,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Name:         s.Name,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
