package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
	repo "github.com/javierbuenopatience/patience-backend/internal/domain/repository"
	"github.com/javierbuenopatience/patience-backend/internal/infrastructure/blob"
	"github.com/javierbuenopatience/patience-backend/pkg/patch"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownEmail       = errors.New("unknown email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrStorageUnavailable = errors.New("storage not configured")
	ErrStorage            = errors.New("storage write failed")
)

// Publisher is the slice of the queue publisher the service needs.
// A nil Publisher means activities are appended to the store directly.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Hasher is satisfied by password.Hasher. It is an interface here so
// tests can use a deterministic stub instead of paying bcrypt cost.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// AccountService orchestrates registration, login, profile updates,
// uploads and the activity log. The hasher is an injected value, not
// process-global state, so tests can swap in a cheap deterministic one.
type AccountService struct {
	Users      repo.UserRepository
	Documents  repo.DocumentRepository
	Activities repo.ActivityRepository
	Hasher     Hasher
	Storage    blob.Storage
	Pub        Publisher
	Logger     *logrus.Logger
}

func NewAccountService(users repo.UserRepository, docs repo.DocumentRepository, acts repo.ActivityRepository, hasher Hasher, storage blob.Storage, pub Publisher, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Users:      users,
		Documents:  docs,
		Activities: acts,
		Hasher:     hasher,
		Storage:    storage,
		Pub:        pub,
		Logger:     logger,
	}
}

// NormalizeEmail folds an address to its canonical stored form. Lookups
// and the uniqueness invariant both operate on the folded form, so
// "Ana@x.com" and "ana@x.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password. The pre-insert
// lookup gives the common duplicate a clean error; the unique index
// catches the concurrent race and is mapped to the same ErrDuplicateEmail.
func (s *AccountService) Register(ctx context.Context, name, email, plainPassword string) (*entity.User, error) {
	email = NormalizeEmail(email)

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	digest, err := s.Hasher.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Email: email, Name: name, HashedPassword: digest}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.recordActivity(ctx, u.Email, "registered")
	return u, nil
}

// Login verifies credentials and returns the full profile. No token or
// session is issued; every request re-supplies identity. A digest that
// fails to parse verifies false, which surfaces as invalid credentials
// rather than an internal error.
func (s *AccountService) Login(ctx context.Context, email, plainPassword string) (*entity.User, error) {
	email = NormalizeEmail(email)

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}
	if !s.Hasher.Verify(plainPassword, u.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	s.recordActivity(ctx, u.Email, "logged in")
	return u, nil
}

func (s *AccountService) GetProfile(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput carries the partial update. Absent fields keep
// their prior value, explicit nulls clear the field, values overwrite.
// Name is required on the entity, so a null name is ignored.
type UpdateProfileInput struct {
	Name         patch.Field[string]
	Phone        patch.Field[string]
	ExamDate     patch.Field[time.Time]
	Specialty    patch.Field[string]
	Hobbies      patch.Field[string]
	Location     patch.Field[string]
	ProfileImage patch.Field[string]
}

func (in UpdateProfileInput) apply(u *entity.User) {
	if in.Name.Set && !in.Name.Null && in.Name.Value != "" {
		u.Name = in.Name.Value
	}
	in.Phone.Apply(&u.Phone)
	in.ExamDate.Apply(&u.ExamDate)
	in.Specialty.Apply(&u.Specialty)
	in.Hobbies.Apply(&u.Hobbies)
	in.Location.Apply(&u.Location)
	in.ProfileImage.Apply(&u.ProfileImage)
}

func (s *AccountService) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	in.apply(u)
	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.recordActivity(ctx, u.Email, "profile updated")
	return u, nil
}

// UploadDocument streams the file to blob storage, then records the
// metadata. The metadata insert happens strictly after the blob write
// completes; no entity lock is held across the write.
func (s *AccountService) UploadDocument(ctx context.Context, email, filename, contentType string, r io.Reader) (*entity.Document, error) {
	email = NormalizeEmail(email)

	if _, err := s.Users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.Storage == nil {
		return nil, ErrStorageUnavailable
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("documents", email, uuid.NewString()+ext))

	locator, err := s.Storage.Put(ctx, objectPath, contentType, r)
	if err != nil {
		if errors.Is(err, blob.ErrUnavailable) {
			return nil, ErrStorageUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	d := &entity.Document{
		UserEmail: email,
		Filename:  filename,
		FileURL:   locator,
		FileType:  contentType,
	}
	if err := s.Documents.Create(ctx, d); err != nil {
		return nil, err
	}

	s.recordActivity(ctx, email, "uploaded "+filename)
	return d, nil
}

func (s *AccountService) ListDocuments(ctx context.Context, email string) ([]entity.Document, error) {
	return s.Documents.ListByUser(ctx, NormalizeEmail(email))
}

func (s *AccountService) ListActivities(ctx context.Context, email string) ([]entity.Activity, error) {
	return s.Activities.ListByUser(ctx, NormalizeEmail(email))
}

// recordActivity appends an event for the user. When a queue publisher
// is configured the append is asynchronous via the activity worker;
// otherwise it goes straight to the store. Either way a failure here
// never fails the operation that triggered it.
func (s *AccountService) recordActivity(ctx context.Context, email, message string) {
	if s.Pub != nil {
		if err := s.Pub.PublishJSON(ctx, ActivityJob{UserEmail: email, Message: message}); err == nil {
			return
		} else if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_email", email).Warn("activity publish failed, appending directly")
		}
	}
	if err := s.Activities.Append(ctx, &entity.Activity{UserEmail: email, Message: message}); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_email", email).Warn("activity append failed")
	}
}
