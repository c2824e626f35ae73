package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
	repo "github.com/javierbuenopatience/patience-backend/internal/domain/repository"
	"github.com/javierbuenopatience/patience-backend/internal/infrastructure/blob"
	"github.com/javierbuenopatience/patience-backend/pkg/patch"
)

// ─────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────

type memUserRepo struct {
	users  map[string]*entity.User // keyed by email
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.Email] = cloneUser(u)
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	for email, existing := range r.users {
		if existing.ID == u.ID {
			u.UpdatedAt = time.Now()
			r.users[email] = cloneUser(u)
			return nil
		}
	}
	return repo.ErrNotFound
}

type memDocRepo struct {
	docs   []entity.Document
	nextID int64
}

func (r *memDocRepo) Create(_ context.Context, d *entity.Document) error {
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = time.Now()
	r.docs = append(r.docs, *d)
	return nil
}

func (r *memDocRepo) ListByUser(_ context.Context, userEmail string) ([]entity.Document, error) {
	out := make([]entity.Document, 0)
	for _, d := range r.docs {
		if d.UserEmail == userEmail {
			out = append(out, d)
		}
	}
	return out, nil
}

type memActRepo struct {
	acts   []entity.Activity
	nextID int64
}

func (r *memActRepo) Append(_ context.Context, a *entity.Activity) error {
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	r.acts = append(r.acts, *a)
	return nil
}

func (r *memActRepo) ListByUser(_ context.Context, userEmail string) ([]entity.Activity, error) {
	out := make([]entity.Activity, 0)
	for _, a := range r.acts {
		if a.UserEmail == userEmail {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memActRepo) messages() []string {
	out := make([]string, 0, len(r.acts))
	for _, a := range r.acts {
		out = append(out, a.Message)
	}
	return out
}

// stubHasher is a deterministic stand-in for the bcrypt hasher.
type stubHasher struct{}

func (stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (stubHasher) Verify(plain, digest string) bool  { return digest == "hashed:"+plain }

type memStorage struct {
	puts []string
}

func (s *memStorage) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	s.puts = append(s.puts, objectPath)
	return "mem://" + objectPath, nil
}

type failingStorage struct{}

func (failingStorage) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", &blob.WriteError{Err: errors.New("disk full")}
}

type memPublisher struct {
	jobs []any
	err  error
}

func (p *memPublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}

type fixture struct {
	svc     *AccountService
	users   *memUserRepo
	docs    *memDocRepo
	acts    *memActRepo
	storage *memStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMemUserRepo()
	docs := &memDocRepo{}
	acts := &memActRepo{}
	storage := &memStorage{}
	svc := NewAccountService(users, docs, acts, stubHasher{}, storage, nil, nil)
	return &fixture{svc: svc, users: users, docs: docs, acts: acts, storage: storage}
}

func (f *fixture) register(t *testing.T, name, email, pw string) *entity.User {
	t.Helper()
	u, err := f.svc.Register(context.Background(), name, email, pw)
	require.NoError(t, err)
	return u
}

// ─────────────────────────────────────────────
// Register / Login
// ─────────────────────────────────────────────

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t, "Ana", "ana@x.com", "pw123")
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@x.com", u.Email)
	assert.NotEqual(t, "pw123", u.HashedPassword)

	got, err := f.svc.Login(ctx, "ana@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Email, got.Email)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.ExamDate)

	assert.Equal(t, []string{"registered", "logged in"}, f.acts.messages())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	_, err := f.svc.Register(context.Background(), "Other", "ana@x.com", "other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, f.users.users, 1, "user count must be unchanged")
}

func TestRegister_DuplicateEmailDifferentCase(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	// Emails are folded to lowercase at the service boundary, so a
	// differently-cased address collides with the stored one.
	_, err := f.svc.Register(context.Background(), "Ana2", "Ana@X.com", "pw456")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, f.users.users, 1)
}

func TestRegister_ConcurrentDuplicateFromStore(t *testing.T) {
	// The pre-insert lookup misses but the store's uniqueness
	// constraint still fires; the violation maps to ErrDuplicateEmail.
	f := newFixture(t)
	f.svc.Users = racingUserRepo{inner: f.users}

	_, err := f.svc.Register(context.Background(), "Ana", "ana@x.com", "pw123")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

type racingUserRepo struct {
	inner *memUserRepo
}

func (r racingUserRepo) Create(context.Context, *entity.User) error {
	return repo.ErrDuplicateEmail
}

func (r racingUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (r racingUserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.inner.Update(ctx, u)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Login(context.Background(), "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	_, err := f.svc.Login(context.Background(), "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	u, err := f.svc.Login(context.Background(), "ANA@X.COM", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", u.Email)
}

func TestLogin_CorruptedDigest(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")
	f.users.users["ana@x.com"].HashedPassword = "garbage"

	_, err := f.svc.Login(context.Background(), "ana@x.com", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ─────────────────────────────────────────────
// Profile
// ─────────────────────────────────────────────

func TestGetProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetProfile(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@x.com", "pw123")

	loc := "Madrid"
	_, err := f.svc.UpdateProfile(ctx, "ana@x.com", UpdateProfileInput{
		Location: patch.Field[string]{Set: true, Value: loc},
	})
	require.NoError(t, err)

	// Updating only phone must leave location and everything else alone.
	u, err := f.svc.UpdateProfile(ctx, "ana@x.com", UpdateProfileInput{
		Phone: patch.Field[string]{Set: true, Value: "555"},
	})
	require.NoError(t, err)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "555", *u.Phone)
	require.NotNil(t, u.Location)
	assert.Equal(t, loc, *u.Location)
	assert.Equal(t, "Ana", u.Name)
	assert.Nil(t, u.Specialty)
	assert.Nil(t, u.ExamDate)
}

func TestUpdateProfile_ExplicitNullClearsField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@x.com", "pw123")

	_, err := f.svc.UpdateProfile(ctx, "ana@x.com", UpdateProfileInput{
		Phone: patch.Field[string]{Set: true, Value: "555"},
	})
	require.NoError(t, err)

	u, err := f.svc.UpdateProfile(ctx, "ana@x.com", UpdateProfileInput{
		Phone: patch.Field[string]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.Nil(t, u.Phone)
}

func TestUpdateProfile_ExamDate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	d := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	u, err := f.svc.UpdateProfile(context.Background(), "ana@x.com", UpdateProfileInput{
		ExamDate: patch.Field[time.Time]{Set: true, Value: d},
	})
	require.NoError(t, err)
	require.NotNil(t, u.ExamDate)
	assert.True(t, d.Equal(*u.ExamDate))
}

func TestUpdateProfile_NullNameIgnored(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	u, err := f.svc.UpdateProfile(context.Background(), "ana@x.com", UpdateProfileInput{
		Name: patch.Field[string]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name, "a required field cannot be cleared")
}

func TestUpdateProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateProfile(context.Background(), "nobody@x.com", UpdateProfileInput{
		Phone: patch.Field[string]{Set: true, Value: "555"},
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.users.users)
}

// ─────────────────────────────────────────────
// Documents
// ─────────────────────────────────────────────

func TestUploadDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@x.com", "pw123")

	d, err := f.svc.UploadDocument(ctx, "ana@x.com", "notes.pdf", "application/pdf", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", d.UserEmail)
	assert.Equal(t, "notes.pdf", d.Filename)
	assert.Equal(t, "application/pdf", d.FileType)
	assert.True(t, strings.HasPrefix(d.FileURL, "mem://documents/ana@x.com/"))
	assert.True(t, strings.HasSuffix(d.FileURL, ".pdf"))

	docs, err := f.svc.ListDocuments(ctx, "ana@x.com")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, d.ID, docs[0].ID)

	assert.Contains(t, f.acts.messages(), "uploaded notes.pdf")
}

func TestUploadDocument_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UploadDocument(context.Background(), "nobody@x.com", "notes.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.storage.puts, "nothing may be written for an unknown user")
}

func TestUploadDocument_StorageUnavailable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")
	f.svc.Storage = nil

	_, err := f.svc.UploadDocument(context.Background(), "ana@x.com", "notes.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Empty(t, f.docs.docs)
}

func TestUploadDocument_StorageWriteError(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")
	f.svc.Storage = failingStorage{}

	_, err := f.svc.UploadDocument(context.Background(), "ana@x.com", "notes.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, f.docs.docs, "no metadata may be recorded when the write fails")
}

func TestListDocuments_EmptyForFreshUser(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@x.com", "pw123")

	docs, err := f.svc.ListDocuments(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)
}

// ─────────────────────────────────────────────
// Activity recording
// ─────────────────────────────────────────────

func TestRecordActivity_PrefersPublisher(t *testing.T) {
	f := newFixture(t)
	pub := &memPublisher{}
	f.svc.Pub = pub

	f.register(t, "Ana", "ana@x.com", "pw123")

	require.Len(t, pub.jobs, 1)
	job, ok := pub.jobs[0].(ActivityJob)
	require.True(t, ok)
	assert.Equal(t, "ana@x.com", job.UserEmail)
	assert.Equal(t, "registered", job.Message)
	assert.Empty(t, f.acts.acts, "queued activities must not also be appended directly")
}

func TestRecordActivity_FallsBackWhenPublishFails(t *testing.T) {
	f := newFixture(t)
	f.svc.Pub = &memPublisher{err: errors.New("broker down")}

	f.register(t, "Ana", "ana@x.com", "pw123")

	assert.Equal(t, []string{"registered"}, f.acts.messages())
}
