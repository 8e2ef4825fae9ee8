package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"maildesk/internal/models"
	"maildesk/internal/repository"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	cp := *u
	f.byEmail[u.Email] = &cp
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	u, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeMailer struct {
	sent []string // tokens handed to the collaborator
	fail bool
}

func (m *fakeMailer) SendResetLink(_ string, token string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, token)
	return nil
}

type fakeRecorder struct {
	logins []string
	fail   bool
}

func (r *fakeRecorder) RecordLogin(_ context.Context, userID string) error {
	if r.fail {
		return errors.New("history table unavailable")
	}
	r.logins = append(r.logins, userID)
	return nil
}

func newTestService(t *testing.T, users *fakeUsers, mailer *fakeMailer, recorder *fakeRecorder) *Service {
	t.Helper()
	sessions, err := NewSessionIssuer([]byte("test-secret"), 30*time.Minute)
	require.NoError(t, err)

	deps := ServiceDeps{
		Users:    users,
		Mailer:   mailer,
		Hasher:   NewHasher(bcrypt.MinCost),
		Sessions: sessions,
		Resets:   NewResetStore(time.Hour),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if recorder != nil {
		deps.Logins = recorder
	}
	svc, err := NewService(deps)
	require.NoError(t, err)
	return svc
}

func registerUser(t *testing.T, svc *Service, email, password string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), email, password, "Ada", "Lovelace")
	require.NoError(t, err)
	return u
}

func TestLoginIssuesValidSession(t *testing.T) {
	users := newFakeUsers()
	recorder := &fakeRecorder{}
	svc := newTestService(t, users, &fakeMailer{}, recorder)
	u := registerUser(t, svc, "a@x.com", "password123")

	token, err := svc.Login(context.Background(), "a@x.com", "password123")
	require.NoError(t, err)

	id, err := svc.ValidateSession(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, "a@x.com", id.Email)

	assert.Equal(t, []string{u.ID}, recorder.logins)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, nil)
	registerUser(t, svc, "a@x.com", "password123")

	_, errWrongPassword := svc.Login(context.Background(), "a@x.com", "wrong")
	_, errUnknownEmail := svc.Login(context.Background(), "nosuch@x.com", "anything")

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword, errUnknownEmail, "failure causes must be indistinguishable")
}

func TestLoginUnknownEmailBurnsComparableTime(t *testing.T) {
	if testing.Short() {
		t.Skip("timing measurement")
	}
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, nil)
	registerUser(t, svc, "a@x.com", "password123")

	const rounds = 20
	var knownTotal, unknownTotal time.Duration
	for i := 0; i < rounds; i++ {
		start := time.Now()
		_, _ = svc.Login(context.Background(), "a@x.com", "wrong")
		knownTotal += time.Since(start)

		start = time.Now()
		_, _ = svc.Login(context.Background(), "nosuch@x.com", "anything")
		unknownTotal += time.Since(start)
	}

	ratio := float64(unknownTotal) / float64(knownTotal)
	assert.Greater(t, ratio, 0.2, "unknown-email path must not be observably cheaper")
	assert.Less(t, ratio, 5.0, "unknown-email path must not be observably dearer")
}

func TestLoginRecorderFailureDoesNotFailLogin(t *testing.T) {
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, &fakeRecorder{fail: true})
	registerUser(t, svc, "a@x.com", "password123")

	_, err := svc.Login(context.Background(), "a@x.com", "password123")
	assert.NoError(t, err)
}

func TestRequestResetUnknownEmailAppearsToSucceed(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(t, newFakeUsers(), mailer, nil)

	token, err := svc.RequestReset(context.Background(), "nosuch@x.com")
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, mailer.sent, "no delivery for unknown accounts")
}

func TestRequestResetDeliversRedeemableToken(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(t, newFakeUsers(), mailer, nil)
	u := registerUser(t, svc, "a@x.com", "password123")

	token, err := svc.RequestReset(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, []string{token}, mailer.sent)

	userID, err := svc.resets.Redeem(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestRequestResetDeliveryFailureInvalidatesToken(t *testing.T) {
	mailer := &fakeMailer{fail: true}
	svc := newTestService(t, newFakeUsers(), mailer, nil)
	registerUser(t, svc, "a@x.com", "password123")

	_, err := svc.RequestReset(context.Background(), "a@x.com")
	require.Error(t, err)

	// Nothing dangling: the store holds no redeemable entry.
	assert.Equal(t, 0, svc.resets.Len())
}

func TestCompleteResetRotatesCredential(t *testing.T) {
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, nil)
	registerUser(t, svc, "a@x.com", "oldpassword1")

	token, err := svc.RequestReset(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteReset(context.Background(), token, "newpassword1"))

	_, err = svc.Login(context.Background(), "a@x.com", "oldpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "a@x.com", "newpassword1")
	assert.NoError(t, err)

	err = svc.CompleteReset(context.Background(), token, "anotherpass1")
	assert.ErrorIs(t, err, ErrResetTokenNotFound, "token is single use")
}

func TestCompleteResetExpiredToken(t *testing.T) {
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, nil)
	registerUser(t, svc, "a@x.com", "password123")

	token, err := svc.RequestReset(context.Background(), "a@x.com")
	require.NoError(t, err)

	svc.resets.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err = svc.CompleteReset(context.Background(), token, "newpassword1")
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, nil)
	u := registerUser(t, svc, "a@x.com", "oldpassword1")

	err := svc.ChangePassword(context.Background(), u.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "oldpassword1", "newpassword1"))

	_, err = svc.Login(context.Background(), "a@x.com", "newpassword1")
	assert.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t, newFakeUsers(), &fakeMailer{}, nil)
	registerUser(t, svc, "a@x.com", "password123")

	_, err := svc.Register(context.Background(), "a@x.com", "password456", "B", "C")
	assert.ErrorIs(t, err, ErrEmailTaken)
}
