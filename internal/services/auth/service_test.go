package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/pokernotes/internal/dependencies/mocks"
	"github.com/mcoot/pokernotes/internal/metrics"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/profiles"
	"github.com/mcoot/pokernotes/internal/storage"
	"github.com/mcoot/pokernotes/internal/storage/memory"
	logutil "github.com/mcoot/pokernotes/internal/testutil"
)

// profileFailingStorage fails the next failures profile saves with err
type profileFailingStorage struct {
	storage.Storage
	failures int
	err      error
}

func (f *profileFailingStorage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return f.Storage.SaveProfile(ctx, profile)
}

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	metrics  *metrics.Metrics
	profiles *profiles.Service
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.metrics = metrics.New()
	s.profiles = profiles.New(s.storage, s.clock, s.random, logutil.NopLogger())

	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	s.service = New(s.storage, s.profiles, s.clock, s.random, s.metrics, logutil.NopLogger(), cfg)
	s.ctx = context.Background()
}

func (s *ServiceSuite) signUp(email, nickname string) *Session {
	session, err := s.service.SignUp(s.ctx, email, "password123", nickname)
	s.Require().NoError(err)
	return session
}

// SignUp tests

func (s *ServiceSuite) TestSignUpSucceeds() {
	s.random.QueueID("user-1")

	session, err := s.service.SignUp(s.ctx, "alice@example.com", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal(model.UserID("user-1"), session.Identity.UserID)
	s.Equal("Alice", session.Identity.Nickname)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestSignUpCreatesProfile() {
	session := s.signUp("alice@example.com", "  Alice  ")

	profile, err := s.storage.GetProfile(s.ctx, session.Identity.UserID)
	s.Require().NoError(err)
	s.Equal("Alice", profile.Nickname)
}

func (s *ServiceSuite) TestSignUpHashesPassword() {
	s.signUp("Alice@Example.com ", "Alice")

	account, err := s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.NotEmpty(account.PasswordHash)
	s.NotEqual("password123", account.PasswordHash)
}

func (s *ServiceSuite) TestSignUpRequiresNickname() {
	_, err := s.service.SignUp(s.ctx, "alice@example.com", "password123", "   ")
	s.ErrorIs(err, profiles.ErrNicknameRequired)

	_, err = s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ServiceSuite) TestSignUpRejectsShortPassword() {
	_, err := s.service.SignUp(s.ctx, "alice@example.com", "12345", "Alice")
	s.ErrorIs(err, ErrPasswordTooShort)
}

func (s *ServiceSuite) TestSignUpRejectsInvalidEmail() {
	for _, email := range []string{"", "not-an-email", "Alice <alice@example.com>"} {
		_, err := s.service.SignUp(s.ctx, email, "password123", "Alice")
		s.ErrorIs(err, ErrInvalidEmail, email)
	}
}

func (s *ServiceSuite) TestSignUpFailsIfEmailExists() {
	s.signUp("alice@example.com", "Alice")

	_, err := s.service.SignUp(s.ctx, "ALICE@example.com", "different", "Alice2")
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *ServiceSuite) TestSignUpProfileFailureReleasesEmail() {
	store := &profileFailingStorage{Storage: s.storage, failures: 1, err: errors.New("connection reset")}
	profileService := profiles.New(store, s.clock, s.random, logutil.NopLogger())
	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	service := New(store, profileService, s.clock, s.random, s.metrics, logutil.NopLogger(), cfg)

	_, err := service.SignUp(s.ctx, "alice@example.com", "password123", "Alice")
	s.Require().ErrorIs(err, store.err)

	_, err = s.storage.GetAccountByEmail(s.ctx, "alice@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)

	session, err := service.SignUp(s.ctx, "alice@example.com", "password123", "Alice")
	s.Require().NoError(err)
	s.Equal("Alice", session.Identity.Nickname)

	signedIn, err := service.SignIn(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal("Alice", signedIn.Identity.Nickname)
}

// SignIn tests

func (s *ServiceSuite) TestSignInSucceeds() {
	created := s.signUp("alice@example.com", "Alice")

	session, err := s.service.SignIn(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEqual(created.Token, session.Token)
	s.Equal(created.Identity, session.Identity)
}

func (s *ServiceSuite) TestSignInIsCaseInsensitiveOnEmail() {
	s.signUp("alice@example.com", "Alice")

	_, err := s.service.SignIn(s.ctx, " Alice@Example.COM", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestSignInFailsWithWrongPassword() {
	s.signUp("alice@example.com", "Alice")

	_, err := s.service.SignIn(s.ctx, "alice@example.com", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestSignInFailsWithUnknownUser() {
	_, err := s.service.SignIn(s.ctx, "nobody@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session := s.signUp("alice@example.com", "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session := s.signUp("alice@example.com", "Alice")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// SignOut tests

func (s *ServiceSuite) TestSignOutRemovesSession() {
	session := s.signUp("alice@example.com", "Alice")

	s.service.SignOut(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.Equal(0.0, testutil.ToFloat64(s.metrics.ActiveSessions))
}

func (s *ServiceSuite) TestSignOutNoopForUnknownToken() {
	// Should not panic
	s.service.SignOut("unknown_token")
}

// CurrentUser tests

func (s *ServiceSuite) TestCurrentUserSucceeds() {
	session := s.signUp("alice@example.com", "Alice")

	identity, err := s.service.CurrentUser(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", identity.Nickname)
}

func (s *ServiceSuite) TestCurrentUserReflectsRename() {
	session := s.signUp("alice@example.com", "Alice")

	_, err := s.profiles.Rename(s.ctx, session.Identity, "Alicia")
	s.Require().NoError(err)

	identity, err := s.service.CurrentUser(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("Alicia", identity.Nickname)
}

func (s *ServiceSuite) TestAuthenticateReturnsSessionAndIdentity() {
	created := s.signUp("alice@example.com", "Alice")

	_, err := s.profiles.Rename(s.ctx, created.Identity, "Alicia")
	s.Require().NoError(err)

	session, identity, err := s.service.Authenticate(s.ctx, created.Token)
	s.Require().NoError(err)
	s.Equal(created.Token, session.Token)
	s.Equal("Alice", session.Identity.Nickname)
	s.Equal("Alicia", identity.Nickname)
}

func (s *ServiceSuite) TestAuthenticateFailsWhenExpired() {
	created := s.signUp("alice@example.com", "Alice")
	s.clock.Advance(25 * time.Hour)

	_, _, err := s.service.Authenticate(s.ctx, created.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCurrentUserFailsWithInvalidToken() {
	_, err := s.service.CurrentUser(s.ctx, "invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1 := s.signUp("alice@example.com", "Alice")

	// Advance time so session1 expires
	s.clock.Advance(25 * time.Hour)

	// Create a new session (not expired)
	session2 := s.signUp("bob@example.com", "Bob")

	s.Equal(1, s.service.CleanExpiredSessions())

	// session1 should be gone
	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)

	// session2 should still be valid
	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ActiveSessions))
}
