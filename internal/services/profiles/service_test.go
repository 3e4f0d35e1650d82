package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernotes/internal/dependencies/mocks"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/storage/memory"
	"github.com/mcoot/pokernotes/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateTrimsNickname() {
	s.random.QueueID("profile-1")

	profile, err := s.service.Create(s.ctx, "user-1", "  Alice ")
	s.Require().NoError(err)
	s.Equal("profile-1", profile.ID)
	s.Equal("Alice", profile.Nickname)

	stored, err := s.storage.GetProfile(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("Alice", stored.Nickname)
}

func (s *ServiceSuite) TestCreateRequiresNickname() {
	_, err := s.service.Create(s.ctx, "user-1", "   ")
	s.ErrorIs(err, ErrNicknameRequired)

	_, err = s.storage.GetProfile(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestNicknameResolves() {
	_, err := s.service.Create(s.ctx, "user-1", "Alice")
	s.Require().NoError(err)

	s.Equal("Alice", s.service.Nickname(s.ctx, "user-1"))
}

func (s *ServiceSuite) TestNicknameFallsBackToUnknown() {
	s.Equal(UnknownNickname, s.service.Nickname(s.ctx, "ghost"))
	s.Equal(UnknownNickname, s.service.Nickname(s.ctx, ""))
}

func (s *ServiceSuite) TestRenameUpdatesOwnProfile() {
	_, err := s.service.Create(s.ctx, "user-1", "Alice")
	s.Require().NoError(err)
	s.clock.Advance(time.Hour)

	profile, err := s.service.Rename(s.ctx, model.Identity{UserID: "user-1", Nickname: "Alice"}, " Alicia ")
	s.Require().NoError(err)
	s.Equal("Alicia", profile.Nickname)
	s.Equal(s.clock.Now(), profile.UpdatedAt)
	s.Equal("Alicia", s.service.Nickname(s.ctx, "user-1"))
}

func (s *ServiceSuite) TestRenameRequiresNickname() {
	_, err := s.service.Create(s.ctx, "user-1", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Rename(s.ctx, model.Identity{UserID: "user-1"}, "")
	s.ErrorIs(err, ErrNicknameRequired)
}

func (s *ServiceSuite) TestRenameWithoutProfile() {
	_, err := s.service.Rename(s.ctx, model.Identity{UserID: "ghost"}, "Casper")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestList() {
	_, _ = s.service.Create(s.ctx, "user-1", "Alice")
	_, _ = s.service.Create(s.ctx, "user-2", "Bob")

	profiles, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(profiles, 2)

	_, err = s.service.Get(s.ctx, "user-2")
	s.NoError(err)
}
