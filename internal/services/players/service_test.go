package players

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pokernotes/internal/dependencies/mocks"
	"github.com/mcoot/pokernotes/internal/entrylog"
	"github.com/mcoot/pokernotes/internal/metrics"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/profiles"
	"github.com/mcoot/pokernotes/internal/storage"
	"github.com/mcoot/pokernotes/internal/storage/memory"
	logutil "github.com/mcoot/pokernotes/internal/testutil"
)

var jst = time.FixedZone("JST", 9*60*60)

var (
	alice = model.Identity{UserID: "user-alice", Nickname: "Alice"}
	bob   = model.Identity{UserID: "user-bob", Nickname: "Bob"}
)

// racingStorage runs interfere once, just before the first UpdatePlayer reaches the store
type racingStorage struct {
	storage.Storage
	once      sync.Once
	interfere func()
}

func (r *racingStorage) UpdatePlayer(ctx context.Context, player *model.Player, expectedVersion int64) error {
	r.once.Do(r.interfere)
	return r.Storage.UpdatePlayer(ctx, player, expectedVersion)
}

// failingStorage returns err from every player write and list
type failingStorage struct {
	storage.Storage
	err error
}

func (f *failingStorage) CreatePlayer(ctx context.Context, player *model.Player) error {
	return f.err
}

func (f *failingStorage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return nil, f.err
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
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.metrics = metrics.New()
	s.profiles = profiles.New(s.storage, s.clock, s.random, logutil.NopLogger())
	s.service = s.newService(s.storage, DefaultMaxAttempts)
	s.ctx = context.Background()

	_, err := s.profiles.Create(s.ctx, alice.UserID, alice.Nickname)
	s.Require().NoError(err)
	_, err = s.profiles.Create(s.ctx, bob.UserID, bob.Nickname)
	s.Require().NoError(err)
}

func (s *ServiceSuite) newService(store storage.Storage, maxAttempts int) *Service {
	return New(store, s.profiles, s.clock, s.random, s.metrics, logutil.NopLogger(), Config{
		Location:    jst,
		MaxAttempts: maxAttempts,
	})
}

func (s *ServiceSuite) create(gameID, notes string) *model.Player {
	player, err := s.service.Create(s.ctx, alice, CreateInput{GameID: gameID, Nickname: "Nick", Notes: notes})
	s.Require().NoError(err)
	return player
}

func (s *ServiceSuite) requireKind(err error, kind Kind) {
	s.Require().Error(err)
	var perr *Error
	s.Require().ErrorAs(err, &perr)
	s.Equal(kind, perr.Kind, err.Error())
}

// Create tests

func (s *ServiceSuite) TestCreateStoresTrimmedFragments() {
	s.random.QueueID("p-1")

	player, err := s.service.Create(s.ctx, alice, CreateInput{
		GameID:    "  shark99 ",
		Nickname:  " Sharky ",
		PlayStyle: "aggressive",
		Notes:     "  3-bets light  \n",
		Tells:     "\tsnap calls with draws ",
	})
	s.Require().NoError(err)

	stored, err := s.storage.GetPlayer(s.ctx, "p-1")
	s.Require().NoError(err)
	s.Equal(player, stored)
	s.Equal("shark99", stored.GameID)
	s.Equal("Sharky", stored.Nickname)
	s.Equal(model.PlayStyleAggressive, stored.PlayStyle)
	s.Equal("3-bets light", stored.Notes)
	s.Equal("snap calls with draws", stored.Tells)
	s.Equal(alice.UserID, stored.CreatedBy)
	s.Equal(alice.UserID, stored.UpdatedBy)
	s.Equal(s.clock.Now(), stored.CreatedAt)
	s.Equal(int64(0), stored.Version)
}

func (s *ServiceSuite) TestCreateDefaultsPlayStyle() {
	player := s.create("shark99", "")
	s.Equal(model.PlayStyleBalanced, player.PlayStyle)
}

func (s *ServiceSuite) TestCreateRequiresGameID() {
	for _, gameID := range []string{"", "   "} {
		_, err := s.service.Create(s.ctx, alice, CreateInput{GameID: gameID})
		s.requireKind(err, KindValidation)
		s.EqualError(err, "game id is required")
	}

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ServiceSuite) TestCreateRejectsUnknownPlayStyle() {
	_, err := s.service.Create(s.ctx, alice, CreateInput{GameID: "shark99", PlayStyle: "maniac"})
	s.requireKind(err, KindValidation)
	s.ErrorIs(err, model.ErrInvalidPlayStyle)
}

func (s *ServiceSuite) TestCreateDuplicateGameID() {
	s.create("shark99", "")

	_, err := s.service.Create(s.ctx, bob, CreateInput{GameID: "shark99"})
	s.requireKind(err, KindAlreadyExists)
	s.EqualError(err, "a player with this game id already exists")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SaveFailures.WithLabelValues("already_exists")))
}

func (s *ServiceSuite) TestCreateMissingSchema() {
	service := s.newService(&failingStorage{Storage: s.storage, err: errors.New(`ERROR: relation "players" does not exist (SQLSTATE 42P01)`)}, DefaultMaxAttempts)

	_, err := service.Create(s.ctx, alice, CreateInput{GameID: "shark99"})
	s.requireKind(err, KindNotInitialized)
	s.EqualError(err, "database is not initialized; contact an administrator")
}

func (s *ServiceSuite) TestCreateUnknownFailureCarriesMessage() {
	service := s.newService(&failingStorage{Storage: s.storage, err: errors.New("connection refused")}, DefaultMaxAttempts)

	_, err := service.Create(s.ctx, alice, CreateInput{GameID: "shark99"})
	s.requireKind(err, KindUnknown)
	s.EqualError(err, "failed to save: connection refused")
}

func (s *ServiceSuite) TestReadFailuresAreNotReportedAsSaves() {
	service := s.newService(&failingStorage{Storage: s.storage, err: errors.New("connection refused")}, DefaultMaxAttempts)

	_, err := service.List(s.ctx, "")
	s.requireKind(err, KindUnknown)
	s.EqualError(err, "failed to load players: connection refused")

	_, err = service.Stats(s.ctx)
	s.EqualError(err, "failed to load players: connection refused")
}

// Edit tests

func (s *ServiceSuite) TestCreateThenEditAppendsAttributedEntry() {
	player := s.create("shark99", "  opens wide from the button ")

	s.clock.Advance(time.Hour)
	updated, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{
		Nickname:  "Nick",
		PlayStyle: "balanced",
		NewNotes:  "  folds to 4-bets ",
	})
	s.Require().NoError(err)

	s.Equal("opens wide from the button\n\n[2024/1/1 22:00:05 - Bob]\nfolds to 4-bets", updated.Notes)
	s.Equal("", updated.Tells)

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(updated.Notes, stored.Notes)
	s.Equal(int64(1), stored.Version)
}

func (s *ServiceSuite) TestEditAppendsToEmptyLogWithoutSeparator() {
	player := s.create("shark99", "")

	updated, err := s.service.Edit(s.ctx, alice, player.ID, EditInput{NewTells: "taps the table"})
	s.Require().NoError(err)
	s.Equal("[2024/1/1 21:00:05 - Alice]\ntaps the table", updated.Tells)
}

func (s *ServiceSuite) TestEditBlankFragmentsLeaveLogsUnchanged() {
	player := s.create("shark99", "first read")

	updated, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{
		Nickname:  "Renamed",
		PlayStyle: "tight",
		NewNotes:  "   ",
		NewTells:  "\n",
	})
	s.Require().NoError(err)

	s.Equal("first read", updated.Notes)
	s.Equal("", updated.Tells)
	s.Equal("Renamed", updated.Nickname)
	s.Equal(model.PlayStyleTight, updated.PlayStyle)
	s.Equal(0.0, testutil.ToFloat64(s.metrics.EntriesAppended.WithLabelValues("notes")))
}

func (s *ServiceSuite) TestEditReplacesFieldsWholesale() {
	player, err := s.service.Create(s.ctx, alice, CreateInput{GameID: "shark99", Nickname: "Sharky", PlayStyle: "loose"})
	s.Require().NoError(err)

	updated, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{Nickname: "", PlayStyle: ""})
	s.Require().NoError(err)
	s.Equal("", updated.Nickname)
	s.Equal(model.PlayStyleBalanced, updated.PlayStyle)
}

func (s *ServiceSuite) TestEditKeepsCreatorAndGameID() {
	player := s.create("shark99", "")

	updated, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "hi"})
	s.Require().NoError(err)

	s.Equal("shark99", updated.GameID)
	s.Equal(alice.UserID, updated.CreatedBy)
	s.Equal(bob.UserID, updated.UpdatedBy)
	s.Equal(player.CreatedAt, updated.CreatedAt)
}

func (s *ServiceSuite) TestEditUsesCurrentProfileNickname() {
	player := s.create("shark99", "")

	_, err := s.profiles.Rename(s.ctx, bob, "Robert")
	s.Require().NoError(err)

	// the session still carries the old nickname
	updated, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "limps a lot"})
	s.Require().NoError(err)
	s.Equal("[2024/1/1 21:00:05 - Robert]\nlimps a lot", updated.Notes)
}

func (s *ServiceSuite) TestEditWithoutProfileUsesSessionNickname() {
	player := s.create("shark99", "")

	updated, err := s.service.Edit(s.ctx, model.Identity{UserID: "user-carol", Nickname: "Carol"}, player.ID, EditInput{NewNotes: "x"})
	s.Require().NoError(err)
	s.Equal("[2024/1/1 21:00:05 - Carol]\nx", updated.Notes)
}

func (s *ServiceSuite) TestEditNotFound() {
	_, err := s.service.Edit(s.ctx, alice, "missing", EditInput{NewNotes: "x"})
	s.requireKind(err, KindNotFound)
}

func (s *ServiceSuite) TestEditRejectsUnknownPlayStyle() {
	player := s.create("shark99", "")

	_, err := s.service.Edit(s.ctx, alice, player.ID, EditInput{PlayStyle: "maniac"})
	s.requireKind(err, KindValidation)
}

func (s *ServiceSuite) TestEditStaleExpectedVersionConflicts() {
	player := s.create("shark99", "")
	_, err := s.service.Edit(s.ctx, alice, player.ID, EditInput{NewNotes: "first"})
	s.Require().NoError(err)

	stale := int64(0)
	_, err = s.service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "second", ExpectedVersion: &stale})
	s.requireKind(err, KindConflict)

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.NotContains(stored.Notes, "second")
}

func (s *ServiceSuite) TestEditMatchingExpectedVersion() {
	player := s.create("shark99", "")

	current := int64(0)
	updated, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "ok", ExpectedVersion: &current})
	s.Require().NoError(err)
	s.Equal(int64(1), updated.Version)
}

func (s *ServiceSuite) TestEditReappliesAfterConcurrentUpdate() {
	player := s.create("shark99", "base")

	racing := &racingStorage{Storage: s.storage}
	racing.interfere = func() {
		other := s.newService(s.storage, DefaultMaxAttempts)
		_, err := other.Edit(s.ctx, alice, player.ID, EditInput{NewNotes: "from alice"})
		s.Require().NoError(err)
	}
	service := s.newService(racing, DefaultMaxAttempts)

	updated, err := service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "from bob"})
	s.Require().NoError(err)

	s.Equal("base\n\n[2024/1/1 21:00:05 - Alice]\nfrom alice\n\n[2024/1/1 21:00:05 - Bob]\nfrom bob", updated.Notes)
	s.Equal(int64(2), updated.Version)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AppendRetries))
}

func (s *ServiceSuite) TestEditGivesUpAfterMaxAttempts() {
	player := s.create("shark99", "")

	racing := &racingStorage{Storage: s.storage}
	racing.interfere = func() {
		_, err := s.service.Edit(s.ctx, alice, player.ID, EditInput{NewNotes: "interloper"})
		s.Require().NoError(err)
	}
	service := s.newService(racing, 1)

	_, err := service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "lost"})
	s.requireKind(err, KindConflict)
}

func (s *ServiceSuite) TestConcurrentEditsAllSurvive() {
	player := s.create("shark99", "")
	service := s.newService(s.storage, 100)

	const writers = 5
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Edit(s.ctx, alice, player.ID, EditInput{NewNotes: fmt.Sprintf("note %d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(int64(writers), stored.Version)

	entries := entrylog.Parse(stored.Notes)
	s.Require().Len(entries, writers)
	bodies := make([]string, 0, writers)
	for _, e := range entries {
		bodies = append(bodies, e.Text())
	}
	s.ElementsMatch([]string{"note 0", "note 1", "note 2", "note 3", "note 4"}, bodies)
}

func (s *ServiceSuite) TestEditRecordsMetrics() {
	player := s.create("shark99", "")

	_, err := s.service.Edit(s.ctx, alice, player.ID, EditInput{NewNotes: "a", NewTells: "b"})
	s.Require().NoError(err)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.PlayersSaved.WithLabelValues("create")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PlayersSaved.WithLabelValues("edit")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.EntriesAppended.WithLabelValues("notes")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.EntriesAppended.WithLabelValues("tells")))
}

// Read tests

func (s *ServiceSuite) TestViewParsesLogs() {
	player := s.create("shark99", "legacy text")
	_, err := s.service.Edit(s.ctx, bob, player.ID, EditInput{NewNotes: "new read", NewTells: "shaky hands"})
	s.Require().NoError(err)

	view, err := s.service.View(s.ctx, player.ID)
	s.Require().NoError(err)

	s.Equal([]entrylog.Entry{
		entrylog.Legacy{Body: "legacy text"},
		entrylog.Attributed{Timestamp: "2024/1/1 21:00:05", Author: "Bob", Body: "new read"},
	}, view.Notes)
	s.Equal([]entrylog.Entry{
		entrylog.Attributed{Timestamp: "2024/1/1 21:00:05", Author: "Bob", Body: "shaky hands"},
	}, view.Tells)
	s.Equal("Alice", view.CreatorNickname)
	s.Equal("Bob", view.UpdaterNickname)
}

func (s *ServiceSuite) TestViewUnknownCreator() {
	player, err := s.service.Create(s.ctx, model.Identity{UserID: "user-gone"}, CreateInput{GameID: "shark99"})
	s.Require().NoError(err)

	view, err := s.service.View(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(profiles.UnknownNickname, view.CreatorNickname)
	s.Empty(view.Notes)
}

func (s *ServiceSuite) TestViewNotFound() {
	_, err := s.service.View(s.ctx, "missing")
	s.requireKind(err, KindNotFound)
}

func (s *ServiceSuite) TestViewByGameID() {
	player := s.create("shark99", "legacy text")

	view, err := s.service.ViewByGameID(s.ctx, "  shark99 ")
	s.Require().NoError(err)
	s.Equal(player.ID, view.Player.ID)
	s.Equal([]entrylog.Entry{entrylog.Legacy{Body: "legacy text"}}, view.Notes)
	s.Equal("Alice", view.CreatorNickname)
}

func (s *ServiceSuite) TestViewByGameIDErrors() {
	_, err := s.service.ViewByGameID(s.ctx, "missing")
	s.requireKind(err, KindNotFound)

	_, err = s.service.ViewByGameID(s.ctx, "  ")
	s.requireKind(err, KindValidation)
}

func (s *ServiceSuite) TestListMostRecentFirst() {
	first := s.create("first", "")
	s.clock.Advance(time.Minute)
	s.create("second", "")
	s.clock.Advance(time.Minute)
	_, err := s.service.Edit(s.ctx, alice, first.ID, EditInput{NewNotes: "bump"})
	s.Require().NoError(err)

	players, err := s.service.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal("first", players[0].GameID)
	s.Equal("second", players[1].GameID)
}

func (s *ServiceSuite) TestListSearch() {
	_, err := s.service.Create(s.ctx, alice, CreateInput{GameID: "SharkAttack", Nickname: "Tom"})
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, alice, CreateInput{GameID: "fish01", Nickname: "Big Shark"})
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, alice, CreateInput{GameID: "rock", Nickname: "Nit"})
	s.Require().NoError(err)

	players, err := s.service.List(s.ctx, "  sHaRk ")
	s.Require().NoError(err)
	s.Len(players, 2)

	players, err = s.service.List(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *ServiceSuite) TestListMissingSchema() {
	service := s.newService(&failingStorage{Storage: s.storage, err: errors.New("no such table: players")}, DefaultMaxAttempts)

	_, err := service.List(s.ctx, "")
	s.requireKind(err, KindNotInitialized)
}

func (s *ServiceSuite) TestStatsEmpty() {
	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, stats.Total)
	s.Equal(model.PlayStyle(""), stats.MostCommonStyle)
}

func (s *ServiceSuite) TestStatsMostCommonStyle() {
	for i, style := range []string{"tight", "loose", "tight", "aggressive"} {
		_, err := s.service.Create(s.ctx, alice, CreateInput{GameID: fmt.Sprintf("p%d", i), PlayStyle: style})
		s.Require().NoError(err)
		s.clock.Advance(time.Second)
	}

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, stats.Total)
	s.Equal(model.PlayStyleTight, stats.MostCommonStyle)
}

func (s *ServiceSuite) TestStatsTieGoesToMostRecent() {
	_, err := s.service.Create(s.ctx, alice, CreateInput{GameID: "a", PlayStyle: "tight"})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	_, err = s.service.Create(s.ctx, alice, CreateInput{GameID: "b", PlayStyle: "loose"})
	s.Require().NoError(err)

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayStyleLoose, stats.MostCommonStyle)
}
