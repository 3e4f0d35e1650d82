// Package sqlstore is a relational implementation of the storage interface on gorm,
// supporting SQLite and Postgres.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/storage"
)

// Storage is a SQL-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// Open connects to the configured database, migrating the schema if enabled
func Open(cfg Config) (*Storage, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver != DriverPostgres {
		// SQLite allows one writer; serialising also keeps ":memory:" on a single database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &Storage{db: db}
	if cfg.AutoMigrate {
		if err := s.Migrate(context.Background()); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// NewWithDB wraps an existing gorm connection
func NewWithDB(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// Migrate creates or updates the tables
func (s *Storage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&playerRow{}, &profileRow{}, &accountRow{})
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	err := s.db.WithContext(ctx).Create(newPlayerRow(player)).Error
	return translate(err, model.ErrDuplicateGameID)
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player, expectedVersion int64) error {
	newVersion := expectedVersion + 1
	result := s.db.WithContext(ctx).
		Model(&playerRow{}).
		Where("id = ? AND version = ?", string(player.ID), expectedVersion).
		Updates(map[string]any{
			"nickname":   player.Nickname,
			"play_style": string(player.PlayStyle),
			"notes":      player.Notes,
			"tells":      player.Tells,
			"updated_by": string(player.UpdatedBy),
			"updated_at": player.UpdatedAt.UTC(),
			"version":    newVersion,
		})
	if result.Error != nil {
		return translate(result.Error, model.ErrDuplicateGameID)
	}

	if result.RowsAffected == 0 {
		if _, err := s.GetPlayer(ctx, player.ID); err != nil {
			return err
		}
		return model.ErrVersionConflict
	}

	player.Version = newVersion
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.findPlayer(ctx, "id = ?", string(id))
}

func (s *Storage) GetPlayerByGameID(ctx context.Context, gameID string) (*model.Player, error) {
	return s.findPlayer(ctx, "game_id = ?", gameID)
}

func (s *Storage) findPlayer(ctx context.Context, query string, arg any) (*model.Player, error) {
	var row playerRow
	err := s.db.WithContext(ctx).Where(query, arg).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, translate(err, model.ErrDuplicateGameID)
	}
	return row.toModel(), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	var rows []playerRow
	err := s.db.WithContext(ctx).Order("updated_at desc").Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, translate(err, model.ErrDuplicateGameID)
	}

	players := make([]*model.Player, len(rows))
	for i := range rows {
		players[i] = rows[i].toModel()
	}
	return players, nil
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	row := &profileRow{
		UserID:    string(profile.UserID),
		ID:        profile.ID,
		Nickname:  profile.Nickname,
		CreatedAt: profile.CreatedAt.UTC(),
		UpdatedAt: profile.UpdatedAt.UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname", "updated_at"}),
	}).Create(row).Error
	return translate(err, err)
}

func (s *Storage) GetProfile(ctx context.Context, userID model.UserID) (*model.Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Where("user_id = ?", string(userID)).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProfileNotFound
		}
		return nil, translate(err, err)
	}
	return row.toModel(), nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	var rows []profileRow
	if err := s.db.WithContext(ctx).Order("user_id asc").Find(&rows).Error; err != nil {
		return nil, translate(err, err)
	}

	profiles := make([]*model.Profile, len(rows))
	for i := range rows {
		profiles[i] = rows[i].toModel()
	}
	return profiles, nil
}

// Account operations

func (s *Storage) CreateAccount(ctx context.Context, account *model.Account) error {
	row := &accountRow{
		Email:        account.Email,
		UserID:       string(account.UserID),
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt.UTC(),
	}
	return translate(s.db.WithContext(ctx).Create(row).Error, model.ErrEmailExists)
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrAccountNotFound
		}
		return nil, translate(err, model.ErrEmailExists)
	}
	return row.toModel(), nil
}

func (s *Storage) DeleteAccount(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).Where("email = ?", email).Delete(&accountRow{}).Error
	return translate(err, err)
}
