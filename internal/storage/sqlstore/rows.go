package sqlstore

import (
	"time"

	"github.com/mcoot/pokernotes/internal/model"
)

type playerRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	GameID    string    `gorm:"uniqueIndex;not null;type:varchar(255)"`
	Nickname  string    `gorm:"not null"`
	PlayStyle string    `gorm:"not null;type:varchar(32)"`
	Notes     string    `gorm:"type:text"`
	Tells     string    `gorm:"type:text"`
	CreatedBy string    `gorm:"type:varchar(64)"`
	UpdatedBy string    `gorm:"type:varchar(64)"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false;index"`
	Version   int64     `gorm:"not null;default:0"`
}

func (playerRow) TableName() string { return "players" }

func newPlayerRow(p *model.Player) *playerRow {
	return &playerRow{
		ID:        string(p.ID),
		GameID:    p.GameID,
		Nickname:  p.Nickname,
		PlayStyle: string(p.PlayStyle),
		Notes:     p.Notes,
		Tells:     p.Tells,
		CreatedBy: string(p.CreatedBy),
		UpdatedBy: string(p.UpdatedBy),
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
		Version:   p.Version,
	}
}

func (r *playerRow) toModel() *model.Player {
	return &model.Player{
		ID:        model.PlayerID(r.ID),
		GameID:    r.GameID,
		Nickname:  r.Nickname,
		PlayStyle: model.PlayStyle(r.PlayStyle),
		Notes:     r.Notes,
		Tells:     r.Tells,
		CreatedBy: model.UserID(r.CreatedBy),
		UpdatedBy: model.UserID(r.UpdatedBy),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Version:   r.Version,
	}
}

type profileRow struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)"`
	ID        string    `gorm:"type:varchar(64)"`
	Nickname  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (profileRow) TableName() string { return "profiles" }

func (r *profileRow) toModel() *model.Profile {
	return &model.Profile{
		ID:        r.ID,
		UserID:    model.UserID(r.UserID),
		Nickname:  r.Nickname,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type accountRow struct {
	Email        string    `gorm:"primaryKey;type:varchar(255)"`
	UserID       string    `gorm:"uniqueIndex;type:varchar(64)"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
}

func (accountRow) TableName() string { return "accounts" }

func (r *accountRow) toModel() *model.Account {
	return &model.Account{
		UserID:       model.UserID(r.UserID),
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}
