package persistence

import (
	"github.com/guregu/null/v5"
	"gorm.io/gorm"
)

// UserRow is the persisted form of domain.User.
type UserRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:255"`
	Email      string `gorm:"size:255;not null;uniqueIndex"`
	Password   string `gorm:"size:255"`
	Department string `gorm:"size:255"`
	Role       string `gorm:"size:16;not null"`
}

// TableName pins the table name.
func (UserRow) TableName() string { return "users" }

// TicketRow is the persisted form of domain.Ticket. CreatedAt holds a
// fixed-width ISO timestamp string.
type TicketRow struct {
	ID         int64    `gorm:"primaryKey;autoIncrement"`
	UserID     null.Int `gorm:"type:bigint;index"`
	Name       string   `gorm:"size:255"`
	Department string   `gorm:"size:255"`
	Issue      string   `gorm:"type:text"`
	Priority   string   `gorm:"size:16;not null"`
	Status     string   `gorm:"size:32;not null"`
	CreatedAt  string   `gorm:"size:32;not null;index"`
}

// TableName pins the table name.
func (TicketRow) TableName() string { return "tickets" }

func createSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(&UserRow{}, &TicketRow{})
}
