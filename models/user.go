package models

import (
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model

	Username      string        `gorm:"uniqueIndex;size:64" json:"username"`
	Role          string        `gorm:"size:16;default:user" json:"role"`
	IsBlocked     bool          `gorm:"default:false" json:"is_blocked"`
	IsChatBlocked bool          `gorm:"default:false" json:"is_chat_blocked"`
	Transactions  []Transaction `gorm:"foreignKey:UserID" json:"-"`
	Bets          []Bet         `gorm:"foreignKey:UserID" json:"-"`
}
