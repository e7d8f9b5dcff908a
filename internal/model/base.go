package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 自增主键加时间戳，所有落库实体内嵌（位置流水单独用雪花主键）
type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
