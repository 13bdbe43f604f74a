package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PolicyDocument struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"type:text;not null"`
	Category  string         `gorm:"type:varchar(100);index"`
	Content   string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PolicyDocument) TableName() string {
	return "policy_documents"
}
