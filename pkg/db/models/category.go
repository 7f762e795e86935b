package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a concentration class such as Eau de Parfum or Eau de Toilette.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
