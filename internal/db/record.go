package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record 是所有内容表共享的主键与创建时间。
// ID 使用 UUIDv7，按时间单调递增，因此 "sort_order, id" 排序即可保证插入顺序。
type Record struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate 在插入前分配主键。
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	r.ID = id.String()
	return nil
}
