package db

import (
	"time"

	"gorm.io/datatypes"
)

// PricingPackage 描述一个报价套餐。Price 只是展示文本，不参与计算。
// Features 以 JSON 数组保存，保持录入顺序。
type PricingPackage struct {
	Record
	Name        string                      `gorm:"size:120;not null" json:"name"`
	Price       string                      `gorm:"size:60;not null" json:"price"`
	Description string                      `gorm:"type:text" json:"description"`
	Features    datatypes.JSONSlice[string] `json:"features"`
	Popular     bool                        `gorm:"default:false" json:"popular"`
	SortOrder   int                         `gorm:"default:0;index" json:"sort_order"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// TableName 返回自定义表名
func (PricingPackage) TableName() string {
	return "pricing_packages"
}
