package db

import "time"

// PortfolioItem 定义摄影作品集图片模型
type PortfolioItem struct {
	Record
	Title     string    `gorm:"size:200;not null" json:"title"`
	Category  string    `gorm:"size:100;not null;index" json:"category"`
	Src       string    `gorm:"size:500;not null" json:"src"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 返回自定义表名
func (PortfolioItem) TableName() string {
	return "portfolio_items"
}
