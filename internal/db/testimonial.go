package db

import "time"

// Testimonial 客户评价，Rating 取值 1-5
type Testimonial struct {
	Record
	Name      string    `gorm:"size:120;not null" json:"name"`
	Role      string    `gorm:"size:120" json:"role"`
	Image     string    `gorm:"size:500" json:"image"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Rating    int       `gorm:"default:5" json:"rating"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 返回自定义表名
func (Testimonial) TableName() string {
	return "testimonials"
}
