package db

// Skill 技能条目，Level 为 0-100 的百分比
type Skill struct {
	Record
	Name      string `gorm:"size:120;not null" json:"name"`
	Level     int    `gorm:"not null" json:"level"`
	SortOrder int    `gorm:"default:0;index" json:"sort_order"`
}

// TableName 返回自定义表名
func (Skill) TableName() string {
	return "skills"
}

// Equipment 器材清单
type Equipment struct {
	Record
	Name        string `gorm:"size:120;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	SortOrder   int    `gorm:"default:0;index" json:"sort_order"`
}

// TableName 返回自定义表名
func (Equipment) TableName() string {
	return "equipment"
}

// Award 获奖记录。Year 为自由文本，不校验年份范围。
type Award struct {
	Record
	Year      string `gorm:"size:20;not null" json:"year"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Category  string `gorm:"size:120" json:"category"`
	SortOrder int    `gorm:"default:0;index" json:"sort_order"`
}

// TableName 返回自定义表名
func (Award) TableName() string {
	return "awards"
}
