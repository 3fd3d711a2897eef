package db

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSetting 存储首页各区块的展示配置，每个 key 一行，Value 为 JSON 对象。
// 三行记录在迁移时补齐，之后只允许更新。
type SiteSetting struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	Key       string         `gorm:"size:40;uniqueIndex;not null" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName 自定义表名以保持命名一致。
func (SiteSetting) TableName() string {
	return "site_settings"
}

const (
	// SettingKeyHero 首屏区块。
	SettingKeyHero = "hero"
	// SettingKeyAbout 关于我区块。
	SettingKeyAbout = "about"
	// SettingKeyFooter 页脚区块。
	SettingKeyFooter = "footer"
)

// SettingKeys 列出全部合法的设置 key。
var SettingKeys = []string{SettingKeyHero, SettingKeyAbout, SettingKeyFooter}
