package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/schema"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HeroSettings 首屏文案与背景图。
type HeroSettings struct {
	Tagline      string `json:"tagline"`
	Heading      string `json:"heading"`
	Subheading   string `json:"subheading"`
	BgImage      string `json:"bg_image"`
	CTAPrimary   string `json:"cta_primary"`
	CTASecondary string `json:"cta_secondary"`
}

// AboutSpecialty 关于区块中的一项擅长领域。
type AboutSpecialty struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// AboutSettings 关于我区块。
type AboutSettings struct {
	Name         string           `json:"name"`
	Subtitle     string           `json:"subtitle"`
	Bio1         string           `json:"bio_1"`
	Bio2         string           `json:"bio_2"`
	ProfileImage string           `json:"profile_image"`
	Specialties  []AboutSpecialty `json:"specialties"`
}

// FooterSettings 页脚联系方式与社交链接。
type FooterSettings struct {
	BrandName    string `json:"brand_name"`
	Tagline      string `json:"tagline"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	InstagramURL string `json:"instagram_url"`
	TwitterURL   string `json:"twitter_url"`
	FacebookURL  string `json:"facebook_url"`
}

// SiteSettings 汇总三个设置区块。
type SiteSettings struct {
	Hero   HeroSettings   `json:"hero"`
	About  AboutSettings  `json:"about"`
	Footer FooterSettings `json:"footer"`
}

var settingsSchemas = map[string]*schema.Schema{
	db.SettingKeyHero: schema.New("hero",
		schema.String("tagline").Default(""),
		schema.String("heading").Default(""),
		schema.Text("subheading").Default(""),
		schema.String("bg_image").Default("").Labeled("Background image URL"),
		schema.String("cta_primary").Default("").Labeled("Primary button"),
		schema.String("cta_secondary").Default("").Labeled("Secondary button"),
	),
	db.SettingKeyAbout: schema.New("about",
		schema.String("name").Default(""),
		schema.String("subtitle").Default(""),
		schema.Text("bio_1").Default("").Labeled("Bio (first paragraph)"),
		schema.Text("bio_2").Default("").Labeled("Bio (second paragraph)"),
		schema.String("profile_image").Default("").Labeled("Profile image URL"),
		schema.ObjectList("specialties",
			schema.String("icon"),
			schema.String("title"),
			schema.String("desc").Labeled("Description"),
		).Default([]any{}),
	),
	db.SettingKeyFooter: schema.New("footer",
		schema.String("brand_name").Default(""),
		schema.String("tagline").Default(""),
		schema.String("address").Default(""),
		schema.String("phone").Default(""),
		schema.String("email").Default(""),
		schema.String("instagram_url").Default("").Labeled("Instagram URL"),
		schema.String("twitter_url").Default("").Labeled("Twitter URL"),
		schema.String("facebook_url").Default("").Labeled("Facebook URL"),
	),
}

// SettingsSchema 返回设置区块的校验规则，每次更新都是整块替换。
func SettingsSchema(key string) (*schema.Schema, error) {
	s, ok := settingsSchemas[key]
	if !ok {
		return nil, ErrUnknownSettingsKey
	}
	return s, nil
}

// SettingsService 读写首页设置。三行记录由迁移补齐，这里只做读取与更新。
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 构造 SettingsService。
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

// Get 读取全部设置。
func (s *SettingsService) Get(ctx context.Context) (SiteSettings, error) {
	result := SiteSettings{About: AboutSettings{Specialties: []AboutSpecialty{}}}

	var rows []db.SiteSetting
	if err := s.db.WithContext(ctx).Where("key IN ?", db.SettingKeys).Find(&rows).Error; err != nil {
		return result, storeError("list", "settings", err)
	}

	for _, row := range rows {
		var target any
		switch row.Key {
		case db.SettingKeyHero:
			target = &result.Hero
		case db.SettingKeyAbout:
			target = &result.About
		case db.SettingKeyFooter:
			target = &result.Footer
		default:
			continue
		}
		if len(row.Value) == 0 {
			continue
		}
		if err := json.Unmarshal(row.Value, target); err != nil {
			return result, storeError("decode", "settings/"+row.Key, err)
		}
	}
	if result.About.Specialties == nil {
		result.About.Specialties = []AboutSpecialty{}
	}
	return result, nil
}

// Section 以字段名为键返回单个区块，缺失的字段用默认值补齐，供后台表单预填。
func (s *SettingsService) Section(ctx context.Context, key string) (map[string]any, error) {
	sectionSchema, err := SettingsSchema(key)
	if err != nil {
		return nil, err
	}

	var row db.SiteSetting
	if err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		return nil, storeError("get", "settings/"+key, err)
	}

	values := sectionSchema.Defaults()
	if len(row.Value) > 0 {
		stored := map[string]any{}
		if err := json.Unmarshal(row.Value, &stored); err != nil {
			return nil, storeError("decode", "settings/"+key, err)
		}
		for name, value := range stored {
			if _, declared := sectionSchema.Field(name); declared {
				values[name] = value
			}
		}
	}
	return values, nil
}

// Update 用已校验的字段整块替换一个区块。
func (s *SettingsService) Update(ctx context.Context, key string, fields map[string]any) error {
	if !slices.Contains(db.SettingKeys, key) {
		return ErrUnknownSettingsKey
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return storeError("update", "settings/"+key, err)
	}

	result := s.db.WithContext(ctx).Model(&db.SiteSetting{}).
		Where("key = ?", key).
		Update("value", datatypes.JSON(raw))
	if result.Error != nil {
		return storeError("update", "settings/"+key, result.Error)
	}
	if result.RowsAffected == 0 {
		return storeError("update", "settings/"+key, fmt.Errorf("settings row %q is missing", key))
	}
	return nil
}
