package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/lenscraft/internal/config"
	"github.com/lenscraft/internal/db"
	"github.com/lenscraft/internal/service"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// seedFile 是示例内容文件的结构，列表项的字段名与接口请求体一致。
type seedFile struct {
	Settings     map[string]map[string]any `yaml:"settings"`
	Portfolio    []map[string]any          `yaml:"portfolio"`
	Pricing      []map[string]any          `yaml:"pricing"`
	Testimonials []map[string]any          `yaml:"testimonials"`
	Skills       []map[string]any          `yaml:"skills"`
	Equipment    []map[string]any          `yaml:"equipment"`
	Awards       []map[string]any          `yaml:"awards"`
}

func (f seedFile) records(kind string) []map[string]any {
	switch kind {
	case service.KindPortfolio.Name:
		return f.Portfolio
	case service.KindPricing.Name:
		return f.Pricing
	case service.KindTestimonials.Name:
		return f.Testimonials
	case service.KindSkills.Name:
		return f.Skills
	case service.KindEquipment.Name:
		return f.Equipment
	case service.KindAwards.Name:
		return f.Awards
	default:
		return nil
	}
}

func loadSeedFile(path string) (seedFile, error) {
	var data seedFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}

// seeder 只写入空表与未填写的设置区块，重复运行不会产生重复数据。
type seeder struct {
	db       *gorm.DB
	catalog  *service.Catalog
	settings *service.SettingsService
	out      io.Writer
}

func newSeeder(gdb *gorm.DB, out io.Writer) *seeder {
	return &seeder{
		db:       gdb,
		catalog:  service.NewCatalog(gdb),
		settings: service.NewSettingsService(gdb),
		out:      out,
	}
}

func (s *seeder) run(ctx context.Context, data seedFile) error {
	for _, kind := range s.catalog.Kinds() {
		if kind.Submission {
			continue
		}
		if err := s.seedKind(ctx, kind, data.records(kind.Name)); err != nil {
			return err
		}
	}

	for _, key := range db.SettingKeys {
		section, ok := data.Settings[key]
		if !ok {
			continue
		}
		if err := s.seedSettings(ctx, key, section); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedKind(ctx context.Context, kind service.Kind, items []map[string]any) error {
	if len(items) == 0 {
		return nil
	}
	col, err := s.catalog.Lookup(kind.Name)
	if err != nil {
		return err
	}

	existing, err := col.Count(ctx, service.ListFilter{})
	if err != nil {
		return err
	}
	if existing > 0 {
		fmt.Fprintf(s.out, "%s 已有 %d 条记录，跳过\n", kind.Label, existing)
		return nil
	}

	// 先全部校验，避免写入一半
	validated := make([]map[string]any, 0, len(items))
	for i, item := range items {
		fields, err := kind.Create.ValidateMap(ctx, item)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", kind.Name, i, err)
		}
		validated = append(validated, fields)
	}
	for i, fields := range validated {
		if _, err := col.Create(ctx, fields); err != nil {
			return fmt.Errorf("%s[%d]: %w", kind.Name, i, err)
		}
	}
	fmt.Fprintf(s.out, "✅ %s: %d\n", kind.Label, len(validated))
	return nil
}

func (s *seeder) seedSettings(ctx context.Context, key string, section map[string]any) error {
	var row db.SiteSetting
	if err := s.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		return fmt.Errorf("settings %s: %w", key, err)
	}
	switch strings.TrimSpace(string(row.Value)) {
	case "", "{}", "null":
	default:
		fmt.Fprintf(s.out, "设置 %s 已填写，跳过\n", key)
		return nil
	}

	sectionSchema, err := service.SettingsSchema(key)
	if err != nil {
		return err
	}
	fields, err := sectionSchema.ValidateMap(ctx, section)
	if err != nil {
		return fmt.Errorf("settings %s: %w", key, err)
	}
	if err := s.settings.Update(ctx, key, fields); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "✅ 设置 %s\n", key)
	return nil
}

// 示例数据生成器
func main() {
	cfg := config.Load()

	var path string
	flag.StringVar(&path, "file", cfg.SeedFile, "seed file (YAML)")
	flag.Parse()

	data, err := loadSeedFile(path)
	if err != nil {
		log.Fatal("读取示例数据失败:", err)
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseTarget()); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始写入示例数据...")
	if err := newSeeder(db.DB, os.Stdout).run(context.Background(), data); err != nil {
		log.Fatal("写入示例数据失败:", err)
	}
	fmt.Println("示例数据写入完成！")
}
