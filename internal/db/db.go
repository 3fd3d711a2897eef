package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

const (
	// DriverSQLite 使用本地 sqlite 文件。
	DriverSQLite = "sqlite"
	// DriverPostgres 连接托管的 Postgres 实例。
	DriverPostgres = "postgres"
)

// Init 初始化数据库连接并执行自动迁移。
// sqlite 下 target 为文件路径，为空时回退到 lenscraft.db；postgres 下 target 为 DSN。
func Init(driver, target string) error {
	gdb, err := Open(driver, target, &gorm.Config{})
	if err != nil {
		return err
	}
	if err := Migrate(gdb); err != nil {
		return err
	}
	DB = gdb
	return nil
}

// Open 按驱动打开连接，不做迁移。
func Open(driver, target string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverPostgres:
		dsn := strings.TrimSpace(target)
		if dsn == "" {
			return nil, errors.New("postgres dsn is required")
		}
		return gorm.Open(postgres.Open(dsn), cfg)
	case DriverSQLite, "":
		path := strings.TrimSpace(target)
		if path == "" {
			path = "lenscraft.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return gorm.Open(sqlite.Open(path), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate 为所有模型建表，并补齐三条站点设置记录。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&AdminAccount{},
		&PortfolioItem{},
		&PricingPackage{},
		&Testimonial{},
		&Skill{},
		&Equipment{},
		&Award{},
		&SiteSetting{},
		&BookingSubmission{},
		&ContactSubmission{},
	); err != nil {
		return err
	}

	return ensureSettingRows(gdb)
}

// ensureSettingRows 只在缺失时插入 hero/about/footer，已有内容保持不变。
func ensureSettingRows(gdb *gorm.DB) error {
	for _, key := range SettingKeys {
		row := SiteSetting{Key: key, Value: datatypes.JSON("{}")}
		if err := gdb.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
