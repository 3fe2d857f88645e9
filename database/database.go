package database

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"expensetracker/config"
	"expensetracker/logger"
	"expensetracker/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN 构建 MySQL 连接字符串
// clientFoundRows=true: UPDATE 命中但值未变化时也计入影响行数
func DSN(cfg config.DatabaseConfig) string {
	params := url.Values{}
	params.Set("charset", cfg.Charset)
	params.Set("parseTime", "True")
	params.Set("loc", "Local")
	params.Set("clientFoundRows", "true")
	if cfg.TLS != "" {
		params.Set("tls", cfg.TLS)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		params.Encode(),
	)
}

// NewGormLogger 将 gorm 的 SQL 日志输出到 slog
func NewGormLogger(cfg config.DatabaseConfig) gormlogger.Interface {
	level := gormlogger.Warn
	switch cfg.LogLevel {
	case "silent":
		level = gormlogger.Silent
	case "error":
		level = gormlogger.Error
	case "info":
		level = gormlogger.Info
	}
	slow := time.Duration(cfg.SlowThresholdMs) * time.Millisecond
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	writer := slog.NewLogLogger(slog.Default().Handler(), logger.ParseLevel(cfg.LogLevel))
	return gormlogger.New(writer, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Init 初始化数据库连接池并建表
func Init(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(mysql.Open(DSN(cfg.Database)), &gorm.Config{
		Logger: NewGormLogger(cfg.Database),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 固定大小连接池：连接耗尽时请求排队等待，等待时长由请求上下文的超时控制
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("建表失败: %w", err)
	}

	slog.Info("数据库初始化成功", "max_open_conns", cfg.Database.MaxOpenConns)
	return nil
}

// Migrate 幂等建表：users、categories、expenses 及外键约束
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Expense{},
	)
}

// Close 关闭连接池
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
