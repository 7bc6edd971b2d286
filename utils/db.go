package utils

import (
	"context"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// slowQueryLogger GORM 日志器：feed 和会话聚合查询量大，
// 只打印超过阈值的慢查询和真实错误，其余全部静默
type slowQueryLogger struct {
	threshold time.Duration
}

func (l *slowQueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *slowQueryLogger) Info(ctx context.Context, msg string, data ...interface{}) {}

func (l *slowQueryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {}

func (l *slowQueryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	// record not found 是正常业务分支（登录、关注状态查询），不算错误
	if msg != "record not found" {
		log.Printf("[ERROR] gorm: "+msg, data...)
	}
}

func (l *slowQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && err.Error() != "record not found" {
		log.Printf("[ERROR] gorm: %s [%v] [rows:%d] %s", err, elapsed, rows, sql)
	} else if elapsed >= l.threshold {
		log.Printf("[SLOW SQL] [%v] [rows:%d] %s", elapsed, rows, sql)
	}
}

// InitDB 初始化数据库连接
func InitDB(databaseURL string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: &slowQueryLogger{threshold: 100 * time.Millisecond},
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 计数重算都是同事务多语句，连接池要留足余量
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ Database connected")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

// CloseDB 关闭数据库连接
func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
