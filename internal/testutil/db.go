// Package testutil 提供测试用的内存数据库等辅助工具
package testutil

import (
	"testing"

	"vidshare/internal/infra/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 创建已迁移的内存 SQLite 数据库，测试结束自动关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 单连接，保证所有查询落在同一个内存库上
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
