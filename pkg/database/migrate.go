package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 将嵌入的 SQL 迁移脚本应用到目标库
// 幂等：已在最新版本时直接返回
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("读取嵌入迁移脚本失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("构建 postgres 迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("创建迁移实例失败: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("应用迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		// dirty 需要人工介入修复，不在启动时自动回退
		logger.Warn("数据库迁移处于 dirty 状态，需人工处理", zap.Uint("version", version))
		return nil
	}
	logger.Info("数据库迁移已就绪", zap.Uint("version", version))

	return nil
}
