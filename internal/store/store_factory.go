package store

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"wallet_live/internal/config"
	"wallet_live/internal/db"
	"wallet_live/internal/repository"
	"wallet_live/internal/store/memory"
	"wallet_live/internal/store/mysql"
	"wallet_live/internal/store/sqlite"
)

// NewStore picks the history backend: MySQL when a DSN is set, then a
// SQLite file, then process memory.
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.NotificationRepository, error) {
	switch {
	case cfg.MySQLDSN != "":
		sqlDB, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Error("mysql open failed", zap.Error(err))
			return nil, err
		}
		if err := sqlDB.Ping(); err != nil {
			logger.Error("mysql ping failed", zap.Error(err))
			return nil, err
		}
		logger.Info("notification history backend", zap.String("backend", "mysql"))
		return mysql.New(db.New(sqlDB), logger), nil
	case cfg.SQLitePath != "":
		s, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			logger.Error("sqlite open failed", zap.String("path", cfg.SQLitePath), zap.Error(err))
			return nil, err
		}
		logger.Info("notification history backend", zap.String("backend", "sqlite"), zap.String("path", cfg.SQLitePath))
		return s, nil
	default:
		logger.Info("notification history backend", zap.String("backend", "memory"))
		return memory.New(logger), nil
	}
}
