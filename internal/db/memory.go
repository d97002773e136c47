package db

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PpaulaPulido/karaoke-reservations/internal/config"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

// NewMemoryDB открывает отдельную sqlite-базу в памяти с применёнными миграциями.
// Одно соединение: все запросы внутри транзакции обязаны идти через неё.
func NewMemoryDB() (*gorm.DB, error) {
	cfg := &config.DBConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	gdb, err := NewGormDB(cfg)
	if err != nil {
		return nil, err
	}
	gdb.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	if err := model.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return gdb, nil
}
