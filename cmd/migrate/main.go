package main

import (
	"fmt"
	"os"

	"github.com/trackdays/api/pkg/config"
	"github.com/trackdays/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := runMigrations(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if err := seedReferenceData(db); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}
