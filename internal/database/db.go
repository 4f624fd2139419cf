package database

import (
	"bakehouse-backend/internal/config"
	"bakehouse-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.InventoryItem{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.ProductionLog{},
		&models.ProductionLogItem{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("automigrate failed")
	}

	log.Info().Msg("database connected, migrations applied")
}
