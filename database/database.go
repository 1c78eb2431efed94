package database

import (
	"fmt"
	"os"
	"strconv"

	"bookie/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}

	DB = db
	zap.L().Info("connected to database", zap.String("host", host), zap.String("db", name))

	autoMigrate, _ := strconv.ParseBool(os.Getenv("DB_AUTO_MIGRATE"))
	if autoMigrate {
		if err := Migrate(DB); err != nil {
			zap.L().Fatal("failed to auto-migrate database", zap.Error(err))
		}
		zap.L().Info("auto migration completed")
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.TransactionHistory{},
		&models.Book{},
		&models.Team{},
		&models.Event{},
		&models.Outcome{},
		&models.Bet{},
	)
}
