package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mindscreen/internal/config"
	"mindscreen/internal/logging"
	"mindscreen/internal/models"
)

var DB *gorm.DB

// Init opens the Postgres connection and runs migrations. A blank database
// host means the deployment runs without Postgres; history then falls back
// to the file-backed stores and DB stays nil.
func Init(log *zap.Logger) {
	dbConf := config.Conf.Database
	if dbConf.Host == "" {
		log.Warn("No database host configured, running with local storage only.")
		return
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	gormLogger := logging.NewGormLogger(log)
	gormLogger.LogLevel = logger.Warn

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// AutoMigrate creates tables, columns, and foreign keys. Custom indexes
	// are handled separately below.
	err := DB.AutoMigrate(
		&models.User{},
		&models.AssessmentState{},
		&models.StoredResult{},
		&models.InteractionLogRow{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	logIndex := `CREATE INDEX IF NOT EXISTS idx_interaction_logs_query ON interaction_log_rows (assessment_id, task_id, created_at DESC);`
	if err := DB.Exec(logIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on interaction logs", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
