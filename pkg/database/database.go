package database

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedChallenges(db)

	return db, nil
}

// Migrate runs the schema migration for every model the service owns.
// Shared with the test suite, which runs it against in-memory sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.ChallengeSession{},
		&model.CodeSubmission{},
		&model.UserProgress{},
		&model.ChallengeProgress{},
		&model.Achievement{},
		&model.AIConversation{},
		&model.AIMessage{},
	)
}

// seedChallenges inserts a starter mission set on an empty database.
func seedChallenges(db *gorm.DB) {
	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Challenge{
		{Title: "Operation First Contact", Brief: "Print your agent code name to the console.", Category: "python", Difficulty: model.DifficultyBeginner, XPReward: 50, EstimatedMinutes: 5},
		{Title: "Decode the Cipher", Brief: "Use string slicing to recover the hidden message.", Category: "python", Difficulty: model.DifficultyBeginner, XPReward: 100, EstimatedMinutes: 10},
		{Title: "Surveillance Loop", Brief: "Scan the sensor feed with a for loop and count anomalies.", Category: "python", Difficulty: model.DifficultyIntermediate, XPReward: 150, EstimatedMinutes: 15},
		{Title: "Safehouse Homepage", Brief: "Build the agency's cover website with HTML and CSS.", Category: "web", Difficulty: model.DifficultyIntermediate, XPReward: 150, EstimatedMinutes: 20},
		{Title: "Train the Gadget", Brief: "Teach the classifier to tell friend from foe.", Category: "ai", Difficulty: model.DifficultyAdvanced, XPReward: 250, EstimatedMinutes: 30},
	}
	for _, ch := range defaults {
		db.Create(&ch)
	}
}
