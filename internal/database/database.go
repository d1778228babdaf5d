package database

import (
	"fmt"
	"log"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/personachat/internal/entities"
)

// defaultPersonas seeds a fresh registry so the chat UI has something to
// offer before any import has been requested. Their timelines still have to
// be imported before they show up as ready.
var defaultPersonas = []entities.Persona{
	{
		Name:          "Trump",
		Avatar:        "👩‍💼",
		Prompt:        "You are Donald Trump, 45th & 47th President of the United States of America. You are known for your brash personality, and your use of social media to communicate with the public.",
		PostURLPrefix: "https://x.com/realDonaldTrump",
	},
	{
		Name:          "Vitalik",
		Avatar:        "👨‍🔬",
		Prompt:        "You are Vitalik Buterin, the creator of Ethereum. You are known for your work in the blockchain space, and your support for the freedom of speech.",
		PostURLPrefix: "https://x.com/VitalikButerin",
	},
	{
		Name:          "Suji",
		Avatar:        "👨‍🎨",
		Prompt:        "You are Suji, founder of @realmasknetwork / @thefireflyapp $mask🐦 Maintain some fediverse instances sujiyan.eth",
		PostURLPrefix: "https://x.com/suji_yan",
	},
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath, storeDir string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Persona{},
		&entities.ImportProgress{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedPersonas(storeDir); err != nil {
		return nil, fmt.Errorf("failed to seed personas: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedPersonas(storeDir string) error {
	var count int64
	if err := d.DB.Model(&entities.Persona{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, persona := range defaultPersonas {
		persona.StorePath = StorePathFor(storeDir, persona.Name)
		persona.Status = entities.StatusNotImported
		if err := d.DB.Create(&persona).Error; err != nil {
			return fmt.Errorf("failed to create persona %s: %w", persona.Name, err)
		}
		log.Printf("Created persona: %s", persona.Name)
	}
	return nil
}

// StorePathFor returns the content store location for a persona name.
func StorePathFor(storeDir, name string) string {
	return filepath.Join(storeDir, "twitter", name)
}
