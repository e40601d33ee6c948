package db

import (
	"log"
	"path/filepath"
	"time"

	"mimbar/config"
	"mimbar/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// schemaVersion bumps whenever the model set changes. Migration runs only
// when the stored version is behind, so concurrent instances sharing one
// database do not race each other through AutoMigrate.
const schemaVersion = 1

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect opens the database (sqlite3 by default) and brings the schema up
// to date if needed.
func Connect() (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		log.Println("Connecting to postgresql...")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		log.Println("Connecting to sqlite3...")
		dir := filepath.Dir("db/database.db")
		db, err = gorm.Open("sqlite3", dir+"/database.db")
	}

	if err != nil {
		log.Println("Got error when connect database, the error is: " + err.Error())
		return nil, err
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies AutoMigrate when the persisted schema version is behind
// the one this binary was built for.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SchemaVersion{}).Error; err != nil {
		return err
	}

	var current models.SchemaVersion
	err := db.Order("version desc").First(&current).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return err
	}
	if current.Version >= schemaVersion {
		return nil
	}

	log.Printf("Migrating schema from version %d to %d", current.Version, schemaVersion)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Masjid{},
		&models.Review{},
		&models.WebhookLog{},
	).Error; err != nil {
		return err
	}

	now := time.Now()
	return db.Create(&models.SchemaVersion{Version: schemaVersion, AppliedAt: &now}).Error
}
