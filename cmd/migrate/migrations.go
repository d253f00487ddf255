package main

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trackdays/api/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Track{},
		&models.TrackLayout{},
		&models.CarModel{},
		&models.LapTime{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	if err := enableUUIDExtension(db); err != nil {
		return err
	}
	return db.AutoMigrate(registerModels()...)
}

// enableUUIDExtension ensures UUID generation is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// seedReferenceData inserts the track, layout, and car catalogs. Tracks,
// layouts, and car models are read-only at runtime, so seeding is the only
// write path they have. Idempotent: existing rows are left untouched.
func seedReferenceData(db *gorm.DB) error {
	type seedTrack struct {
		name, slug, country string
		layouts             []string
	}
	tracks := []seedTrack{
		{"Circuit de Spa-Francorchamps", "spa-francorchamps", "Belgium", []string{"Grand Prix"}},
		{"Nürburgring", "nurburgring", "Germany", []string{"Nordschleife", "GP-Strecke", "Combined"}},
		{"Circuit Paul Ricard", "paul-ricard", "France", []string{"1A", "3B Grand Prix"}},
		{"Circuit de Nevers Magny-Cours", "magny-cours", "France", []string{"Grand Prix", "Club"}},
		{"Autodromo Nazionale Monza", "monza", "Italy", []string{"Grand Prix", "Junior"}},
		{"Brands Hatch", "brands-hatch", "United Kingdom", []string{"Grand Prix", "Indy"}},
	}

	for _, t := range tracks {
		track := models.Track{Name: t.name, Slug: t.slug, Country: t.country}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&track).Error; err != nil {
			return err
		}
		// On conflict the returned ID is zero; look the row up by slug.
		if err := db.Where("slug = ?", t.slug).First(&track).Error; err != nil {
			return err
		}
		for _, name := range t.layouts {
			var count int64
			if err := db.Model(&models.TrackLayout{}).
				Where("track_id = ? AND name = ?", track.ID, name).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := db.Create(&models.TrackLayout{TrackID: track.ID, Name: name}).Error; err != nil {
				return err
			}
		}
	}

	cars := []models.CarModel{
		{Make: "Porsche", Model: "911", Trim: "GT3 RS"},
		{Make: "Porsche", Model: "Cayman", Trim: "GT4"},
		{Make: "BMW", Model: "M2", Trim: "CS"},
		{Make: "BMW", Model: "M4", Trim: "Competition"},
		{Make: "Renault", Model: "Mégane", Trim: "RS Trophy-R"},
		{Make: "Alpine", Model: "A110", Trim: "Cup"},
		{Make: "Toyota", Model: "GR86"},
		{Make: "Mazda", Model: "MX-5"},
	}
	for _, c := range cars {
		var count int64
		if err := db.Model(&models.CarModel{}).
			Where(`make = ? AND model = ? AND "trim" = ?`, c.Make, c.Model, c.Trim).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		car := c
		if err := db.Create(&car).Error; err != nil {
			return err
		}
	}

	return nil
}
