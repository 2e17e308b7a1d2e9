package main

import (
	"encoding/csv"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"lms/config"
	"lms/database"
	"lms/models"

	"gorm.io/gorm/clause"
)

var defaultBadges = []models.Badge{
	{Name: "First Steps", Description: "Earn your first 50 points", Icon: "footprints", CriteriaType: models.CriteriaPointsMilestone, CriteriaValue: 50},
	{Name: "Scholar", Description: "Reach 250 points", Icon: "book", CriteriaType: models.CriteriaPointsMilestone, CriteriaValue: 250},
	{Name: "Expert", Description: "Reach 1000 points", Icon: "trophy", CriteriaType: models.CriteriaPointsMilestone, CriteriaValue: 1000},
}

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	path := "badges.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	badges, err := readBadges(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("%s not found, seeding %d default badges", path, len(defaultBadges))
		badges = defaultBadges
	} else if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	if len(badges) == 0 {
		log.Fatal("No valid badges to seed")
	}

	result := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "icon", "criteria_type", "criteria_value", "updated_at"}),
	}).Create(&badges)
	if result.Error != nil {
		log.Fatalf("Failed to seed badges: %v", result.Error)
	}

	log.Printf("Seeded %d badges", result.RowsAffected)
}

// readBadges parses name,description,icon,criteria_type,criteria_value rows
func readBadges(path string) ([]models.Badge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{"name", "description", "criteria_type", "criteria_value"} {
		if _, ok := headerIndex[col]; !ok {
			return nil, errors.New("missing column " + col)
		}
	}

	var badges []models.Badge
	for i, row := range records[1:] {
		value, err := strconv.Atoi(strings.TrimSpace(row[headerIndex["criteria_value"]]))
		if err != nil {
			log.Printf("Skipping row %d: invalid criteria_value", i+2)
			continue
		}

		badge := models.Badge{
			Name:          strings.TrimSpace(row[headerIndex["name"]]),
			Description:   strings.TrimSpace(row[headerIndex["description"]]),
			CriteriaType:  strings.TrimSpace(row[headerIndex["criteria_type"]]),
			CriteriaValue: value,
		}
		if idx, ok := headerIndex["icon"]; ok {
			badge.Icon = strings.TrimSpace(row[idx])
		}
		badges = append(badges, badge)
	}
	return badges, nil
}
