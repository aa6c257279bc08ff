package main

import (
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/storage"
)

// rosterFile is the YAML layout of a roster seed:
//
//	units:
//	  - id: acheron
//	    eidolon: 2
//	    light_cone: along-the-passing-shore
//	    superimposition: 1
//	  - id: robin
//	    ownership: concept
type rosterFile struct {
	Units []struct {
		ID              string `yaml:"id"`
		Ownership       string `yaml:"ownership"`
		Eidolon         int    `yaml:"eidolon"`
		LightCone       string `yaml:"light_cone"`
		Superimposition int    `yaml:"superimposition"`
	} `yaml:"units"`
}

func main() {
	dbPath := flag.String("db", getEnv("DB_PATH", "./teamforge.db"), "SQLite database path")
	rosterPath := flag.String("roster", "./seeds/roster.yaml", "Roster YAML file")
	datasetPath := flag.String("dataset", getEnv("DATASET_PATH", ""), "Dataset JSON used to reject unknown unit ids (optional)")
	flag.Parse()

	invs, err := loadRoster(*rosterPath)
	if err != nil {
		log.Fatalf("Failed to read roster: %v", err)
	}

	if *datasetPath != "" {
		ds, err := dataset.Load(*datasetPath)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		kept := invs[:0]
		for _, inv := range invs {
			if _, ok := ds.Unit(inv.UnitID); !ok {
				log.Printf("Warning: skipping unknown unit %s", inv.UnitID)
				continue
			}
			kept = append(kept, inv)
		}
		invs = kept
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.BulkUpsertInvestments(invs); err != nil {
		log.Fatalf("Failed to seed roster: %v", err)
	}

	log.Printf("✓ Seeded %d units from %s", len(invs), *rosterPath)
	log.Println("🌱 Seeding complete!")
}

func loadRoster(path string) ([]models.UserCharacterInvestment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	invs := make([]models.UserCharacterInvestment, 0, len(file.Units))
	for _, u := range file.Units {
		ownership := models.Ownership(u.Ownership)
		if ownership == "" {
			ownership = models.OwnershipOwned
		}
		superimposition := u.Superimposition
		if u.LightCone != "" && superimposition == 0 {
			superimposition = 1
		}
		invs = append(invs, models.UserCharacterInvestment{
			UnitID:          u.ID,
			Ownership:       ownership,
			Eidolon:         u.Eidolon,
			LightConeID:     u.LightCone,
			Superimposition: superimposition,
		})
	}
	return invs, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
