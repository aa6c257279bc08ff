package main

import (
	"flag"
	"log"
	"os"

	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/export"
	"github.com/meur/teamforge/internal/models"
	"github.com/meur/teamforge/internal/relations"
	"github.com/meur/teamforge/internal/storage"
	"github.com/meur/teamforge/internal/teams"
)

func main() {
	dbPath := flag.String("db", getEnv("DB_PATH", "./teamforge.db"), "SQLite database path")
	datasetPath := flag.String("dataset", getEnv("DATASET_PATH", "./data/dataset.json"), "Dataset JSON")
	modeName := flag.String("mode", "", "Game mode (moc, pf, as)")
	out := flag.String("out", "./exports/teams.xlsx", "Output workbook")
	includeConcepts := flag.Bool("include-concepts", false, "Treat concept units as owned")
	flag.Parse()

	mode, err := models.ParseMode(*modeName)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	ds, err := dataset.Load(*datasetPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	roster, err := store.LoadRoster()
	if err != nil {
		log.Fatalf("Failed to load roster: %v", err)
	}

	pool := roster.OwnedIDs(ds.Units(), *includeConcepts)
	if len(pool) < models.TeamSize {
		log.Fatalf("Roster has %d owned units, need at least %d", len(pool), models.TeamSize)
	}

	gen := teams.NewGenerator(ds, relations.NewIndex(ds))
	sections := buildSections(gen, ds, pool, mode, roster)
	if len(sections) == 0 {
		log.Println("No damage dealer in the roster produced a team")
		return
	}

	if err := export.SaveXLSX(*out, ds, mode, sections); err != nil {
		log.Fatalf("Failed to write workbook: %v", err)
	}
	log.Printf("✓ Exported %d sections to %s", len(sections), *out)
}

// buildSections recommends teams for every owned unit whose primary role
// deals damage, one section per unit, in dataset order.
func buildSections(gen *teams.Generator, ds *dataset.Dataset, pool []string, mode models.Mode, roster models.Roster) []export.Section {
	var sections []export.Section
	for _, id := range pool {
		u, ok := ds.Unit(id)
		if !ok || !u.PrimaryRole().IsDamage() {
			continue
		}
		rec := gen.Recommend(teams.Query{
			Selected:    []string{id},
			Pool:        pool,
			Mode:        mode,
			View:        teams.ViewFocused,
			Investments: roster,
		})
		if len(rec.Teams) == 0 {
			log.Printf("Skipping %s: %s", u.Name, rec.Reason)
			continue
		}
		sections = append(sections, export.Section{Title: u.Name, Teams: rec.Teams})
	}
	return sections
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
