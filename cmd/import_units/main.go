package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/meur/teamforge/internal/authoring"
	"github.com/meur/teamforge/internal/dataset"
	"github.com/meur/teamforge/internal/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type datasetFile struct {
	Version string          `json:"version"`
	Units   []models.Unit   `json:"units"`
	Tiers   models.TierData `json:"tiers"`
}

func main() {
	datasetPath := flag.String("dataset", "./data/dataset.json", "Dataset JSON to check")
	outPath := flag.String("out", "", "Where to write the patched dataset (default: overwrite -dataset)")
	acceptAll := flag.Bool("accept-all", false, "Accept every reciprocal suggestion")
	addsOnly := flag.Bool("adds-only", false, "With -accept-all, skip suggestions that change an existing rating")
	dryRun := flag.Bool("dry-run", false, "Print the report without writing anything")
	flag.Parse()

	ds, err := dataset.Load(*datasetPath)
	if err != nil {
		log.Fatalf("%s✗ Failed to load dataset: %v%s", colorRed, err, colorReset)
	}
	fmt.Printf("%s📦 Loaded %d units from %s (version %s)%s\n", colorCyan, ds.Len(), *datasetPath, ds.Version(), colorReset)

	// Field validation
	invalid := 0
	for _, u := range ds.Units() {
		u := u
		errs := authoring.ValidateUnit(&u, ds)
		if len(errs) == 0 {
			continue
		}
		invalid++
		fmt.Printf("%s✗ %s%s\n", colorRed, u.ID, colorReset)
		for _, e := range errs {
			fmt.Printf("    %s\n", e.Error())
		}
	}
	if invalid == 0 {
		fmt.Printf("%s✓ All units passed validation%s\n", colorGreen, colorReset)
	}

	// Reciprocal suggestions
	suggestions := authoring.SuggestReciprocals(ds)
	review := authoring.NewReview(suggestions)
	for _, s := range suggestions {
		marker := "+"
		detail := s.Rating.String()
		if s.Kind == authoring.SuggestUpdate {
			marker = "~"
			detail = fmt.Sprintf("%s -> %s", s.Current, s.Rating)
		}
		fmt.Printf("%s%s %s: list %s as %s %s%s\n      %s\n",
			colorYellow, marker, s.UnitID, s.TeammateID, s.Role.Label(), detail, colorReset, s.Reason)

		if !*acceptAll || (*addsOnly && s.Kind == authoring.SuggestUpdate) {
			_ = review.Skip(s.ID)
			continue
		}
		if err := review.Accept(s.ID, nil); err != nil {
			log.Fatalf("%s✗ Failed to accept %s: %v%s", colorRed, s.ID, err, colorReset)
		}
	}
	accepted := review.Accepted()
	fmt.Printf("%s%d suggestion(s), %d accepted%s\n", colorCyan, len(suggestions), len(accepted), colorReset)

	if *dryRun {
		log.Printf("Dry run: %d invalid unit(s), would patch %d unit(s)", invalid, len(review.Apply(ds)))
		if invalid > 0 {
			os.Exit(1)
		}
		return
	}
	if invalid > 0 {
		log.Fatalf("%s✗ %d unit(s) failed validation, nothing written%s", colorRed, invalid, colorReset)
	}
	if len(accepted) == 0 {
		return
	}

	patched := review.Apply(ds)
	byID := make(map[string]models.Unit, len(patched))
	for _, u := range patched {
		byID[u.ID] = u
	}
	out := datasetFile{Version: ds.Version(), Tiers: ds.Tiers()}
	for _, u := range ds.Units() {
		if p, ok := byID[u.ID]; ok {
			u = p
		}
		out.Units = append(out.Units, u)
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("%s✗ Failed to encode dataset: %v%s", colorRed, err, colorReset)
	}
	target := *outPath
	if target == "" {
		target = *datasetPath
	}
	if err := os.WriteFile(target, append(raw, '\n'), 0o644); err != nil {
		log.Fatalf("%s✗ Failed to write %s: %v%s", colorRed, target, err, colorReset)
	}

	names := make([]string, 0, len(patched))
	for _, u := range patched {
		names = append(names, u.ID)
	}
	fmt.Printf("%s✓ Patched %d unit(s): %s%s\n", colorGreen, len(patched), strings.Join(names, ", "), colorReset)
}
