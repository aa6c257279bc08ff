// Package export writes ranked teams to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/meur/teamforge/internal/models"
)

const (
	teamsSheet   = "Teams"
	summarySheet = "Summary"
)

// NameLookup resolves unit display names.
type NameLookup interface {
	Unit(id string) (*models.Unit, bool)
}

// Section is one block of ranked teams, usually the teams of one focal unit.
type Section struct {
	Title string
	Teams []models.GeneratedTeam
}

var teamHeaders = []interface{}{
	"Section", "Rank", "Slot 1", "Slot 2", "Slot 3", "Slot 4",
	"Structure", "Score", "Rating", "Team Tier", "Ranking Score", "Curated", "Composition", "Insights",
}

var summaryHeaders = []interface{}{"Section", "Teams", "Best Score", "Best Rating", "Best Team"}

// WriteXLSX writes sections to w as a workbook with a row per team and a
// summary row per section.
func WriteXLSX(w io.Writer, names NameLookup, mode models.Mode, sections []Section) error {
	f, err := build(names, mode, sections)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveXLSX writes the workbook to path, creating parent directories.
func SaveXLSX(path string, names NameLookup, mode models.Mode, sections []Section) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := build(names, mode, sections)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func build(names NameLookup, mode models.Mode, sections []Section) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", teamsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(teamsSheet, "A1", &teamHeaders); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeaders); err != nil {
		return nil, err
	}

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(teamsSheet, "A1", "N1", headerStyleID); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "E1", headerStyleID); err != nil {
		return nil, err
	}

	row := 2
	for si, sec := range sections {
		for i := range sec.Teams {
			t := &sec.Teams[i]
			values := []interface{}{sec.Title, i + 1}
			for _, m := range t.Members {
				values = append(values, memberLabel(names, m))
			}
			values = append(values,
				string(t.Structure),
				round1(t.Score),
				t.Rating.String(),
				t.TeamTier.String(),
				round1(t.RankingScore),
				t.CuratedMatch,
				t.CompositionID,
				strings.Join(t.Insights, "; "),
			)
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(teamsSheet, cell, &values); err != nil {
				return nil, err
			}
			row++
		}

		summary := []interface{}{sec.Title, len(sec.Teams), "", "", ""}
		if len(sec.Teams) > 0 {
			best := &sec.Teams[0]
			for i := range sec.Teams {
				if sec.Teams[i].Score > best.Score {
					best = &sec.Teams[i]
				}
			}
			summary[2] = round1(best.Score)
			summary[3] = best.Rating.String()
			summary[4] = teamLabel(names, best)
		}
		cell, err := excelize.CoordinatesToCellName(1, si+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &summary); err != nil {
			return nil, err
		}
	}

	widths := map[string]float64{"A": 18, "C": 22, "D": 22, "E": 22, "F": 22, "G": 13, "L": 20, "M": 18, "N": 60}
	for col, width := range widths {
		if err := f.SetColWidth(teamsSheet, col, col, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "E", "E", 60); err != nil {
		return nil, err
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Team recommendations",
		Subject: fmt.Sprintf("Ranked teams for %s", mode.Label()),
	}); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func unitName(names NameLookup, id string) string {
	if u, ok := names.Unit(id); ok && u.Name != "" {
		return u.Name
	}
	return id
}

func memberLabel(names NameLookup, m models.TeamMember) string {
	return fmt.Sprintf("%s (%s)", unitName(names, m.UnitID), m.Role.Label())
}

func teamLabel(names NameLookup, t *models.GeneratedTeam) string {
	parts := make([]string, 0, models.TeamSize)
	for _, m := range t.Members {
		parts = append(parts, unitName(names, m.UnitID))
	}
	return strings.Join(parts, " / ")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
