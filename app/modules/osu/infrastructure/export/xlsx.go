// Package export writes score listings to spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/mods"
	"github.com/moorad/the-beautiful-bot/app/modules/osu/domain/scores"
)

// SheetName is the name of the worksheet holding the plays.
const SheetName = "Top Plays"

var header = []any{
	"#", "Beatmap ID", "Title", "Version", "Stars", "Mods", "Rank", "PP", "Accuracy",
	"Score", "Max Combo", "300", "100", "50", "Miss", "Date",
}

// Listing is one user's plays. Beatmaps is either empty or index-aligned
// with Plays.
type Listing struct {
	Username string
	Server   scores.Server
	Mode     scores.Mode
	Plays    []scores.Score
	Beatmaps []scores.Beatmap
}

// WriteXLSX renders l as a workbook with a header row followed by one row per
// play, best first.
func WriteXLSX(w io.Writer, l Listing) error {
	if len(l.Beatmaps) > 0 && len(l.Beatmaps) != len(l.Plays) {
		return fmt.Errorf("beatmaps (%d) do not line up with plays (%d)", len(l.Beatmaps), len(l.Plays))
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("%s top osu! %s plays", l.Username, l.Mode),
		Subject: l.Server.String(),
		Creator: "The Beautiful Bot",
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range l.Plays {
		var bm scores.Beatmap
		if len(l.Beatmaps) > 0 {
			bm = l.Beatmaps[i]
		}
		row := []any{
			i + 1, p.BeatmapID, bm.Title, bm.Version, bm.DifficultyRating, mods.ToString(p.EnabledMods), p.Rank,
			p.PP, p.Accuracy, p.Score, p.MaxCombo, p.Count300, p.Count100, p.Count50, p.CountMiss,
			p.Date.UTC().Format(time.DateTime),
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write play %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
