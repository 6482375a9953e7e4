package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"refwatch/domain/bias"
	"refwatch/internal"
	"refwatch/internal/errors"
	"refwatch/ports"
)

const (
	profilesSheet     = "Profiles"
	observationsSheet = "Observations"
)

// ReportWriter renders a completed run to an xlsx workbook with one sheet of
// per-referee profiles and one sheet of flagged observations.
type ReportWriter struct {
	filePath string
	log      *internal.Logger
}

// NewReportWriter creates an xlsx report writer targeting filePath
func NewReportWriter(filePath string) ports.ReportWriter {
	return &ReportWriter{
		filePath: filePath,
		log:      internal.DefaultLogger.WithPrefix("excel"),
	}
}

// WriteReport writes the workbook, replacing any previous file at the path.
// Profiles arrive in referee-ID order and rows preserve it.
func (w *ReportWriter) WriteReport(ctx context.Context, manifest *bias.RunManifest,
	baseline bias.LeagueBaseline, profiles []*bias.RefereeProfile) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", profilesSheet)
	if _, err := f.NewSheet(observationsSheet); err != nil {
		return errors.ReportWriteFailure("create sheet", err)
	}

	if err := w.writeProfiles(f, baseline, profiles); err != nil {
		return err
	}
	if err := w.writeObservations(f, profiles); err != nil {
		return err
	}

	if err := f.SaveAs(w.filePath); err != nil {
		return errors.ReportWriteFailure(w.filePath, err)
	}
	w.log.Info("wrote xlsx report for run %s to %s", manifest.RunID, w.filePath)
	return nil
}

func (w *ReportWriter) writeProfiles(f *excelize.File, baseline bias.LeagueBaseline, profiles []*bias.RefereeProfile) error {
	headers := []interface{}{
		"Referee ID", "Name", "Matches", "Penalties", "Avg Penalties",
		"Home Bias %", "Final Period %", "Insufficient Sample", "Observations",
	}
	if err := f.SetSheetRow(profilesSheet, "A1", &headers); err != nil {
		return errors.ReportWriteFailure("profiles header", err)
	}

	for i, p := range profiles {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			p.RefereeID.String(), p.Name, p.Matches, p.Penalties,
			p.AvgPenalties, p.HomeBias, 100 * p.FinalPeriodShare,
			p.InsufficientSample, len(p.Observations),
		}
		if err := f.SetSheetRow(profilesSheet, cell, &row); err != nil {
			return errors.ReportWriteFailure("profiles row", err)
		}
	}

	// League baseline under the profile table for context
	baseRow := len(profiles) + 3
	label := []interface{}{"League baseline", "", baseline.MatchCount, baseline.PenaltyCount,
		baseline.AvgPenaltiesPerMatch, baseline.HomeBias, 100 * baseline.FinalPeriodShare}
	cell := fmt.Sprintf("A%d", baseRow)
	if err := f.SetSheetRow(profilesSheet, cell, &label); err != nil {
		return errors.ReportWriteFailure("baseline row", err)
	}
	return nil
}

func (w *ReportWriter) writeObservations(f *excelize.File, profiles []*bias.RefereeProfile) error {
	headers := []interface{}{"Referee ID", "Name", "Type", "Severity", "Description"}
	if err := f.SetSheetRow(observationsSheet, "A1", &headers); err != nil {
		return errors.ReportWriteFailure("observations header", err)
	}

	rowNum := 2
	for _, p := range profiles {
		for _, obs := range p.Observations {
			cell := fmt.Sprintf("A%d", rowNum)
			row := []interface{}{
				p.RefereeID.String(), p.Name,
				string(obs.Kind), string(obs.Severity), obs.Description,
			}
			if err := f.SetSheetRow(observationsSheet, cell, &row); err != nil {
				return errors.ReportWriteFailure("observations row", err)
			}
			rowNum++
		}
	}
	return nil
}
