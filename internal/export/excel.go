package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"jobspace-backend/internal/domain"
)

const (
	candidatesSheet = "Candidatures"
	summarySheet    = "Résumé"
)

var candidateHeaders = []string{
	"ID", "Prénom", "Nom", "Email", "Téléphone", "CIN", "Date de naissance",
	"Niveau", "Spécialité", "Expérience", "Statut", "CV", "Diplôme", "Lettre",
}

var statusColors = map[domain.CandidateStatus]string{
	domain.StatusPending:  "FFEB9C",
	domain.StatusAccepted: "C6EFCE",
	domain.StatusRejected: "FFC7CE",
}

var statusLabels = map[domain.CandidateStatus]string{
	domain.StatusPending:  "En attente",
	domain.StatusAccepted: "Acceptée",
	domain.StatusRejected: "Refusée",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteCandidates renders candidacies as an xlsx workbook with one row per
// candidate and a per-status summary sheet.
func WriteCandidates(w io.Writer, candidates []domain.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	if err := writeCandidateSheet(f, candidates); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := writeSummarySheet(f, candidates); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeCandidateSheet(f *excelize.File, candidates []domain.Candidate) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E3A8A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	rowStyles := map[domain.CandidateStatus]int{}
	for status, color := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		rowStyles[status] = style
	}

	for col, header := range candidateHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(candidatesSheet, cell, header); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(candidateHeaders))
	if err := f.SetCellStyle(candidatesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(candidatesSheet, "A", lastCol, 18)
	_ = f.SetColWidth(candidatesSheet, "D", "D", 30)

	for i, c := range candidates {
		row := i + 2
		values := []interface{}{
			c.ID.String(), c.FirstName, c.LastName, c.Email, c.Phone, c.NationalID, c.BirthDate,
			c.Level, c.Specialty, experienceText(c.Experience), statusLabels[c.EffectiveStatus()],
			fileCell(c.Files, domain.FieldCV), fileCell(c.Files, domain.FieldDiploma), fileCell(c.Files, domain.FieldLetter),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(candidatesSheet, start, &values); err != nil {
			return err
		}
		if style, ok := rowStyles[c.EffectiveStatus()]; ok {
			end := fmt.Sprintf("%s%d", lastCol, row)
			if err := f.SetCellStyle(candidatesSheet, start, end, style); err != nil {
				return err
			}
		}
	}

	return f.AutoFilter(candidatesSheet, fmt.Sprintf("A1:%s%d", lastCol, len(candidates)+1), nil)
}

func writeSummarySheet(f *excelize.File, candidates []domain.Candidate) error {
	counts := map[domain.CandidateStatus]int{}
	for _, c := range candidates {
		counts[c.EffectiveStatus()]++
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Total", len(candidates)},
		{statusLabels[domain.StatusPending], counts[domain.StatusPending]},
		{statusLabels[domain.StatusAccepted], counts[domain.StatusAccepted]},
		{statusLabels[domain.StatusRejected], counts[domain.StatusRejected]},
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
		_ = f.SetCellStyle(summarySheet, cell, cell, labelStyle)
	}
	return f.SetColWidth(summarySheet, "A", "A", 20)
}

// experienceText shows a JSON string unquoted and anything else as written.
func experienceText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// fileCell gives the stored path, or a marker for documents kept inline.
func fileCell(files *domain.CandidateFiles, field string) string {
	if files == nil {
		return ""
	}
	var ref *string
	switch field {
	case domain.FieldCV:
		ref = files.CV
	case domain.FieldDiploma:
		ref = files.Diploma
	case domain.FieldLetter:
		ref = files.Letter
	}
	if ref == nil || *ref == "" {
		return ""
	}
	if strings.HasPrefix(*ref, "data:") {
		return "fourni (intégré)"
	}
	return *ref
}
