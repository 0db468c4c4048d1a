package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/repolens/repolens/internal/models"
)

const contributorsSheet = "Contributors"

// ExportService renders report payloads into downloadable workbooks.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildContributionWorkbook builds an xlsx workbook from the global
// totals report: one row per contributor with commit and change counts.
func (s *ExportService) BuildContributionWorkbook(summary *models.ContributionSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", contributorsSheet); err != nil {
		return nil, err
	}

	headers := []string{"Name"}
	for _, series := range summary.Series {
		headers = append(headers, series.Name)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(contributorsSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, name := range summary.Categories {
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(contributorsSheet, cell, name); err != nil {
			return nil, err
		}

		for col, series := range summary.Series {
			if row >= len(series.Data) {
				return nil, fmt.Errorf("series %q is shorter than categories", series.Name)
			}
			cell, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(contributorsSheet, cell, series.Data[row]); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
