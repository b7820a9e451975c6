package application

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"linkbridge/internal/repository"
)

type ExportService interface {
	GetLinksReport(ctx context.Context) ([]byte, error)
}

type ExportServiceImpl struct {
	links  repository.IdentityLink
	logger Logger
}

func NewExportServiceImpl(links repository.IdentityLink, logger Logger) *ExportServiceImpl {
	return &ExportServiceImpl{
		links:  links,
		logger: logger,
	}
}

// GetLinksReport renders the identity table as an xlsx workbook, most
// recently updated rows first. Cleared rows are included with an empty
// source id.
func (s *ExportServiceImpl) GetLinksReport(ctx context.Context) ([]byte, error) {
	links, err := s.links.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := exportSheetName
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headers := []string{"Source ID", "Dest ID", "Display name", "Linked", "Updated at (UTC)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, l := range links {
		row := i + 2
		sourceID := ""
		if l.SourceID != nil {
			sourceID = *l.SourceID
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sourceID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("%d", l.DestID))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), l.DisplayName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), yesNo(l.Linked()))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), l.UpdatedAt.UTC().Format(time.DateTime))
	}

	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "C", 24)
	f.SetColWidth(sheet, "E", "E", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Exported %d identity rows", len(links))
	return buf.Bytes(), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
