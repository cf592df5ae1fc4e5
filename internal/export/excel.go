package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sharik/internal/config"
	"sharik/internal/domain"
	"sharik/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter собирает отчёт по бронированиям за период.
type ExcelExporter struct {
	repo   domain.Repository
	cfg    config.ExportConfig
	logger *zerolog.Logger
}

func NewExcelExporter(repo domain.Repository, cfg config.ExportConfig, logger *zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{repo: repo, cfg: cfg, logger: logger}
}

const sheetName = "Бронирования"

// BuildBookingReport возвращает готовый xlsx с бронированиями периода.
func (e *ExcelExporter) BuildBookingReport(ctx context.Context, start, end time.Time) ([]byte, error) {
	bookings, err := e.repo.GetBookingsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "G1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	e.writeHeaders(f)
	e.writeRows(f, bookings)

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "F", 20)
	_ = f.SetColWidth(sheetName, "G", "G", 12)

	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}

	e.logger.Info().Int("bookings", len(bookings)).Msg("booking report built")
	return buf.Bytes(), nil
}

// SaveBookingReport сохраняет отчёт в каталог экспорта и возвращает путь.
func (e *ExcelExporter) SaveBookingReport(ctx context.Context, start, end time.Time) (string, error) {
	data, err := e.BuildBookingReport(ctx, start, end)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.cfg.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(e.cfg.Path, fileName)

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) writeHeaders(f *excelize.File) {
	headers := []string{"ID", "Вещь", "Владелец", "Арендатор", "Начало", "Конец", "Статус"}

	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func (e *ExcelExporter) writeRows(f *excelize.File, bookings []*models.Booking) {
	for i, b := range bookings {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.OwnerID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.BookerID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), statusLabel(b.Status))
	}
}

func statusLabel(status models.Status) string {
	switch status {
	case models.StatusApproved:
		return "✅ " + string(status)
	case models.StatusWaiting:
		return "⏳ " + string(status)
	case models.StatusRejected, models.StatusCanceled:
		return "❌ " + string(status)
	}
	return string(status)
}
