package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"sharik/internal/config"
	"sharik/internal/database"
	"sharik/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildBookingReport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	owner := &models.User{Name: "owner", Email: "owner@example.com"}
	require.NoError(t, db.CreateUser(ctx, owner))
	booker := &models.User{Name: "booker", Email: "booker@example.com"}
	require.NoError(t, db.CreateUser(ctx, booker))
	item := &models.Item{OwnerID: owner.ID, Name: "drill", IsAvailable: true}
	require.NoError(t, db.CreateItem(ctx, item))

	start := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		OwnerID:  owner.ID,
		BookerID: booker.ID,
		Start:    start,
		End:      start.Add(2 * time.Hour),
		Status:   models.StatusWaiting,
	}
	require.NoError(t, db.CreateBookingWithLock(ctx, booking))

	exporter := NewExcelExporter(db, config.ExportConfig{Path: t.TempDir()}, &logger)

	data, err := exporter.BuildBookingReport(ctx, start.Add(-24*time.Hour), start.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Бронирования")
	require.NoError(t, err)
	// Заголовок периода, шапка таблицы и одна строка данных.
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Contains(t, rows[2], "drill")
}

func TestSaveBookingReport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	dir := t.TempDir()
	exporter := NewExcelExporter(db, config.ExportConfig{Path: dir}, &logger)

	start := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	path, err := exporter.SaveBookingReport(context.Background(), start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.FileExists(t, path)
}
