package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/docutag/analyzer/models"
)

// setupTestDB connects to TEST_DATABASE_URL and clears the reports table
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	db, err := New(Config{DSN: dsn})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := db.conn.Exec("DELETE FROM analyzer_reports"); err != nil {
		t.Fatalf("Failed to clean reports table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testReport(id string, score float64, ts time.Time) *models.BiasReport {
	return &models.BiasReport{
		TextID:           id,
		Timestamp:        ts,
		OverallBiasScore: score,
		WordCount:        12,
		ProcessingTimeMS: 1.25,
		BiasResults: []models.BiasResult{
			{
				BiasType:    models.BiasLoadedLanguage,
				Confidence:  score,
				Evidence:    []string{"disaster"},
				Suggestions: []string{"Use neutral, descriptive language"},
				Severity:    models.SeverityMedium,
			},
		},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	report := testReport("analysis_save", 0.5, time.Now().UTC().Truncate(time.Millisecond))
	if err := db.SaveReport(ctx, report, "reports/2024/03/analysis-save.json"); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	got, err := db.GetReport(ctx, "analysis_save")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.OverallBiasScore != 0.5 || len(got.BiasResults) != 1 || got.BiasResults[0].Evidence[0] != "disaster" {
		t.Errorf("unexpected report %+v", got)
	}

	// Saving again replaces the stored data
	report.OverallBiasScore = 0.7
	if err := db.SaveReport(ctx, report, ""); err != nil {
		t.Fatalf("second SaveReport failed: %v", err)
	}
	got, err = db.GetReport(ctx, "analysis_save")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.OverallBiasScore != 0.7 {
		t.Errorf("expected updated score 0.7, got %v", got.OverallBiasScore)
	}
}

func TestGetReportNotFound(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.GetReport(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReportCorruptAndArchiveKey(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	report := testReport("analysis_corrupt", 0.3, time.Now().UTC())
	if err := db.SaveReport(ctx, report, "reports/2024/03/analysis-corrupt.json"); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}
	if _, err := db.conn.ExecContext(ctx,
		"UPDATE analyzer_reports SET data = $1 WHERE id = $2", "{not json", "analysis_corrupt"); err != nil {
		t.Fatalf("failed to corrupt row: %v", err)
	}

	if _, err := db.GetReport(ctx, "analysis_corrupt"); !errors.Is(err, ErrCorruptReport) {
		t.Errorf("expected ErrCorruptReport, got %v", err)
	}

	key, err := db.ArchiveKey(ctx, "analysis_corrupt")
	if err != nil || key != "reports/2024/03/analysis-corrupt.json" {
		t.Errorf("ArchiveKey = %q, %v", key, err)
	}
	if _, err := db.ArchiveKey(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndCountReports(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"analysis_a", "analysis_b", "analysis_c"} {
		key := ""
		if i == 2 {
			key = "reports/key.json"
		}
		if err := db.SaveReport(ctx, testReport(id, 0.1*float64(i+1), base.Add(time.Duration(i)*time.Second)), key); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
	}

	count, err := db.CountReports(ctx)
	if err != nil {
		t.Fatalf("CountReports failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 reports, got %d", count)
	}

	list, err := db.ListReports(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].TextID != "analysis_c" || list[0].ArchiveKey != "reports/key.json" {
		t.Errorf("expected newest first with archive key, got %+v", list[0])
	}
	if list[1].ArchiveKey != "" {
		t.Errorf("expected empty archive key, got %q", list[1].ArchiveKey)
	}

	list, err = db.ListReports(ctx, 10, 2)
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(list) != 1 || list[0].TextID != "analysis_a" {
		t.Errorf("unexpected offset page %+v", list)
	}
}

func TestDeleteReport(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveReport(ctx, testReport("analysis_del", 0.3, time.Now()), "reports/del.json"); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	key, err := db.DeleteReport(ctx, "analysis_del")
	if err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}
	if key != "reports/del.json" {
		t.Errorf("expected archive key returned, got %q", key)
	}

	if _, err := db.DeleteReport(ctx, "analysis_del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMigrationStatusAndRollback(t *testing.T) {
	db := setupTestDB(t)

	status, err := GetMigrationStatus(db.conn)
	if err != nil {
		t.Fatalf("GetMigrationStatus failed: %v", err)
	}
	for _, s := range status {
		if !s.Applied {
			t.Errorf("migration %d (%s) not applied", s.Version, s.Name)
		}
	}

	if err := Rollback(db.conn); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	status, err = GetMigrationStatus(db.conn)
	if err != nil {
		t.Fatalf("GetMigrationStatus failed: %v", err)
	}
	if last := status[len(status)-1]; last.Applied {
		t.Errorf("expected last migration rolled back, got %+v", last)
	}

	if err := Migrate(db.conn, nil); err != nil {
		t.Fatalf("re-Migrate failed: %v", err)
	}
}

func TestMigrationsOrdered(t *testing.T) {
	seen := map[int]bool{}
	sorted := sortedMigrations()
	for i, m := range sorted {
		if seen[m.Version] {
			t.Errorf("duplicate migration version %d", m.Version)
		}
		seen[m.Version] = true
		if m.Version != i+1 {
			t.Errorf("migration versions must be contiguous from 1, got %d at %d", m.Version, i)
		}
		if m.Up == "" || m.Down == "" {
			t.Errorf("migration %d missing up or down SQL", m.Version)
		}
	}
}

func TestNullString(t *testing.T) {
	if got := nullString(""); got.Valid {
		t.Error("empty string should be NULL")
	}
	if got := nullString("k"); got != (sql.NullString{String: "k", Valid: true}) {
		t.Errorf("unexpected %+v", got)
	}
}
