package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// CreateBackup copies the database file into dir with a timestamped name
// and writes a .sha256 sidecar so the copy can be verified later. It
// returns the backup path.
func CreateBackup(dbPath, dir string) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open database %s: %w", dbPath, err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %s: %w", dir, err)
	}

	stamp := time.Now().Format("20060102-150405")
	backupPath := filepath.Join(dir, fmt.Sprintf("meowtrition-%s.db", stamp))
	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("create backup file %s: %w", backupPath, err)
	}
	defer dst.Close()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, hasher), src); err != nil {
		return "", fmt.Errorf("copy database to %s: %w", backupPath, err)
	}
	if err := dst.Sync(); err != nil {
		return "", fmt.Errorf("sync backup file %s: %w", backupPath, err)
	}

	sum := hex.EncodeToString(hasher.Sum(nil))
	sidecar := backupPath + ".sha256"
	if err := os.WriteFile(sidecar, []byte(fmt.Sprintf("%s  %s\n", sum, filepath.Base(backupPath))), 0o644); err != nil {
		return "", fmt.Errorf("write checksum %s: %w", sidecar, err)
	}
	return backupPath, nil
}

// DoctorIssue is one finding from a consistency check.
type DoctorIssue struct {
	Check  string
	Detail string
}

// DoctorReport is the outcome of running all consistency checks.
type DoctorReport struct {
	ChecksRun int
	Issues    []DoctorIssue
}

func (r DoctorReport) Healthy() bool { return len(r.Issues) == 0 }

// Doctor runs read-only consistency checks over the database: plans and
// selected-food references pointing at deleted foods, feeding logs whose
// food is gone, and pending plan reviews older than 30 days.
func Doctor(db *sql.DB) (DoctorReport, error) {
	report := DoctorReport{}

	checks := []struct {
		name  string
		query string
		want  string
	}{
		{
			name: "plans with missing food",
			query: `
SELECT p.cat_id, p.food_id FROM feeding_plans p
LEFT JOIN foods f ON f.id = p.food_id
WHERE f.id IS NULL`,
			want: "plan for cat %d references missing food %d",
		},
		{
			name: "cats with missing selected food",
			query: `
SELECT c.id, c.selected_food_id FROM cats c
LEFT JOIN foods f ON f.id = c.selected_food_id
WHERE c.selected_food_id IS NOT NULL AND f.id IS NULL`,
			want: "cat %d selects missing food %d",
		},
		{
			name: "feeding logs with missing food",
			query: `
SELECT l.id, l.food_id FROM feeding_logs l
LEFT JOIN foods f ON f.id = l.food_id
WHERE l.food_id IS NOT NULL AND f.id IS NULL`,
			want: "feeding log %d references missing food %d",
		},
	}
	for _, check := range checks {
		rows, err := db.Query(check.query)
		if err != nil {
			return DoctorReport{}, fmt.Errorf("doctor check %q: %w", check.name, err)
		}
		for rows.Next() {
			var a, b int64
			if err := rows.Scan(&a, &b); err != nil {
				rows.Close()
				return DoctorReport{}, fmt.Errorf("doctor check %q: %w", check.name, err)
			}
			report.Issues = append(report.Issues, DoctorIssue{
				Check:  check.name,
				Detail: fmt.Sprintf(check.want, a, b),
			})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return DoctorReport{}, fmt.Errorf("doctor check %q: %w", check.name, err)
		}
		rows.Close()
		report.ChecksRun++
	}

	staleCutoff := time.Now().AddDate(0, 0, -30).UTC().Format("2006-01-02 15:04:05")
	rows, err := db.Query(`SELECT id, cat_id FROM plan_reviews WHERE state = 'pending' AND created_at < ?`, staleCutoff)
	if err != nil {
		return DoctorReport{}, fmt.Errorf("doctor check stale reviews: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, catID int64
		if err := rows.Scan(&id, &catID); err != nil {
			return DoctorReport{}, fmt.Errorf("doctor check stale reviews: %w", err)
		}
		report.Issues = append(report.Issues, DoctorIssue{
			Check:  "stale pending reviews",
			Detail: fmt.Sprintf("plan review %d for cat %d has been pending more than 30 days", id, catID),
		})
	}
	if err := rows.Err(); err != nil {
		return DoctorReport{}, fmt.Errorf("doctor check stale reviews: %w", err)
	}
	report.ChecksRun++

	return report, nil
}
