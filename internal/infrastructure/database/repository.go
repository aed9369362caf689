package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"javelin-lab/internal/domain/models"
)

// ScanHistoryRepository persists URL scan history rows
type ScanHistoryRepository struct {
	db *Postgres
}

// NewScanHistoryRepository creates a repository over the pool
func NewScanHistoryRepository(db *Postgres) *ScanHistoryRepository {
	return &ScanHistoryRepository{db: db}
}

// SaveScan appends one history row
func (r *ScanHistoryRepository) SaveScan(ctx context.Context, entry models.ScanHistoryEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO scan_history (url, classification, confidence, scanned_at)
		 VALUES ($1, $2, $3, $4)`,
		entry.URL, string(entry.Classification), entry.Confidence, entry.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan history: %w", err)
	}
	return nil
}

// RecentScans returns the most recent history rows, newest first
func (r *ScanHistoryRepository) RecentScans(ctx context.Context, limit int) ([]models.ScanHistoryEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT url, classification, confidence, scanned_at
		 FROM scan_history ORDER BY scanned_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan history: %w", err)
	}
	defer rows.Close()

	var entries []models.ScanHistoryEntry
	for rows.Next() {
		var e models.ScanHistoryEntry
		if err := rows.Scan(&e.URL, &e.Classification, &e.Confidence, &e.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// VaultFileRepository persists vault file metadata
type VaultFileRepository struct {
	db *Postgres
}

// NewVaultFileRepository creates a repository over the pool
func NewVaultFileRepository(db *Postgres) *VaultFileRepository {
	return &VaultFileRepository{db: db}
}

// SaveFile upserts a vault file row
func (r *VaultFileRepository) SaveFile(ctx context.Context, file models.VaultFile) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO vault_files (id, name, size_bytes, hash, encrypted, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			size_bytes = EXCLUDED.size_bytes,
			hash = EXCLUDED.hash,
			encrypted = EXCLUDED.encrypted`,
		file.ID, file.Name, file.SizeBytes, file.Hash, file.Encrypted, file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save vault file: %w", err)
	}
	return nil
}

// DeleteFile removes a vault file row
func (r *VaultFileRepository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM vault_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete vault file: %w", err)
	}
	return nil
}

// ListFiles returns all vault file rows, newest first
func (r *VaultFileRepository) ListFiles(ctx context.Context) ([]models.VaultFile, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, size_bytes, hash, encrypted, uploaded_at
		 FROM vault_files ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault files: %w", err)
	}
	defer rows.Close()

	var files []models.VaultFile
	for rows.Next() {
		var f models.VaultFile
		if err := rows.Scan(&f.ID, &f.Name, &f.SizeBytes, &f.Hash, &f.Encrypted, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vault file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
