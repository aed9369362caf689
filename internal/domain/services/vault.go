package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
	"javelin-lab/pkg/logger"
)

// VaultRepository persists vault file metadata. The vault works without
// one; persistence is best-effort.
type VaultRepository interface {
	SaveFile(ctx context.Context, file models.VaultFile) error
	DeleteFile(ctx context.Context, id uuid.UUID) error
	ListFiles(ctx context.Context) ([]models.VaultFile, error)
}

// RemoteVault registers uploads with the hosted backend vault. Failures
// never surface; the local path takes over.
type RemoteVault interface {
	UploadFile(ctx context.Context, name string, sizeBytes int64) (*models.VaultFile, error)
}

// VaultService manages the protected file vault. Metadata only; file
// contents never pass through the engine.
type VaultService struct {
	cfg    config.VaultConfig
	remote RemoteVault
	repo   VaultRepository
	logger *logger.Logger

	mu    sync.RWMutex
	files map[uuid.UUID]models.VaultFile
}

// NewVaultService creates a vault. remote and repo may be nil.
func NewVaultService(cfg config.VaultConfig, remote RemoteVault, repo VaultRepository, log *logger.Logger) *VaultService {
	v := &VaultService{
		cfg:    cfg,
		remote: remote,
		repo:   repo,
		logger: log.WithComponent("vault"),
		files:  make(map[uuid.UUID]models.VaultFile),
	}
	v.restore()
	return v
}

// restore loads persisted metadata into memory on startup
func (v *VaultService) restore() {
	if v.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	files, err := v.repo.ListFiles(ctx)
	if err != nil {
		v.logger.Warn().Err(err).Msg("failed to restore vault metadata, starting empty")
		return
	}
	for _, f := range files {
		v.files[f.ID] = f
	}
	if len(files) > 0 {
		v.logger.Info().Int("files", len(files)).Msg("vault metadata restored")
	}
}

// Upload registers a file in the vault. Files above the size cap are
// rejected with ErrInvalidInput.
func (v *VaultService) Upload(ctx context.Context, name string, sizeBytes int64) (models.VaultFile, error) {
	if name == "" {
		return models.VaultFile{}, fmt.Errorf("%w: file name is required", models.ErrInvalidInput)
	}
	if sizeBytes < 0 {
		return models.VaultFile{}, fmt.Errorf("%w: negative file size", models.ErrInvalidInput)
	}
	if sizeBytes > v.cfg.MaxFileBytes {
		return models.VaultFile{}, fmt.Errorf("%w: file exceeds %d byte limit", models.ErrInvalidInput, v.cfg.MaxFileBytes)
	}

	file, ok := v.uploadRemote(ctx, name, sizeBytes)
	if !ok {
		file = models.VaultFile{
			ID:         uuid.New(),
			Name:       name,
			SizeBytes:  sizeBytes,
			Hash:       shortHash(fmt.Sprintf("%s:%d", name, sizeBytes)),
			Encrypted:  true,
			UploadedAt: time.Now(),
		}
	}

	v.mu.Lock()
	v.files[file.ID] = file
	v.mu.Unlock()

	if v.repo != nil {
		if err := v.repo.SaveFile(ctx, file); err != nil {
			v.logger.Warn().Err(err).Str("file_id", file.ID.String()).Msg("failed to persist vault file")
		}
	}

	v.logger.Info().
		Str("file_id", file.ID.String()).
		Int64("size_bytes", sizeBytes).
		Msg("file stored in vault")
	return file, nil
}

// uploadRemote registers the file with the hosted vault first. A remote
// failure is logged and recovered by the local path.
func (v *VaultService) uploadRemote(ctx context.Context, name string, sizeBytes int64) (models.VaultFile, bool) {
	if v.remote == nil {
		return models.VaultFile{}, false
	}

	remoteFile, err := v.remote.UploadFile(ctx, name, sizeBytes)
	if err != nil {
		v.logger.Warn().Err(err).Msg("remote vault upload failed, storing locally")
		return models.VaultFile{}, false
	}

	file := *remoteFile
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}
	return file, true
}

// Get returns a vault file by ID
func (v *VaultService) Get(id uuid.UUID) (models.VaultFile, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	file, ok := v.files[id]
	if !ok {
		return models.VaultFile{}, models.ErrNotFound
	}
	return file, nil
}

// List returns all vault files, newest first
func (v *VaultService) List() []models.VaultFile {
	v.mu.RLock()
	out := make([]models.VaultFile, 0, len(v.files))
	for _, f := range v.files {
		out = append(out, f)
	}
	v.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

// Delete removes a file from the vault
func (v *VaultService) Delete(ctx context.Context, id uuid.UUID) error {
	v.mu.Lock()
	_, ok := v.files[id]
	if ok {
		delete(v.files, id)
	}
	v.mu.Unlock()

	if !ok {
		return models.ErrNotFound
	}

	if v.repo != nil {
		if err := v.repo.DeleteFile(ctx, id); err != nil {
			v.logger.Warn().Err(err).Str("file_id", id.String()).Msg("failed to delete persisted vault file")
		}
	}

	v.logger.Info().Str("file_id", id.String()).Msg("file removed from vault")
	return nil
}

// StorageInfo summarizes current vault usage
func (v *VaultService) StorageInfo() models.VaultStorageInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var used int64
	for _, f := range v.files {
		used += f.SizeBytes
	}
	return models.VaultStorageInfo{
		UsedBytes:  used,
		TotalBytes: v.cfg.MaxFileBytes,
		FileCount:  len(v.files),
	}
}
