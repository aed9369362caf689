package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"javelin-lab/internal/config"
	"javelin-lab/internal/domain/models"
)

func testVaultConfig() config.VaultConfig {
	return config.VaultConfig{MaxFileBytes: 100 * 1024 * 1024}
}

// stubVaultRemote fakes the hosted vault backend
type stubVaultRemote struct {
	fail  bool
	calls int
}

func (s *stubVaultRemote) UploadFile(_ context.Context, name string, sizeBytes int64) (*models.VaultFile, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("backend unavailable")
	}
	return &models.VaultFile{
		ID:         uuid.New(),
		Name:       name,
		SizeBytes:  sizeBytes,
		Hash:       "CAFE0123",
		Encrypted:  true,
		UploadedAt: time.Now(),
	}, nil
}

func TestVaultUploadPrefersRemote(t *testing.T) {
	stub := &stubVaultRemote{}
	v := NewVaultService(testVaultConfig(), stub, nil, testLogger())

	file, err := v.Upload(context.Background(), "deed.pdf", 4096)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "CAFE0123", file.Hash)

	stored, err := v.Get(file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.Hash, stored.Hash)
}

func TestVaultUploadFallsBackWhenRemoteFails(t *testing.T) {
	stub := &stubVaultRemote{fail: true}
	v := NewVaultService(testVaultConfig(), stub, nil, testLogger())

	file, err := v.Upload(context.Background(), "deed.pdf", 4096)
	require.NoError(t, err, "remote failures must not surface")
	assert.Equal(t, 1, stub.calls)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), file.Hash)
	assert.True(t, file.Encrypted)
}

func TestVaultUploadValidatesBeforeRemote(t *testing.T) {
	stub := &stubVaultRemote{}
	v := NewVaultService(testVaultConfig(), stub, nil, testLogger())

	_, err := v.Upload(context.Background(), "huge.img", 100*1024*1024+1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, 0, stub.calls)
}

func TestVaultUploadAndList(t *testing.T) {
	v := NewVaultService(testVaultConfig(), nil, nil, testLogger())

	file, err := v.Upload(context.Background(), "passport.pdf", 2048)
	require.NoError(t, err)
	assert.Equal(t, "passport.pdf", file.Name)
	assert.True(t, file.Encrypted)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), file.Hash)

	files := v.List()
	require.Len(t, files, 1)
	assert.Equal(t, file.ID, files[0].ID)
}

func TestVaultUploadRejectsOversizedFile(t *testing.T) {
	v := NewVaultService(testVaultConfig(), nil, nil, testLogger())

	_, err := v.Upload(context.Background(), "backup.img", 100*1024*1024+1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	// Exactly at the cap is allowed
	_, err = v.Upload(context.Background(), "backup.img", 100*1024*1024)
	assert.NoError(t, err)
}

func TestVaultUploadValidation(t *testing.T) {
	v := NewVaultService(testVaultConfig(), nil, nil, testLogger())

	_, err := v.Upload(context.Background(), "", 10)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = v.Upload(context.Background(), "x.txt", -1)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestVaultDelete(t *testing.T) {
	v := NewVaultService(testVaultConfig(), nil, nil, testLogger())

	file, err := v.Upload(context.Background(), "notes.txt", 128)
	require.NoError(t, err)

	require.NoError(t, v.Delete(context.Background(), file.ID))
	assert.ErrorIs(t, v.Delete(context.Background(), file.ID), models.ErrNotFound)
	assert.ErrorIs(t, v.Delete(context.Background(), uuid.New()), models.ErrNotFound)

	_, err = v.Get(file.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVaultStorageInfo(t *testing.T) {
	v := NewVaultService(testVaultConfig(), nil, nil, testLogger())

	_, err := v.Upload(context.Background(), "a.txt", 100)
	require.NoError(t, err)
	_, err = v.Upload(context.Background(), "b.txt", 250)
	require.NoError(t, err)

	info := v.StorageInfo()
	assert.Equal(t, int64(350), info.UsedBytes)
	assert.Equal(t, int64(100*1024*1024), info.TotalBytes)
	assert.Equal(t, 2, info.FileCount)
}
