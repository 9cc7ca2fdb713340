package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/aiclub-backend/internal/platform/gcp"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

var newBucketService = gcp.NewBucketService

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func resolveBucketService(ctx context.Context, log *logger.Logger, cfg Config) (gcp.BucketService, error) {
	emulatorHost := strings.TrimSpace(cfg.StorageEmulatorHost)
	mode, err := gcp.ResolveMode(cfg.ObjectStorageMode, emulatorHost)
	if err != nil {
		bootErr := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorInvalidMode,
			Mode:         cfg.ObjectStorageMode,
			EmulatorHost: emulatorHost,
			Cause:        err,
		}
		log.Error("Object storage provider selection failed", "error_code", bootErr.Code, "error", err)
		return nil, bootErr
	}
	storageCfg := gcp.StorageConfig{
		Mode:         mode,
		EmulatorHost: emulatorHost,
		ManualBucket: strings.TrimSpace(cfg.ManualBucket),
		Credentials:  cfg.ManualCredentials,
	}
	if bootErr := checkStorageConfig(storageCfg); bootErr != nil {
		log.Error(
			"Object storage provider selection failed",
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", bootErr.Code,
			"error", bootErr.Cause,
		)
		return nil, bootErr
	}

	log.Info("Selecting object storage provider", "mode", storageCfg.Mode, "emulator_host", storageCfg.EmulatorHost)

	bucket, err := newBucketService(ctx, log, storageCfg)
	if err != nil {
		classified := &StorageProviderBootstrapError{
			Code:         StorageProviderBootstrapErrorConnectFailed,
			Mode:         string(storageCfg.Mode),
			EmulatorHost: storageCfg.EmulatorHost,
			Cause:        err,
		}
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", storageCfg.Mode,
			"error_code", classified.Code,
			"error", err,
		)
		return nil, classified
	}
	return bucket, nil
}

func checkStorageConfig(cfg gcp.StorageConfig) *StorageProviderBootstrapError {
	fail := func(code StorageProviderBootstrapErrorCode, cause error) *StorageProviderBootstrapError {
		return &StorageProviderBootstrapError{
			Code:         code,
			Mode:         string(cfg.Mode),
			EmulatorHost: cfg.EmulatorHost,
			Cause:        cause,
		}
	}
	if cfg.ManualBucket == "" {
		return fail(StorageProviderBootstrapErrorMissingBucket, errors.New("missing env var MANUAL_GCS_BUCKET_NAME"))
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return fail(StorageProviderBootstrapErrorMissingEmulatorHost, errors.New("STORAGE_EMULATOR_HOST is required in emulator mode"))
	}
	if u, err := url.Parse(cfg.EmulatorHost); err != nil || u.Scheme == "" || u.Host == "" {
		return fail(StorageProviderBootstrapErrorInvalidEmulatorHost, fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q", cfg.EmulatorHost))
	}
	return nil
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
