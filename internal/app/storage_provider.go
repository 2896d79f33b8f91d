package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
)

var newMediaStore = media.New

type MediaBootstrapErrorCode string

const (
	MediaBootstrapErrorInvalidMode         MediaBootstrapErrorCode = "invalid_mode"
	MediaBootstrapErrorMissingBucket       MediaBootstrapErrorCode = "missing_bucket"
	MediaBootstrapErrorMissingEmulatorHost MediaBootstrapErrorCode = "missing_emulator_host"
	MediaBootstrapErrorConnectFailed       MediaBootstrapErrorCode = "connect_failed"
)

type MediaBootstrapError struct {
	Code  MediaBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *MediaBootstrapError) Error() string {
	if e == nil {
		return "media store bootstrap failed"
	}
	return fmt.Sprintf("media store bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *MediaBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// checkMediaConfig rejects configurations that cannot work before any client
// is built.
func checkMediaConfig(cfg media.Config) error {
	mode := media.Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	fail := func(code MediaBootstrapErrorCode, cause error) error {
		return &MediaBootstrapError{Code: code, Mode: string(mode), Cause: cause}
	}
	switch mode {
	case "", media.ModeLocal:
		return nil
	case media.ModeGCS, media.ModeS3:
	case media.ModeGCSEmulator:
		if strings.TrimSpace(cfg.EmulatorHost) == "" {
			return fail(MediaBootstrapErrorMissingEmulatorHost, errors.New("STORAGE_EMULATOR_HOST is required"))
		}
	default:
		return fail(MediaBootstrapErrorInvalidMode, fmt.Errorf("unsupported media store mode %q", cfg.Mode))
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return fail(MediaBootstrapErrorMissingBucket, errors.New("MEDIA_BUCKET is required"))
	}
	return nil
}

func resolveMediaStore(ctx context.Context, log *logger.Logger, cfg media.Config, metrics *observability.Metrics) (media.Store, error) {
	if err := checkMediaConfig(cfg); err != nil {
		metrics.IncMedia("bootstrap", err)
		log.Error("Media store selection failed", "mode", cfg.Mode, "error", err)
		return nil, err
	}
	log.Info("Selecting media store", "mode", cfg.Mode, "bucket", cfg.Bucket)

	store, err := newMediaStore(ctx, cfg, log)
	if err != nil {
		err = &MediaBootstrapError{Code: MediaBootstrapErrorConnectFailed, Mode: string(cfg.Mode), Cause: err}
		metrics.IncMedia("bootstrap", err)
		log.Error("Media store bootstrap failed", "mode", cfg.Mode, "error", err)
		return nil, err
	}
	metrics.IncMedia("bootstrap", nil)
	return instrumentMediaStore(store, metrics), nil
}
