package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/nightlight"
)

const (
	// NightLightKeyPath holds the Night Light state blob.
	NightLightKeyPath = `Software\Microsoft\Windows\CurrentVersion\CloudStore\Store\DefaultAccount\Current\default$windows.data.bluelightreduction.bluelightreductionstate\windows.data.bluelightreduction.bluelightreductionstate`
	// NightLightValue is the REG_BINARY value under NightLightKeyPath.
	NightLightValue = "Data"
)

// ReconcilerImpl implements domain.Reconciler: read blob, decode, project.
type ReconcilerImpl struct {
	nightLight domain.ValueStore
	projector  *Projector
	logger     *zap.Logger
}

// NewReconciler creates a reconciler over an open Night Light key.
func NewReconciler(nightLight domain.ValueStore, projector *Projector, logger *zap.Logger) domain.Reconciler {
	return &ReconcilerImpl{
		nightLight: nightLight,
		projector:  projector,
		logger:     logger,
	}
}

// Reconcile performs one pass.
func (r *ReconcilerImpl) Reconcile(ctx context.Context) (*domain.ReconcileResult, error) {
	blob, err := ReadNightLight(r.nightLight)
	if err != nil {
		return nil, err
	}

	dark := nightlight.IsActive(blob)
	r.logger.Info("night light state read, updating theme",
		zap.String("night_light", nightlight.Describe(dark)),
		zap.Int("blob_len", len(blob)))

	result := &domain.ReconcileResult{
		Dark:       dark,
		ExecutedAt: time.Now(),
	}

	result.AppsWritten, result.SystemWritten, err = r.projector.Project(dark)
	if err != nil {
		return result, err
	}
	return result, nil
}

// ReadNightLight reads the state blob. A missing value reads as empty.
func ReadNightLight(key domain.ValueStore) ([]byte, error) {
	blob, err := key.GetBinary(NightLightValue)
	if errors.Is(err, domain.ErrValueNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read night light state: %w", err)
	}
	return blob, nil
}

// Ensure ReconcilerImpl implements domain.Reconciler.
var _ domain.Reconciler = (*ReconcilerImpl)(nil)
