// Package usecase contains application business logic.
package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
)

const (
	// PersonalizeKeyPath holds the two appearance flags.
	PersonalizeKeyPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Themes\Personalize`

	AppsLightValue   = "AppsUseLightTheme"
	SystemLightValue = "SystemUsesLightTheme"
)

// LightValue is the DWORD written for a dark or light appearance.
func LightValue(dark bool) uint32 {
	if dark {
		return 0
	}
	return 1
}

// Projector writes the appearance flags permitted by its scope.
// It never reads them back.
type Projector struct {
	personalize domain.ValueStore
	scope       domain.Scope
	logger      *zap.Logger
}

// NewProjector creates a projector over an open Personalize key.
func NewProjector(personalize domain.ValueStore, scope domain.Scope, logger *zap.Logger) *Projector {
	return &Projector{
		personalize: personalize,
		scope:       scope,
		logger:      logger,
	}
}

// Project writes LightValue(dark) to the flags in scope. It reports which
// flags were written; the first failed write aborts.
func (p *Projector) Project(dark bool) (appsWritten, systemWritten bool, err error) {
	value := LightValue(dark)

	if p.scope.WritesApps() {
		if err := p.personalize.SetDWord(AppsLightValue, value); err != nil {
			return false, false, fmt.Errorf("failed to write %s: %w", AppsLightValue, err)
		}
		appsWritten = true
	}

	if p.scope.WritesSystem() {
		if err := p.personalize.SetDWord(SystemLightValue, value); err != nil {
			return appsWritten, false, fmt.Errorf("failed to write %s: %w", SystemLightValue, err)
		}
		systemWritten = true
	}

	p.logger.Debug("appearance projected",
		zap.Uint32("value", value),
		zap.String("scope", string(p.scope)))

	return appsWritten, systemWritten, nil
}
