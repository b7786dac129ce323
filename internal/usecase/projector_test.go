package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/auto_dark_mode/internal/domain"
	"github.com/eliteGoblin/focusd/auto_dark_mode/test/fixtures"
)

func openPersonalize(t *testing.T, hive *fixtures.MemoryHive) domain.ValueStore {
	t.Helper()
	key, err := hive.Open(PersonalizeKeyPath, domain.AccessCreate)
	require.NoError(t, err)
	t.Cleanup(func() { key.Close() })
	return key
}

func writtenNames(writes []fixtures.Write) []string {
	names := make([]string, 0, len(writes))
	for _, w := range writes {
		names = append(names, w.Name)
	}
	return names
}

func TestLightValue(t *testing.T) {
	assert.Equal(t, uint32(0), LightValue(true))
	assert.Equal(t, uint32(1), LightValue(false))
}

// TestProjector_ScopeTable checks every (dark, scope) pair writes exactly
// the mandated values and nothing else.
func TestProjector_ScopeTable(t *testing.T) {
	tests := []struct {
		scope     domain.Scope
		wantNames []string
	}{
		{domain.ScopeBoth, []string{AppsLightValue, SystemLightValue}},
		{domain.ScopeAppOnly, []string{AppsLightValue}},
		{domain.ScopeSystemOnly, []string{SystemLightValue}},
	}

	for _, tt := range tests {
		for _, dark := range []bool{true, false} {
			t.Run(string(tt.scope), func(t *testing.T) {
				hive := fixtures.NewMemoryHive()
				p := NewProjector(openPersonalize(t, hive), tt.scope, zap.NewNop())

				apps, system, err := p.Project(dark)
				require.NoError(t, err)

				writes := hive.Writes()
				assert.ElementsMatch(t, tt.wantNames, writtenNames(writes))
				for _, w := range writes {
					assert.Equal(t, LightValue(dark), w.Value)
				}
				assert.Equal(t, tt.scope.WritesApps(), apps)
				assert.Equal(t, tt.scope.WritesSystem(), system)
			})
		}
	}
}

// TestProjector_AppOnlyTransition: dark true->false under AppOnly changes
// AppsUseLightTheme 0->1 and never writes SystemUsesLightTheme.
func TestProjector_AppOnlyTransition(t *testing.T) {
	hive := fixtures.NewMemoryHive()
	hive.Put(PersonalizeKeyPath, SystemLightValue, uint32(0))
	p := NewProjector(openPersonalize(t, hive), domain.ScopeAppOnly, zap.NewNop())

	_, _, err := p.Project(true)
	require.NoError(t, err)
	v, _ := hive.Value(PersonalizeKeyPath, AppsLightValue)
	assert.Equal(t, uint32(0), v)

	hive.ResetWrites()
	_, _, err = p.Project(false)
	require.NoError(t, err)

	v, _ = hive.Value(PersonalizeKeyPath, AppsLightValue)
	assert.Equal(t, uint32(1), v)
	assert.Equal(t, []string{AppsLightValue}, writtenNames(hive.Writes()))

	sys, _ := hive.Value(PersonalizeKeyPath, SystemLightValue)
	assert.Equal(t, uint32(0), sys, "system flag must be left untouched")
}

func TestProjector_FirstFailureAborts(t *testing.T) {
	hive := fixtures.NewMemoryHive()
	writeErr := errors.New("access denied")
	hive.FailWrites[AppsLightValue] = writeErr
	p := NewProjector(openPersonalize(t, hive), domain.ScopeBoth, zap.NewNop())

	apps, system, err := p.Project(true)

	assert.ErrorIs(t, err, writeErr)
	assert.False(t, apps)
	assert.False(t, system)
	assert.Empty(t, hive.Writes())
}

func TestProjector_SystemFailureReportsAppsWritten(t *testing.T) {
	hive := fixtures.NewMemoryHive()
	hive.FailWrites[SystemLightValue] = errors.New("access denied")
	p := NewProjector(openPersonalize(t, hive), domain.ScopeBoth, zap.NewNop())

	apps, system, err := p.Project(false)

	assert.Error(t, err)
	assert.True(t, apps)
	assert.False(t, system)
}
