package idx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsFixture(currentGroup int) (*SettingsScreen, *fakeDriver) {
	drv := newFakeDriver()
	drv.visible[groupSelectorSel] = true
	drv.texts[currentSelectionSel] = groupLabels[currentGroup]
	drv.group = currentGroup
	return NewSettingsScreen(drv), drv
}

func TestEnsureGroupAlreadySelected(t *testing.T) {
	screen, drv := settingsFixture(3)

	require.NoError(t, screen.EnsureGroup(3))

	assert.Empty(t, drv.presses, "no key presses when the group already matches")
	assert.Empty(t, drv.clicks, "a matching group touches nothing on screen")
}

func TestEnsureGroupAlreadySelectedDismissesOpenedDialog(t *testing.T) {
	drv := newFakeDriver()
	drv.visible[menuButtonSel] = true
	drv.visible[hogScreenLinkSel] = true
	drv.clickShows[hogScreenLinkSel] = groupSelectorSel
	drv.texts[currentSelectionSel] = groupLabels[3]
	drv.group = 3
	screen := NewSettingsScreen(drv)

	require.NoError(t, screen.EnsureGroup(3))

	assert.Empty(t, drv.presses)
	assert.True(t, drv.clicked(settingsCancelSel), "the dialog this call opened is closed again")
	assert.False(t, drv.clicked(settingsOKSel))
}

func TestEnsureGroupSwitchesDown(t *testing.T) {
	screen, drv := settingsFixture(3)

	require.NoError(t, screen.EnsureGroup(5))

	assert.Equal(t, 2, drv.pressCount("ArrowDown"))
	assert.Zero(t, drv.pressCount("ArrowUp"))
	assert.Equal(t, 1, drv.pressCount("Enter"))
	assert.True(t, drv.clicked(settingsOKSel))
}

func TestEnsureGroupSwitchesUp(t *testing.T) {
	screen, drv := settingsFixture(6)

	require.NoError(t, screen.EnsureGroup(2))

	assert.Equal(t, 4, drv.pressCount("ArrowUp"))
	assert.Zero(t, drv.pressCount("ArrowDown"))
	assert.True(t, drv.clicked(settingsOKSel))
}

func TestEnsureGroupRejectsUnknownGroup(t *testing.T) {
	screen, _ := settingsFixture(3)

	err := screen.EnsureGroup(7)
	assert.Error(t, err)
}

func TestEnsureGroupUnrecognizedSelection(t *testing.T) {
	drv := newFakeDriver()
	drv.visible[groupSelectorSel] = true
	drv.texts[currentSelectionSel] = "1-Some Retired Group"
	screen := NewSettingsScreen(drv)

	err := screen.EnsureGroup(3)
	assert.Error(t, err)
	assert.Empty(t, drv.presses)
}
