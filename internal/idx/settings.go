package idx

import (
	"fmt"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	menuButtonSel       = "#user_menu_btn-button"
	hogScreenLinkSel    = "#tools_HOG_1"
	logoutLinkSel       = "#user_menu_logout"
	groupSelectorSel    = "#cboGroup"
	currentSelectionSel = "#cboGroup [class^='rcm-select__single-value']"
	settingsOKSel       = "#cmdOK"
	settingsCancelSel   = "#cmdCancel"
)

// groupLabels maps each posting group number to its dropdown entry text.
var groupLabels = map[int]string{
	2: "2-Grp-2 Northwell Health",
	3: "3-Grp-3 NH Physician Partners",
	4: "4-Grp-4 MANAGEMENT SERVICES",
	5: "5-Grp-5 HOSPITAL SERVICES",
	6: "6-GRP-6 ORLIN AND COHEN",
}

// groupNumbers is the inverse of groupLabels.
var groupNumbers = func() map[string]int {
	m := make(map[string]int, len(groupLabels))
	for n, label := range groupLabels {
		m[label] = n
	}
	return m
}()

// Groups returns the configured group numbers in ascending order.
func Groups() []int {
	return []int{2, 3, 4, 5, 6}
}

// SettingsScreen drives the user-settings (HOG) screen where the active
// posting group is selected.
type SettingsScreen struct {
	drv browser.Driver
}

func NewSettingsScreen(drv browser.Driver) *SettingsScreen {
	return &SettingsScreen{drv: drv}
}

func (s *SettingsScreen) openMenu() error {
	if err := s.drv.WaitVisible(menuButtonSel, 10*time.Second); err != nil {
		return err
	}
	return s.drv.Click(menuButtonSel)
}

func (s *SettingsScreen) openHOGScreen() error {
	if err := s.openMenu(); err != nil {
		return err
	}
	if err := s.drv.WaitVisible(hogScreenLinkSel, 10*time.Second); err != nil {
		return err
	}
	return s.drv.Click(hogScreenLinkSel)
}

// currentGroup reads the group dropdown, opening the HOG screen first when
// it is not already showing. The second return reports whether this call
// opened the screen itself.
func (s *SettingsScreen) currentGroup() (int, bool, error) {
	opened := false
	if err := s.drv.WaitVisible(groupSelectorSel, 5*time.Second); err != nil {
		if err := s.openHOGScreen(); err != nil {
			return 0, false, fmt.Errorf("could not open settings screen: %w", err)
		}
		if err := s.drv.WaitVisible(groupSelectorSel, 5*time.Second); err != nil {
			return 0, false, fmt.Errorf("group selector not available: %w", err)
		}
		opened = true
	}

	label, err := s.drv.ReadText(currentSelectionSel)
	if err != nil {
		return 0, opened, fmt.Errorf("could not read current group selection: %w", err)
	}
	label = strings.TrimSpace(label)
	group, ok := groupNumbers[label]
	if !ok {
		return 0, opened, fmt.Errorf("unrecognized group selection %q", label)
	}
	return group, opened, nil
}

// EnsureGroup switches the active posting group to target. Idempotent: when
// the dropdown already shows the target, no key-presses and no button
// clicks are sent. The settings dialog is dismissed only when this call had
// to open it to read the selection.
func (s *SettingsScreen) EnsureGroup(target int) error {
	label, ok := groupLabels[target]
	if !ok {
		return fmt.Errorf("invalid target group number %d, must be one of %v", target, Groups())
	}

	current, opened, err := s.currentGroup()
	if err != nil {
		return err
	}

	if current == target {
		logger.Log.Infof("Group %d is already selected. No action needed.", target)
		if opened {
			return s.drv.Click(settingsCancelSel)
		}
		return nil
	}

	// Reach the target entry by signed distance: down for a higher number,
	// up for a lower one.
	distance := target - current
	key := "ArrowDown"
	presses := distance
	if distance < 0 {
		key = "ArrowUp"
		presses = -distance
	}

	if err := s.drv.Click(groupSelectorSel); err != nil {
		return fmt.Errorf("could not focus group selector: %w", err)
	}
	for i := 0; i < presses; i++ {
		if err := s.drv.Press(groupSelectorSel, key); err != nil {
			return fmt.Errorf("arrow press %d/%d failed: %w", i+1, presses, err)
		}
	}
	if err := s.drv.Press(groupSelectorSel, "Enter"); err != nil {
		return err
	}

	if !s.waitSelectionText(label, 5*time.Second) {
		return fmt.Errorf("group selector did not land on %q", label)
	}
	logger.Log.Infof("Changed group to %q.", label)

	// Commit and wait for the page transition; the old selector goes stale.
	if err := s.drv.Click(settingsOKSel); err != nil {
		return fmt.Errorf("could not save group selection: %w", err)
	}
	if err := s.drv.WaitStale(groupSelectorSel, 15*time.Second); err != nil {
		return fmt.Errorf("page did not navigate after group save: %w", err)
	}
	return nil
}

func (s *SettingsScreen) waitSelectionText(want string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		text, err := s.drv.ReadText(currentSelectionSel)
		if err == nil && strings.TrimSpace(text) == want {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(250 * time.Millisecond)
	}
}

// Logout ends the remote session via the user menu. Best effort: errors are
// returned for logging but the caller proceeds with teardown regardless.
func (s *SettingsScreen) Logout() error {
	if err := s.openMenu(); err != nil {
		return fmt.Errorf("could not open user menu for logout: %w", err)
	}
	if err := s.drv.WaitVisible(logoutLinkSel, 5*time.Second); err != nil {
		return fmt.Errorf("logout control not available: %w", err)
	}
	return s.drv.Click(logoutLinkSel)
}
