package idx

import (
	"fmt"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
)

// fakeDriver is a scripted browser.Driver for exercising screen navigators
// without a real session. Selectors listed in visible answer WaitVisible
// and IsPresent; texts and values answer the read calls. It also simulates
// the group dropdown: arrow presses move the selection and Enter commits
// the label, so signed-distance switching can be observed end to end.
type fakeDriver struct {
	visible map[string]bool
	texts   map[string]string
	values  map[string]string
	checked map[string]bool
	cells   []browser.Cell

	// clickShows marks a selector as visible once another one is clicked,
	// for dialogs that open on demand.
	clickShows map[string]string
	// dropSets makes SetText on a selector silently lose its value the
	// given number of times, for fields that fail to retain input.
	dropSets map[string]int

	clicks   []string
	presses  []string
	setTexts []string

	group int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		visible:    make(map[string]bool),
		texts:      make(map[string]string),
		values:     make(map[string]string),
		checked:    make(map[string]bool),
		clickShows: make(map[string]string),
		dropSets:   make(map[string]int),
	}
}

func (d *fakeDriver) Goto(url string) error { return nil }

func (d *fakeDriver) Click(sel string) error {
	d.clicks = append(d.clicks, sel)
	if shown := d.clickShows[sel]; shown != "" {
		d.visible[shown] = true
	}
	return nil
}

func (d *fakeDriver) SetText(sel, value string) error {
	d.setTexts = append(d.setTexts, sel)
	if d.dropSets[sel] > 0 {
		d.dropSets[sel]--
		d.values[sel] = ""
		return nil
	}
	d.values[sel] = value
	return nil
}

func (d *fakeDriver) Press(sel, key string) error {
	d.presses = append(d.presses, key)
	switch key {
	case "ArrowDown":
		d.group++
	case "ArrowUp":
		d.group--
	case "Enter":
		if label, ok := groupLabels[d.group]; ok {
			d.texts[currentSelectionSel] = label
		}
	}
	return nil
}

func (d *fakeDriver) ReadValue(sel string) (string, error) { return d.values[sel], nil }
func (d *fakeDriver) ReadText(sel string) (string, error)  { return d.texts[sel], nil }
func (d *fakeDriver) IsPresent(sel string) bool            { return d.visible[sel] }

func (d *fakeDriver) IsChecked(sel string) (bool, error) { return d.checked[sel], nil }

func (d *fakeDriver) WaitVisible(sel string, timeout time.Duration) error {
	if d.visible[sel] {
		return nil
	}
	return fmt.Errorf("element %s not visible", sel)
}

func (d *fakeDriver) WaitStale(sel string, timeout time.Duration) error { return nil }

func (d *fakeDriver) WaitValue(sel, expected string, timeout time.Duration) bool {
	return d.values[sel] == expected
}

func (d *fakeDriver) Texts(sel string) ([]string, error) { return nil, nil }

func (d *fakeDriver) GridCells(sel string) ([]browser.Cell, error) { return d.cells, nil }

func (d *fakeDriver) ScrollIntoView(sel string) error { return nil }
func (d *fakeDriver) Screenshot(path string) error    { return nil }
func (d *fakeDriver) Close() error                    { return nil }

func (d *fakeDriver) pressCount(key string) int {
	n := 0
	for _, k := range d.presses {
		if k == key {
			n++
		}
	}
	return n
}

func (d *fakeDriver) clicked(sel string) bool {
	for _, c := range d.clicks {
		if c == sel {
			return true
		}
	}
	return false
}
