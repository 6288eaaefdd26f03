package models

import "fmt"

// Window is a lookback window expressed in days.
type Window int

// Window choices offered by the dashboard.
const (
	Window7Days  Window = 7
	Window30Days Window = 30
	Window60Days Window = 60
	Window90Days Window = 90
)

// DefaultWindow is the window selected at startup.
const DefaultWindow = Window30Days

var windowCycle = []Window{Window7Days, Window30Days, Window60Days, Window90Days}

// String returns the short display name for a window, e.g. "30d".
func (w Window) String() string {
	return fmt.Sprintf("%dd", int(w))
}

// Days returns the window length in days.
func (w Window) Days() int {
	return int(w)
}

// Next cycles to the next window choice. Values outside the cycle reset to
// the first choice.
func (w Window) Next() Window {
	for i, c := range windowCycle {
		if c == w {
			return windowCycle[(i+1)%len(windowCycle)]
		}
	}
	return windowCycle[0]
}

// SortKey identifies the column the customer list is ordered by.
type SortKey string

// Sort keys.
const (
	SortByName    SortKey = "name"
	SortByBuckets SortKey = "buckets"
	SortByStorage SortKey = "storage"
	SortByEgress  SortKey = "egress"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the active sort column and direction.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSort orders customers by name, ascending.
var DefaultSort = SortState{Key: SortByName, Direction: Ascending}

// Toggle returns the state after the user picks key. Picking the active key
// flips the direction; a new key starts ascending for name and descending
// for the numeric columns.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Direction == Ascending {
			return SortState{Key: key, Direction: Descending}
		}
		return SortState{Key: key, Direction: Ascending}
	}
	if key == SortByName {
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: Descending}
}

// Arrow returns a glyph for the direction.
func (s SortState) Arrow() string {
	if s.Direction == Descending {
		return "↓"
	}
	return "↑"
}

// ViewState is the full user-controlled state of the dashboard. It is a
// value type: every modifier returns a new ViewState.
type ViewState struct {
	Region     string
	Window     Window
	Query      string
	Sort       SortState
	SelectedID string
}

// NewViewState returns the startup view for the given region and window.
func NewViewState(region string, window Window) ViewState {
	if region == "" {
		region = AllRegions
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return ViewState{
		Region: region,
		Window: window,
		Sort:   DefaultSort,
	}
}

// WithRegion returns a copy with the region filter replaced.
func (v ViewState) WithRegion(region string) ViewState {
	v.Region = region
	return v
}

// NextRegion returns a copy with the region filter advanced through
// RegionChoices.
func (v ViewState) NextRegion() ViewState {
	choices := RegionChoices()
	for i, c := range choices {
		if c == v.Region {
			v.Region = choices[(i+1)%len(choices)]
			return v
		}
	}
	v.Region = AllRegions
	return v
}

// WithWindow returns a copy with the lookback window replaced.
func (v ViewState) WithWindow(w Window) ViewState {
	v.Window = w
	return v
}

// NextWindow returns a copy with the window advanced to the next choice.
func (v ViewState) NextWindow() ViewState {
	v.Window = v.Window.Next()
	return v
}

// WithQuery returns a copy with the name search replaced.
func (v ViewState) WithQuery(q string) ViewState {
	v.Query = q
	return v
}

// ToggleSort returns a copy with the sort toggled on key.
func (v ViewState) ToggleSort(key SortKey) ViewState {
	v.Sort = v.Sort.Toggle(key)
	return v
}

// Select returns a copy with a customer opened in the detail view.
func (v ViewState) Select(id string) ViewState {
	v.SelectedID = id
	return v
}

// ClearSelection returns a copy with the detail view closed.
func (v ViewState) ClearSelection() ViewState {
	v.SelectedID = ""
	return v
}
