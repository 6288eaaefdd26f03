// Package models defines data structures and domain types.
package models

// AllRegions is the region filter value that matches every customer.
const AllRegions = "all"

// Region is one entry of the fixed storage region catalog.
type Region struct {
	ID    string
	Label string
}

// Regions is the region catalog in display order.
var Regions = []Region{
	{ID: "us-east-005", Label: "US-East-005"},
	{ID: "us-west-001", Label: "US-West-001"},
	{ID: "us-west-004", Label: "US-West-004"},
	{ID: "eu-central-003", Label: "EU-Central-003"},
	{ID: "ca-east-006", Label: "CA-East-006"},
}

// RegionLabel returns the display label for a region id. Unknown ids are
// returned unchanged and AllRegions maps to "All regions".
func RegionLabel(id string) string {
	if id == AllRegions {
		return "All regions"
	}
	for _, r := range Regions {
		if r.ID == id {
			return r.Label
		}
	}
	return id
}

// IsKnownRegion reports whether id is AllRegions or a catalog id.
func IsKnownRegion(id string) bool {
	if id == AllRegions {
		return true
	}
	for _, r := range Regions {
		if r.ID == id {
			return true
		}
	}
	return false
}

// RegionChoices returns the filter cycle: AllRegions followed by every catalog id.
func RegionChoices() []string {
	choices := make([]string, 0, len(Regions)+1)
	choices = append(choices, AllRegions)
	for _, r := range Regions {
		choices = append(choices, r.ID)
	}
	return choices
}
