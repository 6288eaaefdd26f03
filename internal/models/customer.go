package models

import "slices"

// DateLayout is the ISO calendar date format used for DailyMetric.Date.
const DateLayout = "2006-01-02"

// HistoryDays is the number of daily entries every customer carries.
const HistoryDays = 90

// Customer is a simulated tenant with its buckets and daily usage history.
type Customer struct {
	ID      string
	Name    string
	Regions []string
	Buckets []Bucket
	Daily   []DailyMetric
}

// Bucket is a named storage container. StorageWeight and EgressWeight are
// the bucket's share of the customer's daily storage and egress; each set
// sums to 1 across a customer's buckets.
type Bucket struct {
	Name          string
	Region        string
	StorageWeight float64
	EgressWeight  float64
}

// DailyMetric is one day of customer-level usage.
type DailyMetric struct {
	Date      string
	StorageTB float64
	EgressTB  float64
	Requests  int
}

// InRegion reports whether the customer is in scope for a region filter.
func (c *Customer) InRegion(region string) bool {
	if region == AllRegions {
		return true
	}
	return slices.Contains(c.Regions, region)
}

// LastDays returns the trailing n daily entries, or all of them when fewer exist.
func (c *Customer) LastDays(n int) []DailyMetric {
	if n <= 0 {
		return nil
	}
	if n >= len(c.Daily) {
		return c.Daily
	}
	return c.Daily[len(c.Daily)-n:]
}
