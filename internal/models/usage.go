package models

// Totals holds the headline numbers for the current scope and window.
//
// AvgStorageTB is the storage summed across every in-scope customer and
// every in-window day, divided by the number of distinct days. It is the
// average daily fleet total, not a per-customer mean.
type Totals struct {
	AvgStorageTB float64
	EgressTB     float64
	Requests     int
	Buckets      int
}

// Aggregate is the result of aggregating a roster over a region and window.
type Aggregate struct {
	Totals Totals
	// Series holds one entry per date, summed across customers, ascending by date.
	Series []DailyMetric
}

// CustomerSummary holds trailing 30-day figures for a single customer.
type CustomerSummary struct {
	AvgStorageTB float64
	SumEgressTB  float64
	Buckets      int
}

// BucketUsage is a bucket's estimated share of its customer's recent usage.
type BucketUsage struct {
	Name         string
	Region       string
	AvgStorageTB float64
	SumEgressTB  float64
	StorageShare float64
	EgressShare  float64
}
