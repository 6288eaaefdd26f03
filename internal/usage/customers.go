package usage

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/models"
)

// SummaryDays is the trailing window used for per-customer figures.
const SummaryDays = 30

// FilterCustomers returns the customers in scope for region whose name
// contains query, ignoring case. An empty query matches every name.
func FilterCustomers(customers []models.Customer, region, query string) []models.Customer {
	q := strings.ToLower(query)
	return lo.Filter(customers, func(c models.Customer, _ int) bool {
		return c.InRegion(region) && (q == "" || strings.Contains(strings.ToLower(c.Name), q))
	})
}

// Summarize returns the customer's trailing 30-day average storage and
// egress sum, computed over all entries when fewer than 30 exist.
func Summarize(c models.Customer) models.CustomerSummary {
	last := c.LastDays(SummaryDays)
	storage := lo.SumBy(last, func(d models.DailyMetric) float64 { return d.StorageTB })
	return models.CustomerSummary{
		AvgStorageTB: storage / float64(max(1, len(last))),
		SumEgressTB:  lo.SumBy(last, func(d models.DailyMetric) float64 { return d.EgressTB }),
		Buckets:      len(c.Buckets),
	}
}

// SortCustomers returns a new slice ordered by state. Equal keys keep their
// input order.
func SortCustomers(customers []models.Customer, state models.SortState) []models.Customer {
	type entry struct {
		customer models.Customer
		summary  models.CustomerSummary
	}
	entries := lo.Map(customers, func(c models.Customer, _ int) entry {
		return entry{customer: c, summary: Summarize(c)}
	})

	slices.SortStableFunc(entries, func(a, b entry) int {
		var c int
		switch state.Key {
		case models.SortByBuckets:
			c = cmp.Compare(a.summary.Buckets, b.summary.Buckets)
		case models.SortByStorage:
			c = cmp.Compare(a.summary.AvgStorageTB, b.summary.AvgStorageTB)
		case models.SortByEgress:
			c = cmp.Compare(a.summary.SumEgressTB, b.summary.SumEgressTB)
		default:
			c = strings.Compare(a.customer.Name, b.customer.Name)
		}
		if state.Direction == models.Descending {
			return -c
		}
		return c
	})

	return lo.Map(entries, func(e entry, _ int) models.Customer { return e.customer })
}

// FindCustomer returns the customer with id.
func FindCustomer(customers []models.Customer, id string) (models.Customer, bool) {
	return lo.Find(customers, func(c models.Customer) bool { return c.ID == id })
}

// Trend returns the trailing n daily entries of a customer.
func Trend(c models.Customer, n int) []models.DailyMetric {
	return c.LastDays(n)
}

// BucketBreakdown estimates each bucket's share of the customer's trailing
// 30-day usage. Storage is the 30-day average scaled by the storage weight
// and egress is the 30-day sum scaled by the egress weight. A zero weight
// falls back to an even split.
func BucketBreakdown(c models.Customer) []models.BucketUsage {
	last := c.LastDays(SummaryDays)
	avgStorage := lo.SumBy(last, func(d models.DailyMetric) float64 { return d.StorageTB }) / SummaryDays
	sumEgress := lo.SumBy(last, func(d models.DailyMetric) float64 { return d.EgressTB })
	even := 1 / float64(max(1, len(c.Buckets)))

	return lo.Map(c.Buckets, func(b models.Bucket, _ int) models.BucketUsage {
		sw := b.StorageWeight
		if sw == 0 {
			sw = even
		}
		ew := b.EgressWeight
		if ew == 0 {
			ew = even
		}
		return models.BucketUsage{
			Name:         b.Name,
			Region:       b.Region,
			AvgStorageTB: avgStorage * sw,
			SumEgressTB:  sumEgress * ew,
			StorageShare: sw,
			EgressShare:  ew,
		}
	})
}

// DetailSummary returns the figures shown in the customer detail view. The
// storage average always divides by 30, so customers with a shorter history
// read lower than Summarize reports.
func DetailSummary(c models.Customer) models.CustomerSummary {
	last := c.LastDays(SummaryDays)
	return models.CustomerSummary{
		AvgStorageTB: lo.SumBy(last, func(d models.DailyMetric) float64 { return d.StorageTB }) / SummaryDays,
		SumEgressTB:  lo.SumBy(last, func(d models.DailyMetric) float64 { return d.EgressTB }),
		Buckets:      len(c.Buckets),
	}
}
