// Package usage implements the read-only queries over a generated roster:
// aggregation, filtering, sorting and per-customer summaries. Every function
// is pure and safe to call from any goroutine as long as the roster is not
// mutated.
package usage

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/models"
)

// WindowBounds returns the first and last ISO dates of a daysBack-day window
// ending on today. ok is false when daysBack is not positive.
func WindowBounds(today time.Time, daysBack int) (start, end string, ok bool) {
	if daysBack <= 0 {
		return "", "", false
	}
	y, m, d := today.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	first := last.AddDate(0, 0, -(daysBack - 1))
	return first.Format(models.DateLayout), last.Format(models.DateLayout), true
}

// Aggregate sums usage for customers in scope for region over the
// daysBack-day window ending on today.
//
// Totals.Buckets counts the buckets of every in-scope customer regardless
// of the window. Totals.AvgStorageTB divides the summed storage by the
// number of distinct dates that had data.
func Aggregate(customers []models.Customer, region string, daysBack int, today time.Time) models.Aggregate {
	start, end, ok := WindowBounds(today, daysBack)

	var totals models.Totals
	var totalStorage float64
	perDay := make(map[string]*models.DailyMetric)

	for i := range customers {
		c := &customers[i]
		if !c.InRegion(region) {
			continue
		}
		totals.Buckets += len(c.Buckets)
		if !ok {
			continue
		}
		for _, p := range c.Daily {
			if p.Date < start || p.Date > end {
				continue
			}
			totalStorage += p.StorageTB
			totals.EgressTB += p.EgressTB
			totals.Requests += p.Requests

			day, found := perDay[p.Date]
			if !found {
				day = &models.DailyMetric{Date: p.Date}
				perDay[p.Date] = day
			}
			day.StorageTB += p.StorageTB
			day.EgressTB += p.EgressTB
			day.Requests += p.Requests
		}
	}

	totals.AvgStorageTB = totalStorage / float64(max(1, len(perDay)))

	series := lo.Map(lo.Values(perDay), func(d *models.DailyMetric, _ int) models.DailyMetric {
		return *d
	})
	slices.SortFunc(series, func(a, b models.DailyMetric) int {
		return strings.Compare(a.Date, b.Date)
	})

	return models.Aggregate{Totals: totals, Series: series}
}
