package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/j-veylop/partner-console-tui/internal/models"
)

const (
	// DefaultSeed is the seed used when none is configured.
	DefaultSeed = 1337
	// CustomerCount is the size of the generated roster.
	CustomerCount = 100

	maxRegionsPerCustomer = 2
	maxBucketsPerCustomer = 5
)

// GenerateAt builds the roster for seed with the daily series ending on the
// calendar date of today. Every draw comes from a single stream in a fixed
// order, so equal inputs give identical rosters.
func GenerateAt(seed int, today time.Time) []models.Customer {
	rng := NewRand(seed)
	start := StartDate(today)

	dates := make([]string, models.HistoryDays)
	for d := range dates {
		dates[d] = start.AddDate(0, 0, d).Format(models.DateLayout)
	}

	customers := make([]models.Customer, 0, CustomerCount)
	for i := 1; i <= CustomerCount; i++ {
		customers = append(customers, generateCustomer(rng, i, dates))
	}
	return customers
}

// StartDate returns the first calendar date of the series ending on today.
func StartDate(today time.Time) time.Time {
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return end.AddDate(0, 0, -(models.HistoryDays - 1))
}

func generateCustomer(rng *Rand, i int, dates []string) models.Customer {
	name := fmt.Sprintf("Customer %03d", i)

	regionCount := 1 + rng.Intn(maxRegionsPerCustomer)
	drawn := make([]string, regionCount)
	for k := range drawn {
		drawn[k] = models.Regions[rng.Intn(len(models.Regions))].ID
	}

	bucketCount := 1 + rng.Intn(maxBucketsPerCustomer)
	buckets := make([]models.Bucket, bucketCount)
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	for b := range buckets {
		buckets[b] = models.Bucket{
			Name:   fmt.Sprintf("%s-bucket-%d", slug, b+1),
			Region: drawn[rng.Intn(len(drawn))],
		}
	}

	var storageSum, egressSum float64
	for b := range buckets {
		buckets[b].StorageWeight = 0.5 + float64(rng.Float64()*1.5)
		storageSum += buckets[b].StorageWeight
		buckets[b].EgressWeight = 0.3 + float64(rng.Float64()*2.0)
		egressSum += buckets[b].EgressWeight
	}
	for b := range buckets {
		buckets[b].StorageWeight /= storageSum
		buckets[b].EgressWeight /= egressSum
	}

	daily := make([]models.DailyMetric, len(dates))
	base := 2 + float64(rng.Float64()*150)
	for d, date := range dates {
		base = math.Max(1, base+(rng.Float64()-0.45))

		scale := 0.02 + float64(rng.Float64()*0.06)
		burst := 1.0
		if rng.Float64() > 0.15 {
			burst = 0.4
		}
		egress := math.Max(0, float64(base*scale)*burst)
		requests := int(math.Floor(500 + float64(rng.Float64()*20000)))

		daily[d] = models.DailyMetric{
			Date:      date,
			StorageTB: Round2(base),
			EgressTB:  Round2(egress),
			Requests:  requests,
		}
	}

	return models.Customer{
		ID:      fmt.Sprintf("cust-%d", i),
		Name:    name,
		Regions: lo.Uniq(drawn),
		Buckets: buckets,
		Daily:   daily,
	}
}

// Round2 rounds v to two decimal places using the exact binary value of v.
// A value exactly halfway between two cents rounds up.
func Round2(v float64) float64 {
	if e := v * 8; v > 0 && e == math.Trunc(e) && math.Mod(e, 2) == 1 {
		return math.Ceil(v*100) / 100
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
