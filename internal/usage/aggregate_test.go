package usage

import (
	"math"
	"testing"
	"time"

	"github.com/j-veylop/partner-console-tui/internal/generator"
	"github.com/j-veylop/partner-console-tui/internal/models"
)

var testToday = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func testRoster(t *testing.T) []models.Customer {
	t.Helper()
	return generator.GenerateAt(generator.DefaultSeed, testToday)
}

func TestAggregate_AllRegions30Days(t *testing.T) {
	agg := Aggregate(testRoster(t), models.AllRegions, 30, testToday)

	if agg.Totals.Buckets != 300 {
		t.Errorf("Buckets = %d, want 300", agg.Totals.Buckets)
	}
	if len(agg.Series) != 30 {
		t.Fatalf("len(Series) = %d, want 30", len(agg.Series))
	}
	if agg.Totals.Requests != 31012431 {
		t.Errorf("Requests = %d, want 31012431", agg.Totals.Requests)
	}
	if math.Abs(agg.Totals.AvgStorageTB-7416.92966666668) > 1e-6 {
		t.Errorf("AvgStorageTB = %v, want ~7416.93", agg.Totals.AvgStorageTB)
	}
	if math.Abs(agg.Totals.EgressTB-5380.42) > 1e-6 {
		t.Errorf("EgressTB = %v, want ~5380.42", agg.Totals.EgressTB)
	}
	if agg.Series[0].Date != "2024-02-15" || agg.Series[29].Date != "2024-03-15" {
		t.Errorf("series spans %s..%s", agg.Series[0].Date, agg.Series[29].Date)
	}
}

func TestAggregate_AverageIsFleetTotalPerDay(t *testing.T) {
	customers := testRoster(t)
	agg := Aggregate(customers, models.AllRegions, 30, testToday)

	var sum float64
	for _, d := range agg.Series {
		sum += d.StorageTB
	}
	want := sum / float64(len(agg.Series))
	if math.Abs(agg.Totals.AvgStorageTB-want) > 1e-6 {
		t.Errorf("AvgStorageTB = %v, want %v", agg.Totals.AvgStorageTB, want)
	}
	// A per-customer mean would be two orders of magnitude smaller.
	if agg.Totals.AvgStorageTB < 1000 {
		t.Errorf("AvgStorageTB = %v looks like a per-customer mean", agg.Totals.AvgStorageTB)
	}
}

func TestAggregate_SeriesMatchesPerDateSums(t *testing.T) {
	customers := testRoster(t)
	agg := Aggregate(customers, models.AllRegions, 30, testToday)

	for _, day := range agg.Series {
		var storage float64
		var requests int
		for _, c := range customers {
			for _, p := range c.Daily {
				if p.Date == day.Date {
					storage += p.StorageTB
					requests += p.Requests
				}
			}
		}
		if math.Abs(storage-day.StorageTB) > 1e-6 || requests != day.Requests {
			t.Errorf("%s: series %v/%d, recomputed %v/%d", day.Date, day.StorageTB, day.Requests, storage, requests)
		}
	}

	for i := 1; i < len(agg.Series); i++ {
		if agg.Series[i-1].Date >= agg.Series[i].Date {
			t.Fatalf("series not ascending at %d", i)
		}
	}
}

func TestAggregate_RegionScope(t *testing.T) {
	customers := testRoster(t)
	all := Aggregate(customers, models.AllRegions, 90, testToday)

	total := 0
	for _, c := range customers {
		total += len(c.Buckets)
	}
	if all.Totals.Buckets != total {
		t.Errorf("all/90 Buckets = %d, want %d", all.Totals.Buckets, total)
	}
	if len(all.Series) != models.HistoryDays {
		t.Errorf("all/90 series has %d entries", len(all.Series))
	}

	tests := []struct {
		region  string
		buckets int
	}{
		{"us-east-005", 95},
		{"us-west-001", 83},
		{"us-west-004", 80},
		{"eu-central-003", 88},
		{"ca-east-006", 77},
	}
	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			agg := Aggregate(customers, tt.region, 30, testToday)
			if agg.Totals.Buckets != tt.buckets {
				t.Errorf("Buckets = %d, want %d", agg.Totals.Buckets, tt.buckets)
			}
			if agg.Totals.Buckets > all.Totals.Buckets || agg.Totals.Requests > all.Totals.Requests {
				t.Error("region totals exceed unfiltered totals")
			}
		})
	}
}

func TestAggregate_SevenDayWindow(t *testing.T) {
	agg := Aggregate(testRoster(t), "eu-central-003", 7, testToday)
	if len(agg.Series) != 7 {
		t.Fatalf("len(Series) = %d, want 7", len(agg.Series))
	}
	if agg.Totals.Requests != 1950189 {
		t.Errorf("Requests = %d, want 1950189", agg.Totals.Requests)
	}
}

func TestAggregate_EmptyScope(t *testing.T) {
	customers := testRoster(t)

	tests := []struct {
		name        string
		customers   []models.Customer
		region      string
		daysBack    int
		today       time.Time
		wantBuckets int
	}{
		{"UnknownRegion", customers, "mars-001", 30, testToday, 0},
		{"NoCustomers", nil, models.AllRegions, 30, testToday, 0},
		{"ZeroDays", customers, models.AllRegions, 0, testToday, 300},
		{"NegativeDays", customers, models.AllRegions, -5, testToday, 300},
		{"WindowAfterData", customers, models.AllRegions, 30, testToday.AddDate(1, 0, 0), 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := Aggregate(tt.customers, tt.region, tt.daysBack, tt.today)
			if agg.Series == nil || len(agg.Series) != 0 {
				t.Errorf("Series = %v, want empty non-nil slice", agg.Series)
			}
			if agg.Totals.Buckets != tt.wantBuckets {
				t.Errorf("Buckets = %d, want %d", agg.Totals.Buckets, tt.wantBuckets)
			}
			if agg.Totals.AvgStorageTB != 0 || agg.Totals.EgressTB != 0 || agg.Totals.Requests != 0 {
				t.Errorf("Totals = %+v, want zero usage", agg.Totals)
			}
		})
	}
}

func TestWindowBounds(t *testing.T) {
	start, end, ok := WindowBounds(time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC), 7)
	if !ok || start != "2024-02-24" || end != "2024-03-01" {
		t.Errorf("WindowBounds() = %s, %s, %v", start, end, ok)
	}
	if _, _, ok := WindowBounds(testToday, 0); ok {
		t.Error("WindowBounds(0) should not be ok")
	}
}
