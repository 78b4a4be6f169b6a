// Package stats computes daily and monthly rollups from ledger records.
//
// Aggregation is a pure fold over an already access-filtered slice of sales.
// Nothing is cached or incrementally maintained: every query recomputes from
// the raw records, so totals are always consistent with the store.
package stats

import (
	"sort"

	"github.com/Adnan1921/radnja-tracker/internal/core"
)

// ItemBucket accumulates the sales of one catalog item. Buckets appear in
// first-seen order.
type ItemBucket struct {
	ItemID        int        `json:"itemId"`
	Name          string     `json:"name"`
	Icon          string     `json:"icon"`
	Count         int        `json:"count"`
	TotalQuantity int        `json:"totalQuantity"`
	Total         core.Money `json:"total"`
}

// DaySummary is the rollup of a single calendar date.
type DaySummary struct {
	Date          string       `json:"date"`
	Total         core.Money   `json:"total"`
	Count         int          `json:"count"`
	TotalQuantity int          `json:"totalQuantity"`
	CashTotal     core.Money   `json:"cashTotal"`
	CardTotal     core.Money   `json:"cardTotal"`
	ByItem        []ItemBucket `json:"byItem"`
}

// DayBucket is one day's line inside a monthly rollup.
type DayBucket struct {
	Date          string     `json:"date"`
	Total         core.Money `json:"total"`
	Count         int        `json:"count"`
	TotalQuantity int        `json:"totalQuantity"`
}

// MonthSummary is the rollup of one year-month.
type MonthSummary struct {
	Year          int         `json:"year"`
	Month         int         `json:"month"`
	Days          []DayBucket `json:"dailyBuckets"`
	Total         core.Money  `json:"total"`
	Count         int         `json:"count"`
	TotalQuantity int         `json:"totalQuantity"`
	CashTotal     core.Money  `json:"cashTotal"`
	CardTotal     core.Money  `json:"cardTotal"`
}

// Daily folds the given sales into a single-day summary. The payment split
// is complete and disjoint: a sale counts as card only when its method is
// exactly "card", everything else (including legacy rows) counts as cash.
func Daily(date string, sales []core.Sale) DaySummary {
	sum := DaySummary{Date: date, ByItem: []ItemBucket{}}
	bucketIdx := make(map[int]int)

	for _, s := range sales {
		sum.Total = sum.Total.Add(s.Total)
		sum.Count++
		sum.TotalQuantity += s.Quantity

		if s.CountsAsCard() {
			sum.CardTotal = sum.CardTotal.Add(s.Total)
		} else {
			sum.CashTotal = sum.CashTotal.Add(s.Total)
		}

		i, ok := bucketIdx[s.ItemID]
		if !ok {
			i = len(sum.ByItem)
			bucketIdx[s.ItemID] = i
			sum.ByItem = append(sum.ByItem, ItemBucket{
				ItemID: s.ItemID,
				Name:   s.ItemName,
				Icon:   s.ItemIcon,
			})
		}
		sum.ByItem[i].Count++
		sum.ByItem[i].TotalQuantity += s.Quantity
		sum.ByItem[i].Total = sum.ByItem[i].Total.Add(s.Total)
	}

	return sum
}

// Monthly folds the given sales into per-day buckets plus month totals.
// Days come out sorted ascending by date string; the fixed-width YYYY-MM-DD
// format makes lexicographic order chronological.
func Monthly(year, month int, sales []core.Sale) MonthSummary {
	sum := MonthSummary{Year: year, Month: month, Days: []DayBucket{}}
	byDay := make(map[string]*DayBucket)

	for _, s := range sales {
		sum.Total = sum.Total.Add(s.Total)
		sum.Count++
		sum.TotalQuantity += s.Quantity

		if s.CountsAsCard() {
			sum.CardTotal = sum.CardTotal.Add(s.Total)
		} else {
			sum.CashTotal = sum.CashTotal.Add(s.Total)
		}

		day, ok := byDay[s.Date]
		if !ok {
			day = &DayBucket{Date: s.Date}
			byDay[s.Date] = day
		}
		day.Total = day.Total.Add(s.Total)
		day.Count++
		day.TotalQuantity += s.Quantity
	}

	for _, day := range byDay {
		sum.Days = append(sum.Days, *day)
	}
	sort.Slice(sum.Days, func(i, j int) bool {
		return sum.Days[i].Date < sum.Days[j].Date
	})

	return sum
}
