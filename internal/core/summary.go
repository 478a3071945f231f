package core

import (
	"fmt"
	"hash/fnv"
)

// CategoryBucket is a per-category accumulator of summed expense amounts,
// shaped for the pie-chart view.
type CategoryBucket struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
	Color  string `json:"color"`
}

// CategoryAll matches every category when passed as the filter value.
const CategoryAll = "All"

// AggregateExpenses reduces per-category expense rows into chart buckets.
//
// A row contributes when its category matches the filter (or the filter is
// "All") and, when both bounds are supplied, its date falls inside the
// inclusive [start, end] window. Bounds are YYYY-MM-DD strings compared
// against the row's calendar day; an empty bound disables date filtering.
// Buckets appear in first-encounter order.
func AggregateExpenses(rows []ExpenseByCategory, category, start, end string) []CategoryBucket {
	idx := make(map[string]int)
	var buckets []CategoryBucket

	for _, row := range rows {
		if category != CategoryAll && category != "" && row.Category != category {
			continue
		}
		if start != "" && end != "" {
			day := row.Date.Format("2006-01-02")
			if day < start || day > end {
				continue
			}
		}
		i, ok := idx[row.Category]
		if !ok {
			i = len(buckets)
			idx[row.Category] = i
			buckets = append(buckets, CategoryBucket{
				Name:  row.Category,
				Color: CategoryColor(row.Category),
			})
		}
		buckets[i].Amount.Cents += row.Amount.Cents
	}

	return buckets
}

// CategoryColor derives a stable chart color from the category name, so a
// category keeps its color across recomputations and filter changes.
func CategoryColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("#%06x", h.Sum32()&0xffffff)
}
