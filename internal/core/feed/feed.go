package feed

import (
	"strings"
	"time"
)

// These constants shape visible ranking; clients depend on them.
const (
	BatchSize   = 20 // posts per composed feed
	SearchLimit = 50 // posts per search result

	cityPercent    = 40
	countryPercent = 40
	popularPercent = 20
)

// Tier retrieval stage of a composed feed
type Tier string

const (
	TierCity    Tier = "city"
	TierCountry Tier = "country"
	TierPopular Tier = "popular"
)

// Budgets how many posts each tier may contribute before carry-over.
type Budgets struct {
	City    int
	Country int
	Popular int
}

// NewBudgets splits batch 40/40/20, rounding each share down.
func NewBudgets(batch int) Budgets {
	return Budgets{
		City:    batch * cityPercent / 100,
		Country: batch * countryPercent / 100,
		Popular: batch * popularPercent / 100,
	}
}

// PopularSince lower bound of the popularity window: one calendar month back.
func PopularSince(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}

// CleanQuery drops one leading '#' and surrounding whitespace so "#Design" and
// "Design" search the same thing.
func CleanQuery(q string) string {
	q = strings.TrimSpace(q)
	q = strings.TrimPrefix(q, "#")
	return strings.TrimSpace(q)
}
