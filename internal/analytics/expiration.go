package analytics

import (
	"sort"
	"time"

	"inmo-backoffice/internal/domain"
)

// Bucket contracts sharing an expiration horizon.
type Bucket struct {
	Count       int      `json:"count"`
	Properties  []string `json:"properties"`
	ContractIDs []string `json:"contractIds"`
}

func (b *Bucket) add(c domain.Contract, title string) {
	b.Count++
	b.Properties = append(b.Properties, title)
	b.ContractIDs = append(b.ContractIDs, c.ID)
}

// Timeline active contracts grouped by time to expiry.
type Timeline struct {
	Overdue   Bucket `json:"overdue"`
	ThisMonth Bucket `json:"thisMonth"`
	NextMonth Bucket `json:"nextMonth"`
	Future    Bucket `json:"future"`
}

// Total number of contracts placed in any bucket.
func (t Timeline) Total() int {
	return t.Overdue.Count + t.ThisMonth.Count + t.NextMonth.Count + t.Future.Count
}

// ExpirationTimeline places every active contract into exactly one bucket,
// comparing calendar dates in today's location. Contracts already past their
// end date land in Overdue.
func ExpirationTimeline(contracts []domain.Contract, properties []domain.Property, today time.Time) Timeline {
	loc := today.Location()
	day := domain.DateOf(today, loc)
	thisMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := thisMonth.AddDate(0, 1, 0)
	afterNext := thisMonth.AddDate(0, 2, 0)

	titles := make(map[string]string, len(properties))
	for _, p := range properties {
		titles[p.ID] = p.Title
	}

	active := make([]domain.Contract, 0, len(contracts))
	for _, c := range contracts {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].EndDate.Before(active[j].EndDate) })

	var tl Timeline
	for _, c := range active {
		title, ok := titles[c.PropertyID]
		if !ok || title == "" {
			title = c.PropertyID
		}
		end := domain.DateOf(c.EndDate, loc)
		switch {
		case end.Before(day):
			tl.Overdue.add(c, title)
		case end.Before(nextMonth):
			tl.ThisMonth.add(c, title)
		case end.Before(afterNext):
			tl.NextMonth.add(c, title)
		default:
			tl.Future.add(c, title)
		}
	}
	return tl
}
