// Package calendar caches the workout calendar month by month.
package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const dateLayout = "2006-01-02"

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=calendar_test

type Fetcher interface {
	FetchCalendar(ctx context.Context, year, month int) (map[string][]api.CalendarEntry, error)
}

// Cache keeps every date the server returned. One successful server call covers
// the requested month and both neighbours, so those are not requested again.
type Cache struct {
	fetcher Fetcher
	group   singleflight.Group

	mu          sync.RWMutex
	serverCalls map[string]struct{}
	loaded      map[string]struct{}
	data        map[string][]api.CalendarEntry
}

func NewCache(fetcher Fetcher) *Cache {
	c := &Cache{fetcher: fetcher}
	c.Clear()
	return c
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%d-%d", year, month)
}

// Month returns the workouts for the month, plus leading and trailing days that
// complete its first and last Monday-first weeks. A failed server call is only
// logged; whatever is cached is returned.
func (c *Cache) Month(ctx context.Context, year, month int) map[string][]api.CalendarEntry {
	key := monthKey(year, month)

	c.mu.RLock()
	_, loaded := c.loaded[key]
	_, called := c.serverCalls[key]
	c.mu.RUnlock()

	if !loaded && !called {
		_, err, _ := c.group.Do(key, func() (any, error) {
			if c.IsMonthLoaded(year, month) {
				return nil, nil
			}
			return nil, c.load(ctx, year, month)
		})
		if err != nil {
			log.Errorf("calendar: load %s: %s", key, err)
		}
	}

	return c.collect(year, month)
}

func (c *Cache) load(ctx context.Context, year, month int) error {
	dates, err := c.fetcher.FetchCalendar(ctx, year, month)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.serverCalls[monthKey(year, month)] = struct{}{}
	for date, entries := range dates {
		c.data[date] = entries
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for _, m := range []time.Time{first.AddDate(0, -1, 0), first, first.AddDate(0, 1, 0)} {
		c.loaded[monthKey(m.Year(), int(m.Month()))] = struct{}{}
	}

	log.Debugf("calendar: loaded %d dates around %d-%02d", len(dates), year, month)
	return nil
}

func (c *Cache) collect(year, month int) map[string][]api.CalendarEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string][]api.CalendarEntry)
	for _, day := range gridDates(year, month) {
		date := day.Format(dateLayout)
		if entries, ok := c.data[date]; ok {
			result[date] = entries
		}
	}
	return result
}

func (c *Cache) IsMonthLoaded(year, month int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.loaded[monthKey(year, month)]
	return ok
}

func (c *Cache) HasWorkoutOn(day time.Time) bool {
	return len(c.WorkoutsOn(day)) > 0
}

func (c *Cache) WorkoutsOn(day time.Time) []api.CalendarEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[day.Format(dateLayout)]
}

// Clear drops everything; wired to logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.serverCalls = make(map[string]struct{})
	c.loaded = make(map[string]struct{})
	c.data = make(map[string][]api.CalendarEntry)
}

type Day struct {
	Date           time.Time
	DayNumber      int
	DayName        string
	IsToday        bool
	IsCurrentMonth bool
	IsWeekend      bool
	HasWorkout     bool
}

// Grid lays the month out in full Monday-first weeks.
func (c *Cache) Grid(year, month int, today time.Time) []Day {
	dates := gridDates(year, month)
	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		day := newDay(date, today)
		day.IsCurrentMonth = int(date.Month()) == month
		day.HasWorkout = c.HasWorkoutOn(date)
		days = append(days, day)
	}
	return days
}

// RecentDays is the home strip: the n days ending today, oldest first, marked
// from the profile's latest workout dates.
func RecentDays(today time.Time, n int, latestWorkoutDates []string) []Day {
	worked := make(map[string]struct{}, len(latestWorkoutDates))
	for _, d := range latestWorkoutDates {
		worked[d] = struct{}{}
	}

	days := make([]Day, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := newDay(today.AddDate(0, 0, -i), today)
		_, day.HasWorkout = worked[day.Date.Format(dateLayout)]
		days = append(days, day)
	}
	return days
}

func newDay(date, today time.Time) Day {
	return Day{
		Date:      date,
		DayNumber: date.Day(),
		DayName:   dayNames[mondayIndex(date)],
		IsToday:   sameDay(date, today),
		IsWeekend: date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
	}
}

func gridDates(year, month int) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -mondayIndex(first))
	end := last.AddDate(0, 0, 6-mondayIndex(last))

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
