package calendar_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/api"
	"github.com/2beens/fitcoach/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func entries(desc string, seduta int) []api.CalendarEntry {
	return []api.CalendarEntry{{Description: desc, Seduta: seduta}}
}

func TestCache_Month_FiltersToWeekGrid(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	// March 2024 starts on a Friday and ends on a Sunday.
	fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 3).Return(map[string][]api.CalendarEntry{
		"2024-02-25": entries("too early", 1),
		"2024-02-26": entries("leading monday", 1),
		"2024-03-15": entries("legs", 2),
		"2024-04-01": entries("next month", 3),
	}, nil)

	cache := calendar.NewCache(fetcher)
	month := cache.Month(context.Background(), 2024, 3)

	assert.Len(t, month, 2)
	assert.Contains(t, month, "2024-02-26")
	assert.Contains(t, month, "2024-03-15")
	assert.Equal(t, "legs", month["2024-03-15"][0].Description)

	// the April entry is cached though not part of the March grid
	assert.True(t, cache.HasWorkoutOn(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCache_Month_MarksAdjacentMonths(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 1).Return(map[string][]api.CalendarEntry{
		"2024-02-05": entries("push", 1),
	}, nil).Times(1)

	cache := calendar.NewCache(fetcher)
	assert.False(t, cache.IsMonthLoaded(2024, 1))

	cache.Month(context.Background(), 2024, 1)
	assert.True(t, cache.IsMonthLoaded(2023, 12))
	assert.True(t, cache.IsMonthLoaded(2024, 1))
	assert.True(t, cache.IsMonthLoaded(2024, 2))
	assert.False(t, cache.IsMonthLoaded(2024, 3))

	// served from cache, no second call
	february := cache.Month(context.Background(), 2024, 2)
	assert.Contains(t, february, "2024-02-05")
}

func TestCache_Month_FailureReturnsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	gomock.InOrder(
		fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 5).Return(nil, errors.New("offline")),
		fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 5).Return(map[string][]api.CalendarEntry{
			"2024-05-02": entries("arms", 1),
		}, nil),
	)

	cache := calendar.NewCache(fetcher)
	assert.Empty(t, cache.Month(context.Background(), 2024, 5))
	assert.False(t, cache.IsMonthLoaded(2024, 5))

	// a failed call does not count as made
	assert.Len(t, cache.Month(context.Background(), 2024, 5), 1)
	assert.True(t, cache.IsMonthLoaded(2024, 5))
}

func TestCache_Month_ConcurrentCallsShareFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	release := make(chan struct{})
	fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 6).DoAndReturn(
		func(ctx context.Context, year, month int) (map[string][]api.CalendarEntry, error) {
			<-release
			return map[string][]api.CalendarEntry{"2024-06-10": entries("full body", 1)}, nil
		},
	).Times(1)

	cache := calendar.NewCache(fetcher)

	var wg sync.WaitGroup
	results := make([]map[string][]api.CalendarEntry, 5)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = cache.Month(context.Background(), 2024, 6)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Contains(t, r, "2024-06-10")
	}
}

func TestCache_Clear(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 7).Return(map[string][]api.CalendarEntry{
		"2024-07-01": entries("run", 1),
	}, nil).Times(2)

	cache := calendar.NewCache(fetcher)
	cache.Month(context.Background(), 2024, 7)
	require.True(t, cache.IsMonthLoaded(2024, 7))

	cache.Clear()
	assert.False(t, cache.IsMonthLoaded(2024, 7))
	assert.Empty(t, cache.WorkoutsOn(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))

	cache.Month(context.Background(), 2024, 7)
	assert.True(t, cache.IsMonthLoaded(2024, 7))
}

func TestCache_Grid(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().FetchCalendar(gomock.Any(), 2024, 3).Return(map[string][]api.CalendarEntry{
		"2024-03-15": entries("legs", 2),
	}, nil)

	cache := calendar.NewCache(fetcher)
	cache.Month(context.Background(), 2024, 3)

	today := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	grid := cache.Grid(2024, 3, today)

	require.Len(t, grid, 35)
	assert.Equal(t, 26, grid[0].DayNumber)
	assert.Equal(t, "Mon", grid[0].DayName)
	assert.False(t, grid[0].IsCurrentMonth)
	assert.Equal(t, 31, grid[len(grid)-1].DayNumber)
	assert.Equal(t, "Sun", grid[len(grid)-1].DayName)
	assert.True(t, grid[len(grid)-1].IsWeekend)

	var marked []int
	for _, d := range grid {
		if d.HasWorkout {
			marked = append(marked, d.DayNumber)
		}
		if d.IsToday {
			assert.Equal(t, 15, d.DayNumber)
		}
	}
	assert.Equal(t, []int{15}, marked)
}

func TestCache_Grid_ExactWeeks(t *testing.T) {
	// February 2021 runs Monday 1st to Sunday 28th.
	cache := calendar.NewCache(nil)
	grid := cache.Grid(2021, 2, time.Now())
	require.Len(t, grid, 28)
	for _, d := range grid {
		assert.True(t, d.IsCurrentMonth)
	}
}

func TestRecentDays(t *testing.T) {
	today := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	days := calendar.RecentDays(today, 5, []string{"2024-03-06", "2024-03-03", "2024-02-20"})

	require.Len(t, days, 5)
	assert.Equal(t, 2, days[0].DayNumber)
	assert.Equal(t, "Sat", days[0].DayName)
	assert.True(t, days[4].IsToday)

	var worked []int
	for _, d := range days {
		if d.HasWorkout {
			worked = append(worked, d.DayNumber)
		}
	}
	assert.Equal(t, []int{3, 6}, worked)
}
