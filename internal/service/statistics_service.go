package service

import (
	"context"
	"time"

	"task_tracker/internal/domain"
)

const (
	trendDays = 7
	dayLayout = "2006-01-02"
)

// StatisticsService derives counts and 7-day trends from the task and audit
// stores. Nothing is cached; every call reads the current state.
type StatisticsService struct {
	store domain.Store
	now   func() time.Time
}

func NewStatisticsService(store domain.Store) *StatisticsService {
	return &StatisticsService{store: store, now: time.Now}
}

func (s *StatisticsService) GetStatistics(ctx context.Context, userID int64) (snap *domain.StatisticsSnapshot, err error) {
	defer func() { observe("statistics", err) }()

	since := windowStart(s.now(), trendDays)

	var (
		statusCounts       map[domain.TaskStatus]int
		opCounts           map[string]int
		daily, completions map[string]int
	)
	err = s.store.Snapshot(ctx, func(tx domain.Store) error {
		var err error
		if statusCounts, err = tx.Tasks().CountByStatus(ctx, userID); err != nil {
			return err
		}
		if opCounts, err = tx.Audit().CountByOperation(ctx, userID); err != nil {
			return err
		}
		if daily, err = tx.Audit().CountByDay(ctx, userID, since, ""); err != nil {
			return err
		}
		completions, err = tx.Audit().CountByDay(ctx, userID, since, domain.AuditOpComplete)
		return err
	})
	if err != nil {
		return nil, err
	}

	snap = &domain.StatisticsSnapshot{
		StatusCounts:        make(map[domain.TaskStatus]int, len(domain.TaskStatuses)),
		OperationTypeStats:  opCounts,
		DailyOperationStats: fillDays(since, trendDays, daily),
		CompletionTrend:     fillDays(since, trendDays, completions),
	}
	for _, st := range domain.TaskStatuses {
		snap.StatusCounts[st] = 0
	}
	for st, n := range statusCounts {
		snap.StatusCounts[st] = n
		snap.TotalTasks += n
	}
	snap.CompletedTasks = snap.StatusCounts[domain.TaskStatusCompleted]
	snap.InProgressTasks = snap.StatusCounts[domain.TaskStatusInProgress]
	for _, n := range opCounts {
		snap.TotalLogs += n
	}
	return snap, nil
}

// windowStart is UTC midnight of the first day of a window of the given
// length ending today.
func windowStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// fillDays returns one entry per day starting at since, taking values from
// counts and zero for days without entries.
func fillDays(since time.Time, days int, counts map[string]int) map[string]int {
	out := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := since.AddDate(0, 0, i).Format(dayLayout)
		out[key] = counts[key]
	}
	return out
}
