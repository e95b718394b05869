package service

import (
	"context"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// DefaultDayStart is the anchor start time of the first item of a day.
var DefaultDayStart = domain.NewTimeOfDay(9, 0)

// cascade recomputes start and end times left to right from position from.
// With from == 0 the first item is anchored at dayStart. Every later item
// starts when its predecessor ends plus its own incoming travel time, rounded
// up to whole minutes. Items whose predecessor has no start are left alone.
// Each step reads the value computed by the previous one, so items is updated
// in place.
func cascade(ctx context.Context, items repo.ItemRepo, list []domain.ItineraryItem, from int, dayStart domain.TimeOfDay) error {
	if len(list) == 0 || from >= len(list) {
		return nil
	}
	if from <= 0 {
		from = 0
		if err := reschedule(ctx, items, &list[0], dayStart); err != nil {
			return err
		}
	}

	for i := from + 1; i < len(list); i++ {
		prev, cur := &list[i-1], &list[i]
		if prev.StartTime == nil {
			continue
		}
		start := prev.StartTime.Add(prev.DurationMinutes + cur.TravelMinutes())
		if err := reschedule(ctx, items, cur, start); err != nil {
			return err
		}
	}
	return nil
}

// reschedule moves it to start and persists the change if anything moved.
func reschedule(ctx context.Context, items repo.ItemRepo, it *domain.ItineraryItem, start domain.TimeOfDay) error {
	oldStart, oldEnd := it.StartTime, it.EndTime
	it.Schedule(start)
	if sameTime(oldStart, it.StartTime) && sameTime(oldEnd, it.EndTime) {
		return nil
	}
	return items.UpdateSchedule(ctx, it.ID, it.StartTime, it.EndTime)
}

func sameTime(a, b *domain.TimeOfDay) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
