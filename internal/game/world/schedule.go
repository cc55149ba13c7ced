// Package world computes the world clock schedule: the goblin raid interval
// and the day/month/year rollovers that drive rank resets. The records
// themselves are cooldown rows owned by the reserved world player; this
// package only does the deadline arithmetic.
package world

import "time"

// RaidInterval is the fixed time between goblin raids.
const RaidInterval = 8 * time.Hour

// NextRaidTime returns the raid deadline following the given one.
func NextRaidTime(last time.Time) time.Time {
	return last.Add(RaidInterval)
}

// FirstRaidTime anchors the raid schedule for a fresh world: the top of the
// current hour plus one interval.
func FirstRaidTime(now time.Time) time.Time {
	anchor := now.Truncate(time.Hour)
	return NextRaidTime(anchor)
}

// NextDayTime returns the upcoming midnight in the given time's location.
func NextDayTime(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// NextMonthTime returns midnight on the first of the following month.
func NextMonthTime(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
}

// NextYearTime returns midnight on January 1st of the following year.
func NextYearTime(now time.Time) time.Time {
	return time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
}
