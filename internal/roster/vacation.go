package roster

import (
	"sort"
	"time"
)

// DefaultVacationThreshold is the longest vacation run, in days, that is still
// treated as misclassified absences. Runs must be longer to survive.
const DefaultVacationThreshold = 14

// SortRecords returns a copy of records ordered by date. Records sharing a
// date keep their relative order.
func SortRecords(records []DayRecord) []DayRecord {
	out := make([]DayRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// vacationRuns groups the vacation records of a date-sorted slice into runs of
// consecutive days, returning the index sets of each run.
func vacationRuns(sorted []DayRecord) [][]int {
	var (
		runs [][]int
		run  []int
		last time.Time
	)
	for i, r := range sorted {
		if !r.IsVacation {
			continue
		}
		if len(run) > 0 {
			gap := r.Date.Sub(last)
			if gap > 24*time.Hour {
				runs = append(runs, run)
				run = nil
			}
		}
		run = append(run, i)
		last = r.Date
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

func runDays(sorted []DayRecord, run []int) int {
	first := sorted[run[0]].Date
	last := sorted[run[len(run)-1]].Date
	return int(last.Sub(first).Hours()/24) + 1
}

// FilterVacationBlocks drops every vacation run of threshold days or fewer.
// Short runs are single absences misread as vacation, so the whole run goes.
// The result is a date-ordered copy; non-vacation records pass through.
func FilterVacationBlocks(records []DayRecord, threshold int) []DayRecord {
	sorted := SortRecords(records)
	drop := make(map[int]bool)
	for _, run := range vacationRuns(sorted) {
		if runDays(sorted, run) <= threshold {
			for _, i := range run {
				drop[i] = true
			}
		}
	}

	out := make([]DayRecord, 0, len(sorted)-len(drop))
	for i, r := range sorted {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out
}

// VacationPeriods derives the contiguous vacation periods from records.
func VacationPeriods(records []DayRecord) []VacationPeriod {
	sorted := SortRecords(records)
	runs := vacationRuns(sorted)
	periods := make([]VacationPeriod, 0, len(runs))
	for _, run := range runs {
		periods = append(periods, VacationPeriod{
			Start: sorted[run[0]].Date,
			End:   sorted[run[len(run)-1]].Date,
		})
	}
	return periods
}

// VacationDays counts the distinct vacation dates in records.
func VacationDays(records []DayRecord) int {
	seen := make(map[time.Time]bool)
	for _, r := range records {
		if r.IsVacation {
			seen[dateOnly(r.Date)] = true
		}
	}
	return len(seen)
}
