package model

// VestingSchedule tracks one private sale tranche.
type VestingSchedule struct {
	Name           string
	TokensSold     float64
	Remaining      float64
	VestingPeriod  int     // months
	MonthlyRelease float64 // TokensSold / VestingPeriod
	ElapsedMonths  int
}

// Active reports whether the schedule can still release tokens.
// Once inactive a schedule stays inactive.
func (v *VestingSchedule) Active() bool {
	return v.VestingPeriod > 0 && v.Remaining > 0 && v.ElapsedMonths < v.VestingPeriod
}

// Outstanding sums the unreleased tokens of all schedules.
func Outstanding(schedules []VestingSchedule) float64 {
	sum := 0.0
	for _, s := range schedules {
		sum += s.Remaining
	}
	return sum
}
