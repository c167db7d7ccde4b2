package model

// MissionCohort is the aggregate outcome of the missions resolved in one month.
type MissionCohort struct {
	Count         int
	NumSuccessful int
	NumFailed     int
}
