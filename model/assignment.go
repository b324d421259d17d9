package model

// AssignedJob pairs a job with its sharing metadata for one distribution
// cycle. ShareGroup is a cycle-local group number; SharePosition is the
// zero-based index of the user within that job's group and drives the
// scheduler's stagger tier.
type AssignedJob struct {
	Job           *Job `json:"job"`
	ShareGroup    int  `json:"shareGroup"`
	SharePosition int  `json:"sharePosition"`
}

// Assignments maps each user to the jobs assigned in one distribution cycle.
// Assignments are ephemeral; they are consumed by the scheduler and never
// persisted.
type Assignments map[UserID][]AssignedJob

// Total returns the number of assignment slots across all users.
func (a Assignments) Total() int {
	total := 0
	for _, jobs := range a {
		total += len(jobs)
	}
	return total
}
