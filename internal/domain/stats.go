package domain

// Stats summarizes a learner's progress
type Stats struct {
	Tracked  int
	Learned  int
	Due      int
	Failed   int
	Accuracy int
}
