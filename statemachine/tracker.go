package statemachine

import "food-ordering-api/models"

// Step is one cell of the progress tracker shown for an order.
type Step struct {
	Name      models.OrderStatus `json:"name"`
	Completed bool               `json:"completed"`
	Active    bool               `json:"active"`
}

// Track lays out every stage for an order currently in status. Every stage up
// to and including the current one is completed, and the current one is also
// active. An unknown status yields a tracker with nothing completed.
func Track(status models.OrderStatus) []Step {
	idx := StageIndex(status)
	steps := make([]Step, len(Stages))
	for i, st := range Stages {
		steps[i] = Step{
			Name:      st,
			Completed: idx >= 0 && i <= idx,
			Active:    i == idx,
		}
	}
	return steps
}
