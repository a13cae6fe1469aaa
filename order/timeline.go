package order

import "time"

// Step is one row of the order tracker.
type Step struct {
	Status Status
	Label  string
	// Date is zero when the step has not happened and has no estimate.
	Date      time.Time
	Completed bool
	Current   bool
	// Estimated marks a dateless step that is next in line.
	Estimated bool
}

var stepLabels = []struct {
	status Status
	label  string
}{
	{StatusPending, "Order Placed"},
	{StatusProcessing, "Processing"},
	{StatusShipped, "Shipped"},
	{StatusDelivered, "Delivered"},
}

// Timeline returns the tracker steps for the order's current status.
// Processing is dated one day after placement and shipping three days
// after. The shipped and delivered dates only appear once reached. A
// cancelled order shows the placement step and a trailing cancelled step.
func (o *Order) Timeline() []Step {
	current := -1
	for i, s := range stepLabels {
		if s.status == o.Status {
			current = i
		}
	}

	steps := make([]Step, 0, len(stepLabels)+1)
	for i, s := range stepLabels {
		st := Step{
			Status:    s.status,
			Label:     s.label,
			Date:      o.stepDate(s.status),
			Completed: i <= current,
			Current:   i == current,
		}
		if st.Date.IsZero() {
			st.Estimated = i <= current+1
		}
		steps = append(steps, st)
	}

	if o.Status == StatusCancelled {
		steps[0].Completed = true
		steps = append(steps, Step{
			Status:    StatusCancelled,
			Label:     "Cancelled",
			Date:      o.UpdatedAt,
			Completed: true,
			Current:   true,
		})
	}
	return steps
}

func (o *Order) stepDate(s Status) time.Time {
	switch s {
	case StatusPending:
		return o.CreatedAt
	case StatusProcessing:
		return o.CreatedAt.Add(ProcessingAfter)
	case StatusShipped:
		if o.Status == StatusShipped || o.Status == StatusDelivered {
			return o.CreatedAt.Add(ShippedAfter)
		}
	case StatusDelivered:
		if o.Status == StatusDelivered {
			return o.EstimatedDelivery
		}
	}
	return time.Time{}
}
