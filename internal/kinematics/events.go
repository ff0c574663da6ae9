package kinematics

// Event is a contiguous window of sustained curvature, used to locate the
// interesting stretch of a clip (e.g. to cue up the matching camera video).
type Event struct {
	// StartTimestamp and EndTimestamp are absolute, in the input epoch.
	StartTimestamp float64
	EndTimestamp   float64

	// StartOffset and EndOffset are seconds relative to the first sample
	// of the profile, which is how video players are cued.
	StartOffset float64
	EndOffset   float64

	// PeakCurvature is the defined sample of largest magnitude inside the
	// window (signed).
	PeakCurvature float64
}

// Duration returns the event length in seconds.
func (e Event) Duration() float64 {
	return e.EndTimestamp - e.StartTimestamp
}

// DetectEvents scans a curvature profile for windows where |kappa| stays at
// or above threshold for at least minDuration seconds. Undefined samples
// end any open window. Events are returned in time order.
func DetectEvents(samples []CurvatureSample, threshold, minDuration float64) []Event {
	var events []Event
	if len(samples) == 0 || threshold <= 0 {
		return events
	}

	origin := samples[0].Timestamp
	open := false
	var start, peak float64
	var last float64

	closeWindow := func() {
		if !open {
			return
		}
		open = false
		if last-start < minDuration {
			return
		}
		events = append(events, Event{
			StartTimestamp: start,
			EndTimestamp:   last,
			StartOffset:    start - origin,
			EndOffset:      last - origin,
			PeakCurvature:  peak,
		})
	}

	for _, c := range samples {
		if !c.Defined() || abs(c.Curvature) < threshold {
			closeWindow()
			continue
		}
		if !open {
			open = true
			start = c.Timestamp
			peak = c.Curvature
		}
		last = c.Timestamp
		if abs(c.Curvature) > abs(peak) {
			peak = c.Curvature
		}
	}
	closeWindow()

	return events
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
