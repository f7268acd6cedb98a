package calendar

import "marketline/internal/domain"

// DefaultDecayWindow is the +-N day horizon for event proximity decay.
const DefaultDecayWindow = 5

// Proximity computes the decaying nearness features of a date against one
// event calendar. An exact hit yields is=1 with no decay. Otherwise each
// offset i in 1..window contributes weight (window-i+1)/window when date+i
// (pre) or date-i (post) is an event date, keeping the maximum: weight 1.0
// immediately adjacent to an event, 1/window at the window edge.
//
// The two calendars (holidays, macro events) get independent calls; a
// pre-event weight from one never contaminates the other.
func Proximity(d domain.Date, events EventDates, window int) domain.Proximity {
	if window <= 0 {
		window = DefaultDecayWindow
	}

	if events.Contains(d) {
		return domain.Proximity{Is: 1}
	}

	var p domain.Proximity
	for i := 1; i <= window; i++ {
		weight := float64(window-i+1) / float64(window)
		if events.Contains(d.AddDays(i)) && weight > p.Pre {
			p.Pre = weight
		}
		if events.Contains(d.AddDays(-i)) && weight > p.Post {
			p.Post = weight
		}
	}
	return p
}
