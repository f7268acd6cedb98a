package domain

import "time"

// Proximity holds the decaying nearness features for one event calendar.
// Is is 1 on an exact event date; Pre/Post carry the linear decay inside the
// window on either side. All values are in [0, 1], and an exact hit never
// also carries decay.
type Proximity struct {
	Is   float64 `json:"is"`
	Pre  float64 `json:"pre"`
	Post float64 `json:"post"`
}

// PriceRecord is one OHLCV bar plus the calendar annotation columns.
// Annotations are additive: the classifier populates them in place via the
// setters below and never removes or reorders fields. Values are stored as
// [0,1] floats; in raw (unscaled) output the phase flags are rendered as
// booleans, with identical semantics.
type PriceRecord struct {
	DateTime time.Time `json:"datetime"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   *int64    `json:"volume,omitempty"`

	IsPreMarketTime  float64 `json:"is_pre_market_time"`
	IsMarketTime     float64 `json:"is_market_time"`
	IsPostMarketTime float64 `json:"is_post_market_time"`
	IsMarketDay      float64 `json:"is_market_day"`

	IsHoliday     float64 `json:"is_holiday"`
	IsPreHoliday  float64 `json:"is_pre_holiday"`
	IsPostHoliday float64 `json:"is_post_holiday"`

	IsFedEvent     float64 `json:"is_fed_event"`
	IsPreFedEvent  float64 `json:"is_pre_fed_event"`
	IsPostFedEvent float64 `json:"is_post_fed_event"`
}

// Date returns the UTC calendar date of the record's timestamp.
func (r *PriceRecord) Date() Date {
	return DateOf(r.DateTime)
}

// SetSessionPhase stores the three market-phase flags and derives the
// market-day flag from them.
func (r *PriceRecord) SetSessionPhase(pre, market, post bool) {
	r.IsPreMarketTime = boolFlag(pre)
	r.IsMarketTime = boolFlag(market)
	r.IsPostMarketTime = boolFlag(post)
	r.IsMarketDay = boolFlag(pre || market || post)
}

// ClearSessionPhase resets all four market-phase flags to non-trading.
func (r *PriceRecord) ClearSessionPhase() {
	r.SetSessionPhase(false, false, false)
}

// SetHolidayProximity stores the holiday-calendar nearness features.
func (r *PriceRecord) SetHolidayProximity(p Proximity) {
	r.IsHoliday = p.Is
	r.IsPreHoliday = p.Pre
	r.IsPostHoliday = p.Post
}

// SetFedEventProximity stores the macro-event-calendar nearness features.
func (r *PriceRecord) SetFedEventProximity(p Proximity) {
	r.IsFedEvent = p.Is
	r.IsPreFedEvent = p.Pre
	r.IsPostFedEvent = p.Post
}

// OnHoliday reports whether the record's date is an exact holiday hit.
func (r *PriceRecord) OnHoliday() bool {
	return r.IsHoliday == 1
}

func boolFlag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
