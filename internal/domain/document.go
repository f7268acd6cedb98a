package domain

import "time"

// Document renders the record for serialization in the caller-selected mode.
// Raw mode keeps the phase and exact-hit flags as booleans; scaled mode
// renders every annotation as a [0,1] float. Decay features are fractional
// and stay floats in both modes. Semantics are identical either way.
func (r *PriceRecord) Document(raw bool) map[string]interface{} {
	doc := map[string]interface{}{
		"datetime": r.DateTime.UTC().Format(time.RFC3339),
		"open":     r.Open,
		"high":     r.High,
		"low":      r.Low,
		"close":    r.Close,
	}
	if r.Volume != nil {
		doc["volume"] = *r.Volume
	}

	if raw {
		doc["is_pre_market_time"] = r.IsPreMarketTime == 1
		doc["is_market_time"] = r.IsMarketTime == 1
		doc["is_post_market_time"] = r.IsPostMarketTime == 1
		doc["is_market_day"] = r.IsMarketDay == 1
		doc["is_holiday"] = r.IsHoliday == 1
		doc["is_fed_event"] = r.IsFedEvent == 1
	} else {
		doc["is_pre_market_time"] = r.IsPreMarketTime
		doc["is_market_time"] = r.IsMarketTime
		doc["is_post_market_time"] = r.IsPostMarketTime
		doc["is_market_day"] = r.IsMarketDay
		doc["is_holiday"] = r.IsHoliday
		doc["is_fed_event"] = r.IsFedEvent
	}

	doc["is_pre_holiday"] = r.IsPreHoliday
	doc["is_post_holiday"] = r.IsPostHoliday
	doc["is_pre_fed_event"] = r.IsPreFedEvent
	doc["is_post_fed_event"] = r.IsPostFedEvent

	return doc
}
