package domain

import "time"

// EngineConfig holds the constants the reservation engine runs with. It is built once
// from configuration and passed by value.
type EngineConfig struct {
	MinLead              time.Duration
	MaxAhead             time.Duration
	GoodsLockTimeout     time.Duration
	StylistLockTimeout   time.Duration
	RepeatShippingWindow time.Duration
	Currency             string
	Showrooms            []Showroom
}

// Horizon returns the bookable range relative to now at the given grain.
func (c EngineConfig) Horizon(now time.Time, grain Grain) Horizon {
	var h Horizon
	if c.MinLead > 0 {
		h.Min = grain.Truncate(now.Add(c.MinLead))
	}
	if c.MaxAhead > 0 {
		h.Max = grain.Truncate(now.Add(c.MaxAhead))
	}
	return h
}

func (c EngineConfig) LockTimeout(kind UnitKind) time.Duration {
	if kind == UnitKindStylist {
		return c.StylistLockTimeout
	}
	return c.GoodsLockTimeout
}

func (c EngineConfig) Showroom(id int32) (Showroom, bool) {
	for _, s := range c.Showrooms {
		if s.ID == id {
			return s, true
		}
	}
	return Showroom{}, false
}
