package iers

import (
	"github.com/anupshinde/astrocore/instant"
)

// Chain composes providers in preference order: the first provider whose
// own table covers the query instant answers it; if none covers it, the
// last provider in the chain answers by extrapolation. This resolves the
// Finals2000A/Bulletin A overlap by letting Finals2000A (typically chained
// first, as the longer-running revised product) win whenever both have
// data, while still falling through to Bulletin A for instants beyond
// Finals2000A's latest entry.
type Chain struct {
	providers []Provider
}

// NewChain builds a Chain trying providers in the given order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Range implements Provider, returning the union span of every chained
// provider that has data loaded.
func (c *Chain) Range() (startMJD, endMJD float64, ok bool) {
	for _, p := range c.providers {
		s, e, has := p.Range()
		if !has {
			continue
		}
		if !ok {
			startMJD, endMJD, ok = s, e, true
			continue
		}
		if s < startMJD {
			startMJD = s
		}
		if e > endMJD {
			endMJD = e
		}
	}
	return
}

// EOPAt implements Provider: it queries each provider in order, returning
// the first whose own table covers i's Modified Julian Date. If none does
// and there is at least one provider, the last provider's (extrapolated)
// answer is returned.
func (c *Chain) EOPAt(i instant.Instant) (EOP, error) {
	jdUTC, err := i.GetJulianDate(instant.UTC)
	if err != nil {
		return EOP{}, err
	}
	mjd := jdUTC - 2400000.5

	for _, p := range c.providers {
		start, end, ok := p.Range()
		if ok && mjd >= start && mjd <= end {
			return p.EOPAt(i)
		}
	}
	if len(c.providers) > 0 {
		return c.providers[len(c.providers)-1].EOPAt(i)
	}
	return EOP{}, ErrOutOfRange
}

// Strict wraps a Provider so that queries outside its table coverage
// return ErrOutOfRange instead of extrapolating from the boundary record.
// Use this where silent extrapolation is unacceptable; the default
// providers in this package extrapolate.
type Strict struct {
	Provider
}

// EOPAt implements Provider.
func (s Strict) EOPAt(i instant.Instant) (EOP, error) {
	start, end, ok := s.Provider.Range()
	if !ok {
		return EOP{}, ErrOutOfRange
	}
	jdUTC, err := i.GetJulianDate(instant.UTC)
	if err != nil {
		return EOP{}, err
	}
	mjd := jdUTC - 2400000.5
	if mjd < start || mjd > end {
		return EOP{}, ErrOutOfRange
	}
	return s.Provider.EOPAt(i)
}
