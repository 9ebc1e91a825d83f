package iers

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/anupshinde/astrocore/astroerr"
	"github.com/anupshinde/astrocore/instant"
	"github.com/pkg/errors"
)

// finals2000aRecord is one parsed line of a finals2000A.data (or .all)
// file, keyed by Modified Julian Date. Field names and column positions
// mirror Finals2000A.cpp's Data struct; the _B (Bulletin B, final) columns
// are not read — Bulletin A (_A) values are used throughout, matching the
// provider's published-at-query-time nature.
type finals2000aRecord struct {
	mjd        float64
	xArcsec    float64
	yArcsec    float64
	ut1MinusUT float64
	lod        float64
}

// Finals2000A reads the IERS finals2000A combined polar motion / UT1−UTC /
// length-of-day product and serves linearly interpolated EOP queries
// between bracketing daily records.
type Finals2000A struct {
	records []finals2000aRecord
}

// NewFinals2000A constructs an empty Finals2000A; call Load to populate it.
func NewFinals2000A() *Finals2000A { return &Finals2000A{} }

// Load parses a finals2000A.data-formatted stream, appending its records
// in file order, then re-sorts by Modified Julian Date.
func (f *Finals2000A) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		rec, ok, err := parseFinals2000ALine(line)
		if err != nil {
			return errors.Wrapf(err, "finals2000a: line %d", lineNo)
		}
		if !ok {
			continue
		}
		f.records = append(f.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "finals2000a: scan")
	}
	sort.Slice(f.records, func(i, j int) bool { return f.records[i].mjd < f.records[j].mjd })
	return nil
}

// column extracts the 1-indexed, inclusive byte range [start, end] from
// line, matching the column layout Finals2000A.cpp reads with substr
// calls. Returns "" if the line is too short to hold the column.
func column(line string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if start > len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start-1 : end])
}

// parseReal parses a Finals2000A numeric field, which may start with "."
// or "-." instead of a leading zero.
func parseReal(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	if strings.HasPrefix(s, "-.") {
		s = "-0." + s[2:]
	} else if strings.HasPrefix(s, ".") {
		s = "0." + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func parseFinals2000ALine(line string) (finals2000aRecord, bool, error) {
	mjdStr := column(line, 8, 15)
	mjd, ok, err := parseReal(mjdStr)
	if err != nil || !ok {
		return finals2000aRecord{}, false, err
	}

	xA, hasX, err := parseReal(column(line, 19, 27))
	if err != nil {
		return finals2000aRecord{}, false, err
	}
	yA, hasY, err := parseReal(column(line, 38, 46))
	if err != nil {
		return finals2000aRecord{}, false, err
	}
	ut1A, hasUT1, err := parseReal(column(line, 59, 68))
	if err != nil {
		return finals2000aRecord{}, false, err
	}
	lodA, _, err := parseReal(column(line, 80, 86))
	if err != nil {
		return finals2000aRecord{}, false, err
	}

	if !hasX && !hasY && !hasUT1 {
		return finals2000aRecord{}, false, nil
	}
	return finals2000aRecord{mjd: mjd, xArcsec: xA, yArcsec: yA, ut1MinusUT: ut1A, lod: lodA}, true, nil
}

// Range implements Provider.
func (f *Finals2000A) Range() (startMJD, endMJD float64, ok bool) {
	if len(f.records) == 0 {
		return 0, 0, false
	}
	return f.records[0].mjd, f.records[len(f.records)-1].mjd, true
}

// EOPAt implements Provider. Instants before the first record or after the
// last extrapolate using that boundary record's data, matching
// Finals2000A::accessDataRange's behavior of returning a one-sided range
// rather than failing.
func (f *Finals2000A) EOPAt(i instant.Instant) (EOP, error) {
	if len(f.records) == 0 {
		return EOP{}, astroerr.Wrap(astroerr.OutOfRange, "Finals2000A", errors.New("no data loaded"))
	}
	jdUTC, err := i.GetJulianDate(instant.UTC)
	if err != nil {
		return EOP{}, err
	}
	mjd := jdUTC - 2400000.5

	idx := sort.Search(len(f.records), func(k int) bool { return f.records[k].mjd > mjd })
	if idx == 0 {
		return recordToEOP(f.records[0]), nil
	}
	if idx == len(f.records) {
		return recordToEOP(f.records[len(f.records)-1]), nil
	}
	prev, next := f.records[idx-1], f.records[idx]
	t := (mjd - prev.mjd) / (next.mjd - prev.mjd)
	return EOP{
		PolarMotionXArcsec: interpolate(prev.xArcsec, next.xArcsec, t),
		PolarMotionYArcsec: interpolate(prev.yArcsec, next.yArcsec, t),
		UT1MinusUTCSec:     interpolate(prev.ut1MinusUT, next.ut1MinusUT, t),
		LODSec:             interpolate(prev.lod, next.lod, t),
	}, nil
}

func recordToEOP(r finals2000aRecord) EOP {
	return EOP{
		PolarMotionXArcsec: r.xArcsec,
		PolarMotionYArcsec: r.yArcsec,
		UT1MinusUTCSec:     r.ut1MinusUT,
		LODSec:             r.lod,
	}
}
