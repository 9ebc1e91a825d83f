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

// bulletinARecord is one whitespace-tokenized row of an IERS Bulletin A
// rapid-service/prediction table.
type bulletinARecord struct {
	mjd        float64
	xArcsec    float64
	yArcsec    float64
	ut1MinusUT float64
	lod        float64
}

// BulletinA reads the IERS Bulletin A rapid-turnaround product. Unlike
// Finals2000A's fixed-column layout, Bulletin A's published text varies
// its column widths across revisions, so this reader tokenizes each data
// row on whitespace instead of slicing fixed byte ranges; the row shape
// (MJD, x, y, UT1−UTC, LOD) is the same quantity set Finals2000A.cpp reads,
// just split differently on the page.
type BulletinA struct {
	records []bulletinARecord
}

// NewBulletinA constructs an empty BulletinA; call Load to populate it.
func NewBulletinA() *BulletinA { return &BulletinA{} }

// Load parses a Bulletin A "Combined Earth Orientation Parameters" table:
// one data row per whitespace-tokenized line of the form
// "year month day mjd x xErr y yErr ut1MinusUtc ut1Err lod lodErr".
// Lines with fewer than nine tokens, or whose fourth token is not a
// parseable MJD, are skipped, which quietly passes over the bulletin's
// header and footer prose.
func (b *BulletinA) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) < 9 {
			continue
		}
		mjd, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		x, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return errors.Wrapf(err, "bulletinA: line %d: x", lineNo)
		}
		y, err := strconv.ParseFloat(fields[6], 64)
		if err != nil {
			return errors.Wrapf(err, "bulletinA: line %d: y", lineNo)
		}
		ut1, err := strconv.ParseFloat(fields[8], 64)
		if err != nil {
			return errors.Wrapf(err, "bulletinA: line %d: ut1MinusUtc", lineNo)
		}
		var lod float64
		if len(fields) >= 11 {
			lod, _ = strconv.ParseFloat(fields[10], 64)
		}
		b.records = append(b.records, bulletinARecord{mjd: mjd, xArcsec: x, yArcsec: y, ut1MinusUT: ut1, lod: lod})
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "bulletinA: scan")
	}
	sort.Slice(b.records, func(i, j int) bool { return b.records[i].mjd < b.records[j].mjd })
	return nil
}

// Range implements Provider.
func (b *BulletinA) Range() (startMJD, endMJD float64, ok bool) {
	if len(b.records) == 0 {
		return 0, 0, false
	}
	return b.records[0].mjd, b.records[len(b.records)-1].mjd, true
}

// EOPAt implements Provider, interpolating between bracketing records and
// extrapolating from the nearest boundary record outside the table span.
func (b *BulletinA) EOPAt(i instant.Instant) (EOP, error) {
	if len(b.records) == 0 {
		return EOP{}, astroerr.Wrap(astroerr.OutOfRange, "BulletinA", errors.New("no data loaded"))
	}
	jdUTC, err := i.GetJulianDate(instant.UTC)
	if err != nil {
		return EOP{}, err
	}
	mjd := jdUTC - 2400000.5

	idx := sort.Search(len(b.records), func(k int) bool { return b.records[k].mjd > mjd })
	if idx == 0 {
		return bulletinARecordToEOP(b.records[0]), nil
	}
	if idx == len(b.records) {
		return bulletinARecordToEOP(b.records[len(b.records)-1]), nil
	}
	prev, next := b.records[idx-1], b.records[idx]
	t := (mjd - prev.mjd) / (next.mjd - prev.mjd)
	return EOP{
		PolarMotionXArcsec: interpolate(prev.xArcsec, next.xArcsec, t),
		PolarMotionYArcsec: interpolate(prev.yArcsec, next.yArcsec, t),
		UT1MinusUTCSec:     interpolate(prev.ut1MinusUT, next.ut1MinusUT, t),
		LODSec:             interpolate(prev.lod, next.lod, t),
	}, nil
}

func bulletinARecordToEOP(r bulletinARecord) EOP {
	return EOP{
		PolarMotionXArcsec: r.xArcsec,
		PolarMotionYArcsec: r.yArcsec,
		UT1MinusUTCSec:     r.ut1MinusUT,
		LODSec:             r.lod,
	}
}
