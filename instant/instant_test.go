package instant

import (
	"math"
	"testing"

	"github.com/anupshinde/astrocore/duration"
)

func TestJ2000RoundTripUTC(t *testing.T) {
	j2000 := J2000()

	dt, err := j2000.GetDateTime(UTC)
	if err != nil {
		t.Fatalf("GetDateTime(UTC): %v", err)
	}
	if dt.Year != 2000 || dt.Month != 1 || dt.Day != 1 {
		t.Fatalf("J2000 UTC date = %04d-%02d-%02d, want 2000-01-01", dt.Year, dt.Month, dt.Day)
	}
	if dt.Hour != 11 || dt.Minute != 58 {
		t.Fatalf("J2000 UTC time = %02d:%02d:%09.6f, want 11:58:55.816", dt.Hour, dt.Minute, dt.Second)
	}
	if math.Abs(dt.Second-55.816) > 1e-6 {
		t.Errorf("J2000 UTC seconds = %.6f, want 55.816", dt.Second)
	}

	back, err := FromDateTime(dt, UTC)
	if err != nil {
		t.Fatalf("FromDateTime: %v", err)
	}
	if !back.IsNear(j2000, mustDuration(duration.FromMicroseconds(1))) {
		t.Errorf("round trip through UTC did not recover J2000: delta=%s", back.Sub(j2000))
	}
}

func mustDuration(d duration.Duration, err error) duration.Duration {
	if err != nil {
		panic(err)
	}
	return d
}

func TestLeapSecondBoundaryUTCTAIEquivalence(t *testing.T) {
	// 2016-12-31 23:59:60 UTC and 2017-01-01 00:00:00 UTC are separated by
	// exactly one SI second, both in UTC display and in TAI.
	leapMoment, err := FromDateTime(DateTime{2016, 12, 31, 23, 59, 60.0}, UTC)
	if err != nil {
		t.Fatalf("FromDateTime(leap second): %v", err)
	}
	nextDay, err := FromDateTime(DateTime{2017, 1, 1, 0, 0, 0.0}, UTC)
	if err != nil {
		t.Fatalf("FromDateTime(next day): %v", err)
	}

	delta := nextDay.Sub(leapMoment)
	if math.Abs(delta.Seconds()-1.0) > 1e-6 {
		t.Errorf("leap second gap = %f s, want 1.0", delta.Seconds())
	}

	taiLeap, err := leapMoment.GetJulianDate(TAI)
	if err != nil {
		t.Fatalf("GetJulianDate(TAI): %v", err)
	}
	taiNext, err := nextDay.GetJulianDate(TAI)
	if err != nil {
		t.Fatalf("GetJulianDate(TAI): %v", err)
	}
	if math.Abs((taiNext-taiLeap)*86400.0-1.0) > 1e-6 {
		t.Errorf("TAI gap = %f s, want 1.0", (taiNext-taiLeap)*86400.0)
	}
}

func TestFromDateTimeValidation(t *testing.T) {
	_, err := FromDateTime(DateTime{2020, 13, 1, 0, 0, 0}, TT)
	if err == nil {
		t.Error("expected error for month=13")
	}
	_, err = FromDateTime(DateTime{2020, 1, 1, 24, 0, 0}, TT)
	if err == nil {
		t.Error("expected error for hour=24")
	}
}

func TestUndefinedPropagation(t *testing.T) {
	u := Undefined()
	if u.IsDefined() {
		t.Error("Undefined() should not be defined")
	}
	if _, err := u.GetJulianDate(TAI); err == nil {
		t.Error("expected error querying an undefined Instant")
	}
	if u.Equal(u) {
		t.Error("undefined Instant should not equal itself")
	}
}

func TestCompareAndArithmetic(t *testing.T) {
	a := J2000()
	oneDay := mustDuration(duration.FromDays(1))
	b := a.Add(oneDay)

	if !a.Before(b) || !b.After(a) {
		t.Error("Add(1 day) should move strictly later")
	}
	if a.Compare(b) != -1 {
		t.Errorf("Compare = %d, want -1", a.Compare(b))
	}
	delta := b.Sub(a)
	if math.Abs(delta.Days()-1.0) > 1e-9 {
		t.Errorf("Sub() = %f days, want 1.0", delta.Days())
	}
}

func TestGPSScaleOffset(t *testing.T) {
	now, err := FromJulianDate(2459000.0, TAI)
	if err != nil {
		t.Fatalf("FromJulianDate: %v", err)
	}
	gpsJD, err := now.GetJulianDate(GPS)
	if err != nil {
		t.Fatalf("GetJulianDate(GPS): %v", err)
	}
	taiJD, _ := now.GetJulianDate(TAI)
	if math.Abs((taiJD-gpsJD)*86400.0-19.0) > 1e-9 {
		t.Errorf("TAI-GPS offset = %f s, want 19.0", (taiJD-gpsJD)*86400.0)
	}
}

func TestModifiedJulianDate(t *testing.T) {
	i, err := FromModifiedJulianDate(51544.5, TT)
	if err != nil {
		t.Fatalf("FromModifiedJulianDate: %v", err)
	}
	jd, err := i.GetJulianDate(TT)
	if err != nil {
		t.Fatalf("GetJulianDate: %v", err)
	}
	if math.Abs(jd-j2000JDTT) > 1e-9 {
		t.Errorf("JD = %f, want %f", jd, j2000JDTT)
	}
}

type constantUT1Provider struct{ dut1Sec float64 }

func (p constantUT1Provider) UT1MinusUTCSec(jdUTC float64) (float64, bool) {
	return p.dut1Sec, true
}

func TestUT1ProviderOverridesStaticModel(t *testing.T) {
	defer SetUT1Provider(nil)

	i, err := FromDateTime(DateTime{Year: 2020, Month: 6, Day: 15}, UTC)
	if err != nil {
		t.Fatalf("FromDateTime: %v", err)
	}

	staticJD, err := i.GetJulianDate(UT1)
	if err != nil {
		t.Fatalf("GetJulianDate(UT1) static: %v", err)
	}

	SetUT1Provider(constantUT1Provider{dut1Sec: 0.2})
	providedJD, err := i.GetJulianDate(UT1)
	if err != nil {
		t.Fatalf("GetJulianDate(UT1) provided: %v", err)
	}

	utcJD, err := i.GetJulianDate(UTC)
	if err != nil {
		t.Fatalf("GetJulianDate(UTC): %v", err)
	}
	wantJD := utcJD + 0.2/86400.0
	if math.Abs(providedJD-wantJD) > 1e-12 {
		t.Errorf("UT1 JD with provider = %f, want %f", providedJD, wantJD)
	}
	if math.Abs(providedJD-staticJD) < 1e-9 {
		t.Error("installed UT1Provider should change the UT1 conversion from the static ΔT model")
	}

	back, err := FromJulianDate(providedJD, UT1)
	if err != nil {
		t.Fatalf("FromJulianDate(UT1): %v", err)
	}
	if !back.IsNear(i, mustDuration(duration.FromMicroseconds(1))) {
		t.Errorf("UT1 round trip through the installed provider did not recover i: delta=%s", back.Sub(i))
	}
}
