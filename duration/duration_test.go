package duration

import (
	"math"
	"testing"

	"github.com/anupshinde/astrocore/astroerr"
)

func TestFromUnits(t *testing.T) {
	tests := []struct {
		name string
		d    Duration
		err  error
		want int64
	}{
		{"seconds", mustDur(FromSeconds(1.0)), nil, nsPerSecond},
		{"minutes", mustDur(FromMinutes(1.0)), nil, nsPerMinute},
		{"hours", mustDur(FromHours(1.0)), nil, nsPerHour},
		{"days", mustDur(FromDays(1.0)), nil, nsPerDay},
		{"milliseconds", mustDur(FromMilliseconds(1.0)), nil, nsPerMillisecond},
		{"microseconds", mustDur(FromMicroseconds(1.0)), nil, nsPerMicrosecond},
	}
	for _, tc := range tests {
		if tc.d.Nanoseconds() != tc.want {
			t.Errorf("%s: got %d ns, want %d", tc.name, tc.d.Nanoseconds(), tc.want)
		}
	}
}

func mustDur(d Duration, err error) Duration {
	if err != nil {
		panic(err)
	}
	return d
}

func TestZeroAndUndefined(t *testing.T) {
	if !Zero().IsDefined() {
		t.Error("Zero() should be defined")
	}
	if !Zero().IsZero() {
		t.Error("Zero() should be zero")
	}
	if Undefined().IsDefined() {
		t.Error("Undefined() should not be defined")
	}
	if Undefined().Equal(Undefined()) {
		t.Error("Undefined should not equal itself")
	}
}

func TestConversionsRoundTrip(t *testing.T) {
	d := FromNanoseconds(3*nsPerHour + 30*nsPerMinute)
	if math.Abs(d.Hours()-3.5) > 1e-9 {
		t.Errorf("Hours() = %f, want 3.5", d.Hours())
	}
	if math.Abs(d.Minutes()-210) > 1e-9 {
		t.Errorf("Minutes() = %f, want 210", d.Minutes())
	}
}

func TestAddSub(t *testing.T) {
	a := FromNanoseconds(nsPerHour)
	b := FromNanoseconds(nsPerMinute)
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Nanoseconds() != nsPerHour+nsPerMinute {
		t.Errorf("Add result = %d", sum.Nanoseconds())
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if diff.Nanoseconds() != nsPerHour-nsPerMinute {
		t.Errorf("Sub result = %d", diff.Nanoseconds())
	}
}

func TestAddOverflow(t *testing.T) {
	a := FromNanoseconds(math.MaxInt64)
	b := FromNanoseconds(1)
	_, err := a.Add(b)
	if !astroerr.Is(err, astroerr.ArithmeticOverflow) {
		t.Errorf("expected ArithmeticOverflow, got %v", err)
	}
}

func TestUndefinedPropagation(t *testing.T) {
	a := Undefined()
	b := Zero()
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("undefined Add should not error: %v", err)
	}
	if sum.IsDefined() {
		t.Error("Undefined + Zero should remain undefined")
	}
}

func TestAbsolute(t *testing.T) {
	neg := FromNanoseconds(-5 * nsPerSecond)
	abs := neg.Absolute()
	if abs.Nanoseconds() != 5*nsPerSecond {
		t.Errorf("Absolute() = %d, want %d", abs.Nanoseconds(), 5*nsPerSecond)
	}
}

func TestCompareBeforeAfter(t *testing.T) {
	a := FromNanoseconds(1)
	b := FromNanoseconds(2)
	if !a.Before(b) {
		t.Error("a should be before b")
	}
	if !b.After(a) {
		t.Error("b should be after a")
	}
	if a.Compare(b) != -1 {
		t.Errorf("Compare = %d, want -1", a.Compare(b))
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		ns   int64
		want string
	}{
		{0, "00:00:00"},
		{nsPerHour + 2*nsPerMinute + 3*nsPerSecond, "01:02:03"},
		{-(nsPerHour), "-01:00:00"},
		{500 * nsPerMillisecond, "00:00:00.500000000"},
	}
	for _, tc := range tests {
		got := FromNanoseconds(tc.ns).String()
		if got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.ns, got, tc.want)
		}
	}
}

func TestParseClockForm(t *testing.T) {
	d, err := Parse("01:02:03.500")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := nsPerHour + 2*nsPerMinute + 3*nsPerSecond + 500*nsPerMillisecond
	if d.Nanoseconds() != want {
		t.Errorf("Parse result = %d, want %d", d.Nanoseconds(), want)
	}

	d, err = Parse("-00:30:00")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Nanoseconds() != -30*nsPerMinute {
		t.Errorf("Parse negative result = %d", d.Nanoseconds())
	}
}

func TestParseISO8601(t *testing.T) {
	tests := []struct {
		s    string
		want int64
	}{
		{"PT1H", nsPerHour},
		{"P1DT2H30M", nsPerDay + 2*nsPerHour + 30*nsPerMinute},
		{"PT30S", 30 * nsPerSecond},
		{"-PT1H", -nsPerHour},
	}
	for _, tc := range tests {
		d, err := Parse(tc.s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.s, err)
		}
		if d.Nanoseconds() != tc.want {
			t.Errorf("Parse(%q) = %d, want %d", tc.s, d.Nanoseconds(), tc.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not a duration")
	if !astroerr.Is(err, astroerr.DomainError) {
		t.Errorf("expected DomainError, got %v", err)
	}
}
