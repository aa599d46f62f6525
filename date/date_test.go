package date

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	if got, want := New(2025, time.February, 30), New(2025, time.March, 2); got != want {
		t.Errorf("New(2025-02-30) = %v, want %v", got, want)
	}
	if got := New(2025, time.July, 1).String(); got != "2025-07-01" {
		t.Errorf("String() = %q", got)
	}
}

func TestAdd(t *testing.T) {
	testCases := []struct {
		from Date
		days int
		want Date
	}{
		{New(2025, time.March, 3), 2, New(2025, time.March, 5)},
		{New(2025, time.February, 27), 2, New(2025, time.March, 1)},
		{New(2025, time.January, 1), -1, New(2024, time.December, 31)},
		{New(2025, time.January, 1), 0, New(2025, time.January, 1)},
	}
	for _, tc := range testCases {
		if got := tc.from.Add(tc.days); got != tc.want {
			t.Errorf("%v.Add(%d) = %v, want %v", tc.from, tc.days, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, time.July, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "2025-07-01 15:30:00", want: New(2025, time.July, 1)},
		{in: "07/01/2025", wantErr: true},
		{in: "yesterday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestOf(t *testing.T) {
	// 23:30 UTC is already the next day one hour east.
	instant := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC)
	if got, want := Of(instant), New(2025, time.March, 9); got != want {
		t.Errorf("Of(UTC) = %v, want %v", got, want)
	}
	east := time.FixedZone("UTC+1", 3600)
	if got, want := Of(instant.In(east)), New(2025, time.March, 10); got != want {
		t.Errorf("Of(UTC+1) = %v, want %v", got, want)
	}
}

func TestAfter(t *testing.T) {
	a, b := New(2025, time.March, 9), New(2025, time.March, 10)
	if !b.After(a) || a.After(b) || a.After(a) {
		t.Errorf("After is not a strict order on %v and %v", a, b)
	}
}
