package booking

import "testing"

func TestNewTimeRange(t *testing.T) {
	cases := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid", "10:00", "11:30", false},
		{"start equals end", "10:00", "10:00", true},
		{"start after end", "12:00", "10:00", true},
		{"bad start format", "10h00", "11:00", true},
		{"bad end format", "10:00", "25:00", true},
		{"empty", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTimeRange(tc.start, tc.end)
			if tc.wantErr && err != ErrInvalidRange {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	mustRange := func(start, end string) TimeRange {
		r, err := NewTimeRange(start, end)
		if err != nil {
			t.Fatalf("bad range %s-%s: %v", start, end, err)
		}
		return r
	}

	cases := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{"back to back", mustRange("10:00", "11:00"), mustRange("11:00", "12:00"), false},
		{"containment", mustRange("10:00", "12:00"), mustRange("11:00", "11:30"), true},
		{"partial overlap", mustRange("10:00", "12:00"), mustRange("11:00", "13:00"), true},
		{"identical", mustRange("10:00", "12:00"), mustRange("10:00", "12:00"), true},
		{"disjoint", mustRange("08:00", "09:00"), mustRange("14:00", "15:00"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// overlap is symmetric
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestDurationHours(t *testing.T) {
	r, err := NewTimeRange("10:00", "11:30")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.DurationHours(); got != 1.5 {
		t.Errorf("DurationHours() = %v, want 1.5", got)
	}
}

func TestTimeRangeAccessors(t *testing.T) {
	r, err := NewTimeRange("09:05", "22:00")
	if err != nil {
		t.Fatal(err)
	}
	if r.Start() != "09:05" || r.End() != "22:00" {
		t.Errorf("accessors = %s / %s", r.Start(), r.End())
	}
}
