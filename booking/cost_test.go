package booking

import "testing"

func TestCost(t *testing.T) {
	cases := []struct {
		name  string
		rate  float64
		start string
		end   string
		want  float64
	}{
		{"whole hours", 10, "14:00", "16:00", 20.00},
		{"fractional duration", 20, "10:00", "11:30", 30.00},
		{"rounds half up", 9.99, "10:00", "11:30", 14.99}, // 14.985
		{"free area", 0, "10:00", "12:00", 0},
		{"thirty minutes", 15, "10:00", "10:30", 7.50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewTimeRange(tc.start, tc.end)
			if err != nil {
				t.Fatal(err)
			}
			if got := Cost(tc.rate, r); got != tc.want {
				t.Errorf("Cost(%v, %s-%s) = %v, want %v", tc.rate, tc.start, tc.end, got, tc.want)
			}
		})
	}
}
