package format

import "testing"

func TestLapTime(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00.000"},
		{999, "0:00.999"},
		{1000, "0:01.000"},
		{59999, "0:59.999"},
		{60000, "1:00.000"},
		{125034, "2:05.034"},
		{3661001, "61:01.001"},
	}
	for _, c := range cases {
		if got := LapTime(c.ms); got != c.want {
			t.Errorf("LapTime(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
