package format

import "fmt"

// LapTime renders a lap time in milliseconds as M:SS.mmm, e.g. 125034 -> "2:05.034".
// Minutes do not roll over into hours.
func LapTime(timeMs int64) string {
	minutes := timeMs / 60000
	seconds := (timeMs % 60000) / 1000
	millis := timeMs % 1000
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
}
