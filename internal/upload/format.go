package upload

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a size with 1024-based units and two decimals
func FormatBytes(n int64) string {
	if n == 0 {
		return "0 Bytes"
	}
	if n < 0 {
		return fmt.Sprintf("%d Bytes", n)
	}

	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	return fmt.Sprintf("%.2f %s", float64(n)/math.Pow(1024, float64(i)), sizeUnits[i])
}
