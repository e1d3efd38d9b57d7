package container

import (
	"fmt"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// Size returns the unit and count used to sort containers by size.
func Size(c types.ReadContainer) (unit string, n int) {
	return "item", c.Len()
}

// SizeForDisplay formats the item count of c, as in "1 item" or "3 items".
func SizeForDisplay(c types.ReadContainer) string {
	n := c.Len()
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
