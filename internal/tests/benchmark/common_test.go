package benchmark

import (
	"fmt"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
)

// ScreenCounts are the cluster sizes benchmarked.
var ScreenCounts = []int{2, 8, 32, 128}

// row returns n screens laid out left to right, 1920x1080 each.
func row(n int) []domain.Screen {
	screens := make([]domain.Screen, n)
	for i := range screens {
		id := fmt.Sprintf("10.0.%d.%d:24800", i/256, i%256)
		screens[i] = domain.Screen{
			ID:     domain.ScreenID(id),
			Route:  id,
			Origin: domain.Point{X: i * 1920},
			Extent: domain.Size{Width: 1920, Height: 1080},
		}
	}
	return screens
}
