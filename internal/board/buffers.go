package board

import (
	. "github.com/castlegate/chessai/internal/helpers"
)

// Pooled scratch buffers for destination squares; attack checks run once
// per piece per recalculation and shouldn't allocate each time.
var GetSquaresBuffer, ReleaseSquaresBuffer, SquaresBufferStats = CreatePool(
	func() []int {
		return make([]int, 0, 32)
	},
	func(squares *[]int) {
		*squares = (*squares)[:0]
	},
)
