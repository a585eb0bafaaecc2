package microbench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	var nilSlice []int
	var nilMap map[string]int
	var nilPtr *int
	one := 1

	falsy := []any{nil, false, 0, int8(0), uint(0), 0.0, math.NaN(), "", nilSlice, nilMap, nilPtr}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}

	truthy := []any{true, -1, uint16(3), 0.5, "x", []int{}, map[string]int{}, &one, struct{}{}, [0]int{}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}
}
