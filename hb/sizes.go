package hb

import (
	"encoding/json"
	"fmt"
)

// Size is one width/height pair.
type Size struct {
	W int64
	H int64
}

// Sizes holds the requested ad sizes of a slot. Hosts send either a list of pairs
// ([[300,250],[728,90]]) or a single flat pair ([300,250]); both decode to the same value.
type Sizes []Size

func (s *Sizes) UnmarshalJSON(b []byte) error {
	var nested [][]int64
	if err := json.Unmarshal(b, &nested); err == nil {
		sizes := make(Sizes, 0, len(nested))
		for _, pair := range nested {
			if len(pair) < 2 {
				return fmt.Errorf("size %v must have a width and a height", pair)
			}
			sizes = append(sizes, Size{W: pair[0], H: pair[1]})
		}
		*s = sizes
		return nil
	}

	var flat []int64
	if err := json.Unmarshal(b, &flat); err != nil {
		return fmt.Errorf("sizes must be a [w,h] pair or a list of pairs: %v", err)
	}
	if len(flat) < 2 {
		return fmt.Errorf("size %v must have a width and a height", flat)
	}
	*s = Sizes{{W: flat[0], H: flat[1]}}
	return nil
}

func (s Sizes) MarshalJSON() ([]byte, error) {
	pairs := make([][2]int64, 0, len(s))
	for _, size := range s {
		pairs = append(pairs, [2]int64{size.W, size.H})
	}
	return json.Marshal(pairs)
}

// First returns the primary size of the slot.
func (s Sizes) First() (Size, bool) {
	if len(s) == 0 {
		return Size{}, false
	}
	return s[0], true
}
