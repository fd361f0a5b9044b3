package transcode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		b       byte
		kind    Kind
		lo, hi  byte
		special bool
	}{
		{0x00, ASCII, 0, 0, false},
		{0x7F, ASCII, 0, 0, false},
		{0x80, Continuation, 0, 0, false},
		{0xBF, Continuation, 0, 0, false},
		{0xC0, Invalid, 0, 0, false},
		{0xC1, Invalid, 0, 0, false},
		{0xC2, Lead2, 0x80, 0xBF, false},
		{0xDF, Lead2, 0x80, 0xBF, false},
		{0xE0, Lead3, 0xA0, 0xBF, true},
		{0xE1, Lead3, 0x80, 0xBF, false},
		{0xEC, Lead3, 0x80, 0xBF, false},
		{0xED, Lead3, 0x80, 0x9F, true},
		{0xEE, Lead3, 0x80, 0xBF, false},
		{0xEF, Lead3, 0x80, 0xBF, false},
		{0xF0, Lead4, 0x90, 0xBF, true},
		{0xF1, Lead4, 0x80, 0xBF, false},
		{0xF3, Lead4, 0x80, 0xBF, false},
		{0xF4, Lead4, 0x80, 0x8F, true},
		{0xF5, Invalid, 0, 0, false},
		{0xFF, Invalid, 0, 0, false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%02X", tc.b), func(t *testing.T) {
			c := Classify(tc.b)
			assert.Equal(t, tc.kind, c.Kind)
			assert.Equal(t, tc.lo, c.Lo)
			assert.Equal(t, tc.hi, c.Hi)
			assert.Equal(t, tc.special, c.Special())
		})
	}
}

func TestClassLen(t *testing.T) {
	counts := map[int]int{}
	for b := 0; b < 256; b++ {
		counts[Classify(byte(b)).Len()]++
	}
	assert.Equal(t, map[int]int{0: 64 + 2 + 11, 1: 128, 2: 30, 3: 16, 4: 5}, counts)
}

func TestClassAcceptsFirstContinuation(t *testing.T) {
	testCases := []struct {
		lead, b byte
		want    bool
	}{
		{0xC2, 0x80, true},
		{0xC2, 0xC0, false},
		{0xE0, 0x9F, false},
		{0xE0, 0xA0, true},
		{0xED, 0x9F, true},
		{0xED, 0xA0, false},
		{0xF0, 0x8F, false},
		{0xF0, 0x90, true},
		{0xF4, 0x8F, true},
		{0xF4, 0x90, false},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%02X %02X", tc.lead, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.lead).accepts(tc.b))
			n, st := next([]byte{tc.lead, tc.b})
			if tc.want {
				assert.NotEqual(t, rejected, st)
			} else {
				assert.Equal(t, rejected, st)
				assert.Equal(t, 1, n)
			}
		})
	}
}
