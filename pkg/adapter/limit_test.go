package adapter

import (
	"math"
	"testing"

	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestLimit(t *testing.T) {
	const base = "SELECT * FROM t"

	tests := []struct {
		name string
		opts core.LimitOptions
		want string
	}{
		{"no options", core.LimitOptions{}, base},
		{"limit only", core.LimitOptions{Limit: 10}, base + " LIMIT 10"},
		{"offset only", core.LimitOptions{Offset: 5}, base + " OFFSET 5"},
		{"limit and offset", core.LimitOptions{Limit: 10, Offset: 5}, base + " LIMIT 10 OFFSET 5"},
		{"int64", core.LimitOptions{Limit: int64(3)}, base + " LIMIT 3"},
		{"uint", core.LimitOptions{Limit: uint(4)}, base + " LIMIT 4"},
		{"numeric string", core.LimitOptions{Limit: "10", Offset: " 20 "}, base + " LIMIT 10 OFFSET 20"},
		{"float", core.LimitOptions{Limit: 2.5}, base + " LIMIT 2.5"},
		{"exponent string", core.LimitOptions{Limit: "1e3", Offset: "2.0"}, base + " LIMIT 1000 OFFSET 2"},
		{"signed and padded strings", core.LimitOptions{Limit: "+007", Offset: "0x1p4"}, base + " LIMIT 7 OFFSET 16"},
		{"non numeric limit ignored", core.LimitOptions{Limit: "abc"}, base},
		{"non numeric offset ignored", core.LimitOptions{Limit: 1, Offset: "x"}, base + " LIMIT 1"},
		{"bool ignored", core.LimitOptions{Limit: true}, base},
		{"nan ignored", core.LimitOptions{Limit: math.NaN()}, base},
		{"infinity string ignored", core.LimitOptions{Limit: "Inf"}, base},
		{"slice ignored", core.LimitOptions{Limit: []int{1}}, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Limit(base, tt.opts))
		})
	}
}

func TestLimit_AdapterMethod(t *testing.T) {
	b := &BaseSQLAdapter{}
	opts := core.ParseLimitOptions(map[string]any{"limit": 10, "offset": "5"})
	assert.Equal(t, "SELECT 1 LIMIT 10 OFFSET 5", b.Limit("SELECT 1", opts))
}
