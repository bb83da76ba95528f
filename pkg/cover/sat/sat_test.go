package sat

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/setcover/pkg/cover"
	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

func instance(universe uint, elements ...[]uint) *cover.Instance {
	sets := make([]cover.Set, len(elements))
	for i, es := range elements {
		sets[i] = cover.Set{ID: cover.ID(i), Elements: bitset.Of(universe, es...)}
	}
	return cover.NewInstance(universe, sets)
}

func TestSolve(t *testing.T) {
	type tc struct {
		Name     string
		Instance *cover.Instance
		Size     int
		Feasible bool
	}

	for _, tt := range []tc{
		{
			Name:     "empty universe",
			Instance: instance(0),
			Feasible: true,
		},
		{
			Name:     "empty universe with sets",
			Instance: instance(0, []uint{}),
			Feasible: true,
		},
		{
			Name:     "no sets",
			Instance: instance(2),
		},
		{
			Name:     "uncoverable element",
			Instance: instance(2, []uint{0}),
		},
		{
			Name:     "single superset",
			Instance: instance(3, []uint{0, 1}, []uint{1, 2}, []uint{0, 1, 2}),
			Size:     1,
			Feasible: true,
		},
		{
			Name:     "triangle",
			Instance: instance(3, []uint{0, 1}, []uint{1, 2}, []uint{0, 2}),
			Size:     2,
			Feasible: true,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			ids, ok, err := Solve(context.Background(), tt.Instance)
			require.NoError(t, err)
			assert.Equal(t, tt.Feasible, ok)
			if !ok {
				assert.Nil(t, ids)
				return
			}
			assert.Len(t, ids, tt.Size)
			assert.NoError(t, cover.Verify(tt.Instance, ids))
		})
	}
}

func TestSolveAgreesWithSearch(t *testing.T) {
	rnd := rand.New(rand.NewSource(21))
	for i := 0; i < 60; i++ {
		universe := uint(rnd.Intn(20) + 1)
		elements := make([][]uint, rnd.Intn(15)+1)
		for j := range elements {
			for e := uint(0); e < universe; e++ {
				if rnd.Float64() < 0.2 {
					elements[j] = append(elements[j], e)
				}
			}
		}
		in := instance(universe, elements...)

		want, feasible := cover.Solve(in)
		got, ok, err := Solve(context.Background(), in)
		require.NoError(t, err)
		require.Equal(t, feasible, ok, "instance %d", i)
		if !ok {
			continue
		}
		assert.Len(t, got, len(want), "instance %d", i)
		assert.NoError(t, cover.Verify(in, got), "instance %d", i)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Solve(ctx, instance(2, []uint{0}, []uint{1}))
	assert.ErrorIs(t, err, cover.Incomplete)
}
