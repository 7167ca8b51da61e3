package navigation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navd/internal/model"
)

func TestSortItems_SectionOrderThenPosition(t *testing.T) {
	items := []model.NavigationItem{
		{Key: "b", Label: "b", SectionOrder: f(200), Position: 3},
		{Key: "a", Label: "a", SectionOrder: f(100), Position: 2},
		{Key: "c", Label: "c", SectionOrder: f(200), Position: 1},
		{Key: "d", Label: "d", Position: 0},
	}

	sorted := SortItems(items)

	assert.Equal(t, []string{"a", "c", "b", "d"}, keys(sorted))
	assert.Equal(t, []string{"b", "a", "c", "d"}, keys(items), "input must not be reordered")
}

func TestSortItems_RussianLabels(t *testing.T) {
	items := []model.NavigationItem{
		{Key: "beta", Label: "Бета", SectionOrder: f(1), Position: 1},
		{Key: "alpha", Label: "Альфа", SectionOrder: f(1), Position: 1},
		{Key: "gamma", Label: "Гамма", SectionOrder: f(1), Position: 1},
	}

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, keys(SortItems(items)))
}

func TestCompare_MissingSectionOrderSortsAfterExplicitZero(t *testing.T) {
	unset := model.NavigationItem{Key: "unset", Label: "a", Position: 0}
	zero := model.NavigationItem{Key: "zero", Label: "b", SectionOrder: f(0), Position: 5}
	nan := model.NavigationItem{Key: "nan", Label: "c", SectionOrder: f(math.NaN()), Position: -1}

	assert.Equal(t, 1, Compare(unset, zero))
	assert.Equal(t, -1, Compare(zero, unset))
	assert.Equal(t, 1, Compare(nan, zero))
	// Both lack a section order, so position decides.
	assert.Equal(t, -1, Compare(nan, unset))

	assert.Equal(t, []string{"zero", "nan", "unset"}, keys(SortItems([]model.NavigationItem{unset, zero, nan})))
}

func TestSortItems_StableOnFullTies(t *testing.T) {
	items := []model.NavigationItem{
		{Key: "first", Label: "Задачи", Position: 1},
		{Key: "second", Label: "Задачи", Position: 1},
		{Key: "third", Label: "Задачи", Position: 1},
	}

	assert.Equal(t, []string{"first", "second", "third"}, keys(SortItems(items)))
}

func TestCompare_Totality(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	labels := []string{"Альфа", "альфа", "Бета", "Ёлка", "Еж", "Проекты", "", "Zeta"}
	orders := []*float64{nil, f(0), f(100), f(-5), f(math.NaN()), f(math.Inf(1))}
	positions := []float64{0, 1, 2, math.NaN(), -3}

	random := func() model.NavigationItem {
		return model.NavigationItem{
			Label:        labels[rng.IntN(len(labels))],
			SectionOrder: orders[rng.IntN(len(orders))],
			Position:     positions[rng.IntN(len(positions))],
		}
	}

	for i := 0; i < 2000; i++ {
		a, b := random(), random()
		ab, ba := Compare(a, b), Compare(b, a)
		require.Contains(t, []int{-1, 0, 1}, ab)
		require.Equal(t, -ab, ba, "compare(%+v, %+v) is not antisymmetric", a, b)
		require.Equal(t, 0, Compare(a, a))
	}
}
