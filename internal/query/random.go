package query

import (
	"math/rand/v2"
	"sync"

	"Storefront/internal/catalog"
)

// PickRandom returns count distinct products in random order, or all of them
// shuffled when count exceeds the input.
func PickRandom(products []catalog.Product, count int) []catalog.Product {
	return pick(products, count, rand.Perm)
}

// Picker is a seeded source of random picks, for reproducible selections.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPicker(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *Picker) Pick(products []catalog.Product, count int) []catalog.Product {
	return pick(products, count, func(n int) []int {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.rng.Perm(n)
	})
}

// Recommend picks count products other than the one with slug exclude.
// A nil picker uses unseeded randomness.
func Recommend(products []catalog.Product, exclude string, count int, picker *Picker) []catalog.Product {
	others := filter(products, func(p catalog.Product) bool { return p.Slug != exclude })
	if picker == nil {
		return PickRandom(others, count)
	}
	return picker.Pick(others, count)
}

func pick(products []catalog.Product, count int, perm func(int) []int) []catalog.Product {
	if count <= 0 || len(products) == 0 {
		return []catalog.Product{}
	}

	idx := perm(len(products))
	if count < len(idx) {
		idx = idx[:count]
	}

	out := make([]catalog.Product, len(idx))
	for i, j := range idx {
		out[i] = products[j]
	}
	return out
}
