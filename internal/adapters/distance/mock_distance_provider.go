package distance

import (
	"context"
	"fmt"
	"parcel-dispatch-service/internal/domain"
)

type MockPair struct {
	From, To string
	Miles    float64
}

// MockDistanceProvider answers from a fixed list of pairs. Pairs are mirrored
// and identical addresses are zero apart, so only one direction is needed.
type MockDistanceProvider struct {
	m     map[string]float64
	Calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]float64, 2*len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Miles
		m[p.To+"|"+p.From] = p.Miles
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (float64, error) {
	p.Calls++
	if origin == destination {
		return 0, nil
	}
	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q: %w", origin, destination, domain.ErrNotFound)
	}

	return r, nil
}
