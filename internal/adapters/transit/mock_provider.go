package transit

import (
	"context"
	"sync"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

// MockResponse is one scripted provider outcome for tests.
type MockResponse struct {
	Route *domain.Route
	Err   error
}

// MockProvider serves scripted responses keyed by probe instant and
// mode, and counts upstream calls so tests can assert deduplication.
type MockProvider struct {
	mu        sync.Mutex
	responses map[string]MockResponse
	calls     int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{responses: make(map[string]MockResponse)}
}

func mockKey(instant time.Time, mode domain.Mode) string {
	return string(mode) + "@" + instant.UTC().Format(time.RFC3339)
}

// Respond scripts the outcome for one (instant, mode) probe.
func (p *MockProvider) Respond(instant time.Time, mode domain.Mode, res MockResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses[mockKey(instant, mode)] = res
}

func (p *MockProvider) Query(_ context.Context, _, _ domain.Location, instant time.Time, mode domain.Mode) (*domain.Route, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	res, ok := p.responses[mockKey(instant, mode)]
	if !ok {
		return nil, &domain.RouteError{Kind: domain.KindZeroResults, Detail: "no scripted response"}
	}
	return res.Route, res.Err
}

// Calls reports how many upstream queries were issued.
func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
