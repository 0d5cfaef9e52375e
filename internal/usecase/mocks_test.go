package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/bidwriter/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

type generateCall struct {
	prompt       string
	systemPrompt string
	temperature  float64
}

// MockTextGenerator replays scripted responses in order
type MockTextGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []generateCall
}

func NewMockTextGenerator(responses ...string) *MockTextGenerator {
	return &MockTextGenerator{responses: responses}
}

func (m *MockTextGenerator) Name() string { return "mock" }

func (m *MockTextGenerator) Generate(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, generateCall{prompt: prompt, systemPrompt: systemPrompt, temperature: temperature})
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	return next, nil
}

func (m *MockTextGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockHistoryRepository keeps records in memory, oldest first
type MockHistoryRepository struct {
	records []domain.BidRecord
	addErr  error
	allErr  error
}

func (m *MockHistoryRepository) Add(ctx context.Context, record *domain.BidRecord) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *MockHistoryRepository) Recent(ctx context.Context, limit int) ([]domain.BidRecord, error) {
	if limit >= len(m.records) {
		return m.records, nil
	}
	return m.records[len(m.records)-limit:], nil
}

func (m *MockHistoryRepository) All(ctx context.Context) ([]domain.BidRecord, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	return m.records, nil
}

func (m *MockHistoryRepository) UpdateResult(ctx context.Context, projectName string, won bool) error {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ProjectName == projectName && m.records[i].Won == nil {
			m.records[i].Won = &won
			return nil
		}
	}
	return domain.ErrBidNotFound
}

// MockPageFetcher returns a fixed page
type MockPageFetcher struct {
	text string
	err  error
	url  string
}

func (m *MockPageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	m.url = url
	return m.text, m.err
}
