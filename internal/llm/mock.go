package llm

import "context"

// MockClient is a scriptable Client for tests.
type MockClient struct {
	GenerateFunc func(ctx context.Context, req PushRequest) (string, error)
	RepairFunc   func(ctx context.Context, draft string, minLen, maxLen int) (string, error)

	GenerateCalls int
	RepairCalls   int
}

// GeneratePush implements Client.
func (m *MockClient) GeneratePush(ctx context.Context, req PushRequest) (string, error) {
	m.GenerateCalls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", nil
}

// RepairPush implements Client.
func (m *MockClient) RepairPush(ctx context.Context, draft string, minLen, maxLen int) (string, error) {
	m.RepairCalls++
	if m.RepairFunc != nil {
		return m.RepairFunc(ctx, draft, minLen, maxLen)
	}
	return draft, nil
}
