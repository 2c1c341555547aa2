package match

import "context"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	saddEachFn func(ctx context.Context, key string, members []string) ([]string, error)
	smembersFn func(ctx context.Context, key string) ([]string, error)
	delMultiFn func(ctx context.Context, keys ...string) error
	getFn      func(ctx context.Context, key string) ([]byte, error)
	setFn      func(ctx context.Context, key string, value []byte) error
}

func (m *mockStore) SAddEach(ctx context.Context, key string, members []string) ([]string, error) {
	if m.saddEachFn != nil {
		return m.saddEachFn(ctx, key, members)
	}
	return members, nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) DelMulti(ctx context.Context, keys ...string) error {
	if m.delMultiFn != nil {
		return m.delMultiFn(ctx, keys...)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}
