package service

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/markscan/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	id string
}

func (m *mockProvider) Definition() types.Service {
	return types.Service{
		ID:           m.id,
		Name:         "Mock Service",
		Description:  "A mock service for testing",
		Category:     types.CategoryScraper,
		Capabilities: []string{"link_listing", "title_lookup"},
		Tools: []types.Tool{
			{
				ID:          m.id + ".test",
				Name:        "Test Tool",
				Description: "A test tool",
				Returns:     "string",
			},
		},
	}
}

func (m *mockProvider) Execute(_ context.Context, toolID string, _ map[string]any) (*types.Result, error) {
	return &types.Result{
		Success: true,
		Data:    map[string]any{"tool": toolID},
	}, nil
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "test"}))

	_, ok := r.Get("test")
	assert.True(t, ok)

	assert.Error(t, r.Register(&mockProvider{id: ""}))

	r.Unregister("test")
	_, ok = r.Get("test")
	assert.False(t, ok)
}

func TestListSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "zeta"}))
	require.NoError(t, r.Register(&mockProvider{id: "alpha"}))

	services := r.List(nil)
	require.Len(t, services, 2)
	assert.Equal(t, "alpha", services[0].ID)
	assert.Equal(t, "zeta", services[1].ID)

	cat := types.CategoryScraper
	assert.Len(t, r.List(&cat), 2)

	other := types.Category("other")
	assert.Empty(t, r.List(&other))
}

func TestDiscover(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "scan"}))

	results := r.Discover("scan for link listing", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "scan", results[0].ID)

	assert.Empty(t, r.Discover("zzz", 5))
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "test"}))

	tests := []struct {
		name    string
		toolID  string
		wantErr error
	}{
		{"routes by prefix", "test.test", nil},
		{"no prefix", "test", ErrInvalidToolID},
		{"empty prefix", ".test", ErrInvalidToolID},
		{"unknown service", "nope.test", ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Execute(context.Background(), tt.toolID, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				require.NotNil(t, result)
				assert.False(t, result.Success)
				assert.NotEmpty(t, result.ErrorMessage())
				return
			}
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, tt.toolID, result.Data["tool"])
		})
	}
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockProvider{id: "test1"}))
	require.NoError(t, r.Register(&mockProvider{id: "test2"}))

	stats := r.Stats()
	assert.Equal(t, 2, stats["total_services"])
	assert.Equal(t, 2, stats["total_tools"])
	assert.Equal(t, map[string]int{"scraper": 2}, stats["categories"])
}
