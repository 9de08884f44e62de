package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/markscan/internal/types"
)

var (
	// ErrInvalidToolID is returned for tool IDs without a "service." prefix.
	ErrInvalidToolID = errors.New("invalid tool ID format")
	// ErrServiceNotFound is returned when no provider owns the tool's prefix.
	ErrServiceNotFound = errors.New("service not found")
)

// Registry manages service discovery and execution
type Registry struct {
	mu       sync.RWMutex
	services map[string]Provider
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]any) (*types.Result, error)
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Provider)}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[def.ID] = provider
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.services[serviceID]
	return p, ok
}

// List returns registered services ordered by ID, optionally filtered by
// category
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]types.Service, 0, len(r.services))
	for _, provider := range r.services {
		def := provider.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Discover finds services relevant to a free-text query
func (r *Registry) Discover(query string, limit int) []types.Service {
	type scoredService struct {
		service types.Service
		score   float64
	}

	query = strings.ToLower(query)
	var results []scoredService

	for _, def := range r.List(nil) {
		if score := relevance(query, def); score > 0 {
			results = append(results, scoredService{service: def, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	output := make([]types.Service, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		output = append(output, results[i].service)
	}
	return output
}

// Execute runs a tool on the provider named by the tool ID's prefix
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]any) (*types.Result, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok || serviceID == "" {
		return failure(fmt.Errorf("%w: %s", ErrInvalidToolID, toolID))
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return failure(fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID))
	}

	return provider.Execute(ctx, toolID, params)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]any {
	var totalTools int
	categories := make(map[string]int)

	services := r.List(nil)
	for _, def := range services {
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
	}

	return map[string]any{
		"total_services": len(services),
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

func relevance(query string, service types.Service) float64 {
	score := 0.0

	if strings.Contains(query, service.ID) || strings.Contains(query, strings.ToLower(service.Name)) {
		score += 10.0
	}

	for _, word := range strings.Fields(strings.ToLower(service.Description)) {
		if len(word) > 2 && strings.Contains(query, word) {
			score += 5.0
		}
	}

	for _, capability := range service.Capabilities {
		if strings.Contains(query, strings.ReplaceAll(strings.ToLower(capability), "_", " ")) {
			score += 3.0
		}
	}

	for _, tool := range service.Tools {
		if strings.Contains(query, strings.ToLower(tool.Name)) {
			score += 1.0
		}
	}

	return score
}

func failure(err error) (*types.Result, error) {
	msg := err.Error()
	return &types.Result{Success: false, Error: &msg}, err
}
