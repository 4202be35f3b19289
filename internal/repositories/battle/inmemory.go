package battle

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage.
// Entries never expire.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*battle.State
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*battle.State),
	}
}

// Create stores a battle
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateState(input.State); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.State.ID]; exists {
		return nil, errors.AlreadyExistsf("battle with ID %s already exists", input.State.ID)
	}

	// Keep a copy so callers can keep mutating theirs
	r.store[input.State.ID] = input.State.Clone()

	return &CreateOutput{State: input.State}, nil
}

// Get retrieves a battle by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("battle with ID %s not found", input.ID)
	}

	return &GetOutput{State: state.Clone()}, nil
}

// Update replaces an existing battle
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateState(input.State); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.State.ID]; !exists {
		return nil, errors.NotFoundf("battle with ID %s not found", input.State.ID)
	}

	r.store[input.State.ID] = input.State.Clone()

	return &UpdateOutput{State: input.State}, nil
}

// Delete removes a battle
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return nil, errors.NotFoundf("battle with ID %s not found", input.ID)
	}

	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}
