// Package battle provides persistence for battle state
package battle

//go:generate mockgen -destination=mock/mock_repository.go -package=battlemock github.com/KirkDiggler/rpg-battle/internal/repositories/battle Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
)

// Repository stores battle state by id
type Repository interface {
	// Create stores a new battle
	// Returns errors.InvalidArgument for a nil state or empty id
	// Returns errors.AlreadyExists if a battle with the same id exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a battle by id
	// Returns errors.NotFound if the battle doesn't exist or has expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces the state of an existing battle and refreshes its expiry
	// Returns errors.NotFound if the battle doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a battle
	// Returns errors.NotFound if the battle doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a battle
type CreateInput struct {
	State *battle.State
}

// CreateOutput defines the output for creating a battle
type CreateOutput struct {
	State *battle.State
}

// GetInput defines the input for getting a battle
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a battle
type GetOutput struct {
	State *battle.State
}

// UpdateInput defines the input for updating a battle
type UpdateInput struct {
	State *battle.State
}

// UpdateOutput defines the output for updating a battle
type UpdateOutput struct {
	State *battle.State
}

// DeleteInput defines the input for deleting a battle
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a battle
type DeleteOutput struct{}
