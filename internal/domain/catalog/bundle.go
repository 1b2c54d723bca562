package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wareline/backend/internal/domain/shared"
)

// ComponentReader reads bundle composition edges; implemented by ProductRepository
type ComponentReader interface {
	FindComponents(ctx context.Context, orgID, bundleID uuid.UUID) ([]BundleComponent, error)
}

// ValidateComponentEdge checks that adding componentID under bundleID keeps the
// composition graph acyclic. The check walks the component's own composition
// transitively; if the bundle is reachable from the component, the edge would
// close a cycle and is rejected.
func ValidateComponentEdge(ctx context.Context, reader ComponentReader, orgID, bundleID, componentID uuid.UUID) error {
	if bundleID == componentID {
		return shared.NewDomainError(shared.CodeValidation, "A bundle cannot contain itself")
	}

	visited := map[uuid.UUID]bool{}
	stack := []uuid.UUID{componentID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		edges, err := reader.FindComponents(ctx, orgID, current)
		if err != nil {
			return err
		}
		for _, edge := range edges {
			if edge.ComponentID == bundleID {
				return shared.NewDomainError(shared.CodeValidation,
					fmt.Sprintf("Component %s transitively contains bundle %s", componentID, bundleID))
			}
			if !visited[edge.ComponentID] {
				stack = append(stack, edge.ComponentID)
			}
		}
	}
	return nil
}
