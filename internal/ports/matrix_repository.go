package ports

import (
	"archive-route-service/internal/domain"
	"context"
)

// A persisted matrix together with the row/column labels it was saved with.
type LabelledMatrix struct {
	Labels []string
	Matrix *domain.TravelMatrix
}

// Port: persistence of travel matrices.
type MatrixRepository interface {
	// Store the matrix; the diagonal is written as a round trip through the depot.
	SaveMatrix(ctx context.Context, labels []string, m *domain.TravelMatrix) error
	// Return the stored matrix as it was written.
	LoadMatrix(ctx context.Context) (*LabelledMatrix, error)
}

// Port: model input data consumed by the optimizer (locations and fleet usage).
type InputDataRepository interface {
	SaveInputData(ctx context.Context, locations []*domain.PhysicalLocation, types []*domain.VehicleType, anonymise bool) error
}
