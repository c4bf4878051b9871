package domain

import "context"

// Service labels payment rates with the configured risk bands. Bands are
// fetched once per call and passed explicitly into classification; nothing
// here keeps mutable global configuration.
type Service interface {
	Bands(ctx context.Context) ([]Band, error)
	SaveBands(ctx context.Context, bands []Band) error
	ClassifyStudent(ctx context.Context, studentID, schoolYear string) (*StudentRisk, error)
	ClassDistribution(ctx context.Context, className, schoolYear string) (*Distribution, error)
	OverallDistribution(ctx context.Context, schoolYear string) (*Distribution, error)
}
