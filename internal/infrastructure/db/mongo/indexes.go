package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureAllIndexes creates the indexes for every collection the service
// uses. Index creation is idempotent, so this runs on every startup.
func EnsureAllIndexes(ctx context.Context, db *mongo.Database) error {
	indexers := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		NewPrincipalRepository(db),
		NewEmployeeRepository(db),
		NewSkillRepository(db),
		NewEmployeeSkillRepository(db),
		NewLevelRepository(db),
		NewProjectRepository(db),
		NewAuditRepository(db),
	}

	for _, r := range indexers {
		if err := r.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}
