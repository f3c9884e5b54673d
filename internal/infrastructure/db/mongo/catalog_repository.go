package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

const (
	collectionLevels   = "levels"
	collectionProjects = "projects"
)

// LevelRepository implements ports.LevelRepository on MongoDB.
type LevelRepository struct {
	col *mongo.Collection
}

func NewLevelRepository(db *mongo.Database) *LevelRepository {
	return &LevelRepository{col: db.Collection(collectionLevels)}
}

type levelDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Order     int       `bson:"order"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *LevelRepository) Create(ctx context.Context, l *domain.Level) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, levelDoc{
		ID:        l.ID,
		Name:      l.Name,
		Order:     l.Order,
		CreatedAt: l.CreatedAt.UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateIdentifier
	}
	return err
}

func (r *LevelRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrLevelNotFound
	}
	return nil
}

// List returns all levels in progression order.
func (r *LevelRepository) List(ctx context.Context) ([]*domain.Level, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var levels []*domain.Level
	for cur.Next(ctx) {
		var doc levelDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		levels = append(levels, &domain.Level{
			ID:        doc.ID,
			Name:      doc.Name,
			Order:     doc.Order,
			CreatedAt: doc.CreatedAt,
		})
	}
	return levels, cur.Err()
}

// EnsureIndexes creates the unique level-name index.
func (r *LevelRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// ProjectRepository implements ports.ProjectRepository on MongoDB.
type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

type projectDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, projectDoc{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateIdentifier
	}
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// List returns all projects sorted by name.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var projects []*domain.Project
	for cur.Next(ctx) {
		var doc projectDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		projects = append(projects, &domain.Project{
			ID:        doc.ID,
			Name:      doc.Name,
			CreatedAt: doc.CreatedAt,
		})
	}
	return projects, cur.Err()
}

// EnsureIndexes creates the unique project-name index.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
