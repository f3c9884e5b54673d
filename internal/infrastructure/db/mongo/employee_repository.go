package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

const collectionEmployees = "employees"

// EmployeeRepository implements ports.EmployeeRepository on MongoDB.
type EmployeeRepository struct {
	col      *mongo.Collection
	projects *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{
		col:      db.Collection(collectionEmployees),
		projects: db.Collection(collectionProjects),
	}
}

type employeeDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	ClockID   string    `bson:"clock_id,omitempty"`
	JobTitle  string    `bson:"job_title"`
	LevelID   string    `bson:"level_id"`
	ProjectID string    `bson:"project_id,omitempty"`
	StartDate time.Time `bson:"start_date"`
	CreatedAt time.Time `bson:"created_at"`
}

func employeeToDoc(e *domain.Employee) employeeDoc {
	return employeeDoc{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		ClockID:   e.ClockID,
		JobTitle:  e.JobTitle,
		LevelID:   e.LevelID,
		ProjectID: e.ProjectID,
		StartDate: e.StartDate.UTC(),
		CreatedAt: e.CreatedAt.UTC(),
	}
}

func (d *employeeDoc) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		ClockID:   d.ClockID,
		JobTitle:  d.JobTitle,
		LevelID:   d.LevelID,
		ProjectID: d.ProjectID,
		StartDate: d.StartDate,
		CreatedAt: d.CreatedAt,
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, employeeToDoc(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc employeeDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, employeeToDoc(e))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

// List returns employees matching the filter, name-ascending, and the
// total match count. A search term matches name, email, job title,
// clock ID, or the name of the assigned project.
func (r *EmployeeRepository) List(ctx context.Context, filter ports.ListEmployeesFilter) ([]*domain.Employee, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": filter.IDs}
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		or := []bson.M{
			{"name": pattern},
			{"email": pattern},
			{"job_title": pattern},
			{"clock_id": pattern},
		}
		if ids, err := r.projectIDsByName(ctx, pattern); err == nil && len(ids) > 0 {
			or = append(or, bson.M{"project_id": bson.M{"$in": ids}})
		}
		query["$or"] = or
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Page > 0 && filter.Limit > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var employees []*domain.Employee
	for cur.Next(ctx) {
		var doc employeeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		employees = append(employees, doc.toDomain())
	}
	return employees, total, cur.Err()
}

func (r *EmployeeRepository) CountByLevel(ctx context.Context, levelID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"level_id": levelID})
}

func (r *EmployeeRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"project_id": projectID})
}

// projectIDsByName resolves project ids whose name matches the pattern,
// standing in for the relational join the search needs.
func (r *EmployeeRepository) projectIDsByName(ctx context.Context, pattern primitive.Regex) ([]string, error) {
	cur, err := r.projects.Find(ctx, bson.M{"name": pattern},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cur.Err()
}

// EnsureIndexes creates the employee lookup indexes.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "level_id", Value: 1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
