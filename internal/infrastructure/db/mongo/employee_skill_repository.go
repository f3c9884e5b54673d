package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

const collectionEmployeeSkills = "employee_skills"

// EmployeeSkillRepository implements ports.EmployeeSkillRepository on
// MongoDB.
type EmployeeSkillRepository struct {
	col *mongo.Collection
}

func NewEmployeeSkillRepository(db *mongo.Database) *EmployeeSkillRepository {
	return &EmployeeSkillRepository{col: db.Collection(collectionEmployeeSkills)}
}

type employeeSkillDoc struct {
	EmployeeID         string     `bson:"employee_id"`
	SkillID            string     `bson:"skill_id"`
	Proficiency        int        `bson:"proficiency"`
	LastTrainingDate   *time.Time `bson:"last_training_date,omitempty"`
	TrainingExpiryDate *time.Time `bson:"training_expiry_date,omitempty"`
	UpdatedAt          time.Time  `bson:"updated_at"`
}

// ReplaceForEmployee swaps the employee's complete skill set: delete
// existing links, insert the new ones. Matches the source-of-record
// semantics of the skills form, which always submits the full set.
func (r *EmployeeSkillRepository) ReplaceForEmployee(ctx context.Context, employeeID string, links []*domain.EmployeeSkill) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"employee_id": employeeID}); err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(links))
	for _, l := range links {
		docs = append(docs, employeeSkillDoc{
			EmployeeID:         l.EmployeeID,
			SkillID:            l.SkillID,
			Proficiency:        l.Proficiency,
			LastTrainingDate:   l.LastTrainingDate,
			TrainingExpiryDate: l.TrainingExpiryDate,
			UpdatedAt:          l.UpdatedAt.UTC(),
		})
	}

	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *EmployeeSkillRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.EmployeeSkill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"employee_id": employeeID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var links []*domain.EmployeeSkill
	for cur.Next(ctx) {
		var doc employeeSkillDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		links = append(links, &domain.EmployeeSkill{
			EmployeeID:         doc.EmployeeID,
			SkillID:            doc.SkillID,
			Proficiency:        doc.Proficiency,
			LastTrainingDate:   doc.LastTrainingDate,
			TrainingExpiryDate: doc.TrainingExpiryDate,
			UpdatedAt:          doc.UpdatedAt,
		})
	}
	return links, cur.Err()
}

func (r *EmployeeSkillRepository) DeleteForEmployee(ctx context.Context, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"employee_id": employeeID})
	return err
}

func (r *EmployeeSkillRepository) CountBySkill(ctx context.Context, skillID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"skill_id": skillID})
}

// EnsureIndexes creates the link lookup indexes.
func (r *EmployeeSkillRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "skill_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "skill_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
