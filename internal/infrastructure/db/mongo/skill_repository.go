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
)

const collectionSkills = "skills"

// SkillRepository implements ports.SkillRepository on MongoDB.
type SkillRepository struct {
	col *mongo.Collection
}

func NewSkillRepository(db *mongo.Database) *SkillRepository {
	return &SkillRepository{col: db.Collection(collectionSkills)}
}

type skillDoc struct {
	ID                   string    `bson:"_id"`
	Name                 string    `bson:"name"`
	Description          string    `bson:"description,omitempty"`
	RequiresTraining     bool      `bson:"requires_training"`
	TrainingExpiryMonths int       `bson:"training_expiry_months,omitempty"`
	TrainingDetails      string    `bson:"training_details,omitempty"`
	CreatedAt            time.Time `bson:"created_at"`
}

func skillToDoc(s *domain.Skill) skillDoc {
	return skillDoc{
		ID:                   s.ID,
		Name:                 s.Name,
		Description:          s.Description,
		RequiresTraining:     s.RequiresTraining,
		TrainingExpiryMonths: s.TrainingExpiryMonths,
		TrainingDetails:      s.TrainingDetails,
		CreatedAt:            s.CreatedAt.UTC(),
	}
}

func (d *skillDoc) toDomain() *domain.Skill {
	return &domain.Skill{
		ID:                   d.ID,
		Name:                 d.Name,
		Description:          d.Description,
		RequiresTraining:     d.RequiresTraining,
		TrainingExpiryMonths: d.TrainingExpiryMonths,
		TrainingDetails:      d.TrainingDetails,
		CreatedAt:            d.CreatedAt,
	}
}

func (r *SkillRepository) Create(ctx context.Context, s *domain.Skill) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, skillToDoc(s)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *SkillRepository) FindByID(ctx context.Context, id string) (*domain.Skill, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc skillDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSkillNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *SkillRepository) Update(ctx context.Context, s *domain.Skill) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, skillToDoc(s))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSkillNotFound
	}
	return nil
}

func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrSkillNotFound
	}
	return nil
}

// List returns skills matching the search on name or description,
// name-ascending. Page 0 returns everything.
func (r *SkillRepository) List(ctx context.Context, search string, page, limit int) ([]*domain.Skill, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = []bson.M{
			{"name": pattern},
			{"description": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if page > 0 && limit > 0 {
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var skills []*domain.Skill
	for cur.Next(ctx) {
		var doc skillDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		skills = append(skills, doc.toDomain())
	}
	return skills, total, cur.Err()
}

// EnsureIndexes creates the unique skill-name index.
func (r *SkillRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
