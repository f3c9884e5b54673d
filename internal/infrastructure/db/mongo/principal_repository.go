package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
)

const collectionPrincipals = "principals"

// PrincipalRepository implements ports.PrincipalRepository on MongoDB.
type PrincipalRepository struct {
	col *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *PrincipalRepository {
	return &PrincipalRepository{col: db.Collection(collectionPrincipals)}
}

type principalDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email,omitempty"`
	ClockID      string    `bson:"clock_id,omitempty"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d *principalDoc) toDomain() *domain.Principal {
	return &domain.Principal{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		ClockID:      d.ClockID,
		Role:         domain.Role(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// Create inserts a principal. A colliding email or clock ID trips the
// unique index and surfaces as domain.ErrDuplicateIdentifier.
func (r *PrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	doc := principalDoc{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		ClockID:      p.ClockID,
		Role:         string(p.Role),
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentifier
		}
		return nil, err
	}
	return p, nil
}

func (r *PrincipalRepository) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *PrincipalRepository) FindByClockID(ctx context.Context, clockID string) (*domain.Principal, error) {
	return r.findOne(ctx, bson.M{"clock_id": clockID})
}

func (r *PrincipalRepository) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc principalDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// UpdatePasswordHash atomically replaces the stored hash.
func (r *PrincipalRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

// SetRole changes the role. Demotion to employee also clears the
// password hash, which is no longer a valid credential for that tier.
func (r *PrincipalRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"role": string(role)}}
	if role == domain.RoleEmployee {
		update["$unset"] = bson.M{"password_hash": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

// UpdateIdentifiers syncs the login identifiers with an employee
// profile. Empty values are unset so the sparse unique indexes keep
// working.
func (r *PrincipalRepository) UpdateIdentifiers(ctx context.Context, id, email, clockID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	unset := bson.M{}
	if email != "" {
		set["email"] = email
	} else {
		unset["email"] = ""
	}
	if clockID != "" {
		set["clock_id"] = clockID
	} else {
		unset["clock_id"] = ""
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (r *PrincipalRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

func (r *PrincipalRepository) CountAdmins(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"role": string(domain.RoleAdmin)})
}

func (r *PrincipalRepository) ListAdmins(ctx context.Context) ([]*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"role": string(domain.RoleAdmin)},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var admins []*domain.Principal
	for cur.Next(ctx) {
		var doc principalDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		admins = append(admins, doc.toDomain())
	}
	return admins, cur.Err()
}

// EnsureIndexes creates the unique identifier indexes. Sparse so that
// principals without an email or clock ID do not collide on the empty
// value.
func (r *PrincipalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "clock_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
