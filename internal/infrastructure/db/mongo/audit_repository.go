package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamskills/skills-matrix-api/internal/core/domain"
	"github.com/teamskills/skills-matrix-api/internal/core/ports"
)

const collectionAudit = "audit_entries"

// AuditRepository implements the append-only audit trail on MongoDB.
// Entries are only ever inserted and read, never updated or deleted.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	ID        string    `bson:"_id"`
	ActorID   string    `bson:"actor_id"`
	ActorName string    `bson:"actor_name"`
	Action    string    `bson:"action"`
	EntityRef string    `bson:"entity_ref,omitempty"`
	Detail    string    `bson:"detail,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

// Insert appends one entry.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, auditDoc{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		ActorName: entry.ActorName,
		Action:    string(entry.Action),
		EntityRef: entry.EntityRef,
		Detail:    entry.Detail,
		Timestamp: entry.Timestamp.UTC(),
	})
	return err
}

// List returns one timestamp-descending page and the total match count.
func (r *AuditRepository) List(ctx context.Context, filter ports.AuditFilter) ([]*domain.AuditEntry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.ActorID != "" {
		query["actor_id"] = filter.ActorID
	}
	ts := bson.M{}
	if !filter.From.IsZero() {
		ts["$gte"] = filter.From.UTC()
	}
	if !filter.To.IsZero() {
		ts["$lte"] = filter.To.UTC()
	}
	if len(ts) > 0 {
		query["timestamp"] = ts
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var entries []*domain.AuditEntry
	for cur.Next(ctx) {
		var doc auditDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &domain.AuditEntry{
			ID:        doc.ID,
			ActorID:   doc.ActorID,
			ActorName: doc.ActorName,
			Action:    domain.ActionKind(doc.Action),
			EntityRef: doc.EntityRef,
			Detail:    doc.Detail,
			Timestamp: doc.Timestamp,
		})
	}
	return entries, total, cur.Err()
}

// EnsureIndexes creates the query indexes for the trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
