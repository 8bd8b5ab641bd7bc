package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unityscripts/script-library/internal/core/domain"
)

const collectionScripts = "scripts"

// ScriptRepository implements ports.ScriptRepository using MongoDB.
type ScriptRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewScriptRepository(db *mongo.Database) *ScriptRepository {
	return &ScriptRepository{
		col: db.Collection(collectionScripts),
		ids: newSequence(db, collectionScripts),
	}
}

type scriptDocument struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Code        string `bson:"code"`
}

func newScriptDocument(id int64, in domain.NewScript) scriptDocument {
	return scriptDocument{ID: id, Name: in.Name, Description: in.Description, Code: in.Code}
}

func (d scriptDocument) toDomain() *domain.Script {
	return &domain.Script{ID: d.ID, Name: d.Name, Description: d.Description, Code: d.Code}
}

// CreateScript inserts a script under the next sequence value.
func (r *ScriptRepository) CreateScript(ctx context.Context, in domain.NewScript) (*domain.Script, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := newScriptDocument(id, in)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert script: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ScriptRepository) GetScript(ctx context.Context, id int64) (*domain.Script, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc scriptDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrScriptNotFound
		}
		return nil, fmt.Errorf("find script: %w", err)
	}
	return doc.toDomain(), nil
}

// ListScripts returns all scripts sorted by id.
func (r *ScriptRepository) ListScripts(ctx context.Context) ([]*domain.Script, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}

	var docs []scriptDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode scripts: %w", err)
	}

	out := make([]*domain.Script, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ScriptRepository) DeleteScript(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete script: %w", err)
	}
	return res.DeletedCount > 0, nil
}
