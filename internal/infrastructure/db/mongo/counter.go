package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "counters"

// sequence hands out increasing ids from a document in the counters
// collection. $inc is atomic, so concurrent callers never share a value and a
// value is never handed out twice, even after the owning document is deleted.
type sequence struct {
	col  *mongo.Collection
	name string
}

func newSequence(db *mongo.Database, name string) *sequence {
	return &sequence{col: db.Collection(collectionCounters), name: name}
}

// incrementSeq bumps the counter by one; with upsert the first value is 1.
var incrementSeq = bson.M{"$inc": bson.M{"seq": 1}}

func (s *sequence) filter() bson.M {
	return bson.M{"_id": s.name}
}

func (s *sequence) next(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.col.FindOneAndUpdate(ctx, s.filter(), incrementSeq, opts).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", s.name, err)
	}
	return doc.Seq, nil
}
