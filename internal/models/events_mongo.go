package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type counter struct {
	Name string `bson:"_id"`
	Seq  uint64 `bson:"seq"`
}

// mongo stores dates with millisecond precision
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (mdb *MongodbRepo) nextEventID(ctx context.Context) (uint64, error) {
	col, err := mdb.GetCollection(ctx, CountersCol)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err = col.FindOneAndUpdate(ctx,
		bson.M{"_id": EventsCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("error incrementing event counter: %w", err)
	}
	// seq holds the number of ids handed out so far, ids start at zero
	return c.Seq - 1, nil
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, caller string, payload EventPayload) (*Event, error) {
	id, err := mdb.nextEventID(ctx)
	if err != nil {
		return nil, err
	}

	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	event := newEvent(id, caller, payload, mongoNow())
	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("error inserting event: %w", err)
	}
	return event.Clone(), nil
}

func (mdb *MongodbRepo) GetEvent(ctx context.Context, id uint64) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	return mdb.findEvent(ctx, col, id)
}

func (mdb *MongodbRepo) findEvent(ctx context.Context, col *mongo.Collection, id uint64) (*Event, error) {
	var event Event
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding event by ID: %w", err)
	}
	return event.Clone(), nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, caller string, id uint64, payload EventPayload) (*Event, error) {
	col, err := mdb.checkOwner(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"event_title":       payload.Title,
			"event_description": payload.Description,
			"event_card_imgurl": payload.CardImgURL,
			"event_location":    payload.Location,
			"updated_at":        mongoNow(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event Event
	// owner stays in the filter so a concurrent delete surfaces as not found
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": caller}, update, opts).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return event.Clone(), nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, caller string, id uint64) (*Event, error) {
	col, err := mdb.checkOwner(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	var event Event
	err = col.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": caller}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("error deleting event: %w", err)
	}
	return event.Clone(), nil
}

func (mdb *MongodbRepo) AttendEvent(ctx context.Context, caller string, id uint64) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	// $addToSet appends only when absent, which keeps insertion order
	update := bson.M{"$addToSet": bson.M{"attendees": caller}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event Event
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("error adding attendee: %w", err)
	}
	return event.Clone(), nil
}

func (mdb *MongodbRepo) checkOwner(ctx context.Context, caller string, id uint64) (*mongo.Collection, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	event, err := mdb.findEvent(ctx, col, id)
	if err != nil {
		return nil, err
	}
	if event.Owner != caller {
		return nil, notAuthorized(id, caller)
	}
	return col, nil
}
