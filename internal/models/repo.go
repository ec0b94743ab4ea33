package models

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	if dbName == "" {
		dbName = EventsDbName
	}
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

// GetCollection returns a handle on the named collection of the configured database.
func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

type SqliteRepo struct {
	db *sql.DB
}

// SqliteNewRepo applies the events schema and returns a repo backed by db.
func SqliteNewRepo(ctx context.Context, db *sql.DB) (*SqliteRepo, error) {
	if err := initSchema(ctx, db); err != nil {
		return nil, err
	}
	return &SqliteRepo{db: db}, nil
}
