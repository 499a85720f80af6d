package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/go-while/go-pugtodo/internal/config"
	"github.com/go-while/go-pugtodo/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ItemsCollection is the collection holding item documents
const ItemsCollection = "items"

// mongoItem is the document shape of an item: {_id: ObjectId, todo: string}
type mongoItem struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Todo string             `bson:"todo"`
}

func (d *mongoItem) toModel() *models.Item {
	return &models.Item{ID: d.ID.Hex(), Text: d.Todo}
}

// MongoStore keeps items in a MongoDB collection
type MongoStore struct {
	client *mongo.Client
	items  *mongo.Collection
}

// OpenMongo connects to the deployment in dbconfig.ConnectString and pings it
func OpenMongo(ctx context.Context, dbconfig *config.DatabaseConfig) (*MongoStore, error) {
	timeout := dbconfig.ConnectTimeout
	if timeout <= 0 {
		timeout = config.DefaultConnectTimeout
	}
	opts := options.Client().
		ApplyURI(dbconfig.ConnectString).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, classifyMongoError("connect", fmt.Errorf("failed to connect to mongodb: %w", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		if derr := client.Disconnect(context.Background()); derr != nil {
			log.Printf("[DB]: Failed to disconnect after ping failure: %v", derr)
		}
		return nil, classifyMongoError("connect", fmt.Errorf("failed to ping mongodb: %w", err))
	}

	dbName := mongoDatabaseName(dbconfig.ConnectString, dbconfig.MongoDatabase)
	log.Printf("[DB]: MongoDB store ready, database=%s collection=%s", dbName, ItemsCollection)
	return &MongoStore{
		client: client,
		items:  client.Database(dbName).Collection(ItemsCollection),
	}, nil
}

// mongoDatabaseName returns the database named in the URI path, or fallback
func mongoDatabaseName(uri, fallback string) string {
	if u, err := url.Parse(uri); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	if fallback == "" {
		return config.DefaultMongoDatabase
	}
	return fallback
}

// List returns all items ordered by _id, which follows insertion order
func (m *MongoStore) List(ctx context.Context) ([]*models.Item, error) {
	cursor, err := m.items.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, classifyMongoError("list", fmt.Errorf("failed to query items: %w", err))
	}
	var docs []mongoItem
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyMongoError("list", fmt.Errorf("failed to decode items: %w", err))
	}
	items := make([]*models.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toModel())
	}
	return items, nil
}

// Get returns the item with id, or nil when there is none
func (m *MongoStore) Get(ctx context.Context, id string) (*models.Item, error) {
	oid, err := parseObjectID("get", id)
	if err != nil {
		return nil, err
	}
	var doc mongoItem
	if err := m.items.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, classifyMongoError("get", fmt.Errorf("failed to get item %s: %w", id, err))
	}
	return doc.toModel(), nil
}

// Create inserts a new item and returns it with the id assigned by the driver
func (m *MongoStore) Create(ctx context.Context, text string) (*models.Item, error) {
	text, err := models.ValidateText("create", text)
	if err != nil {
		return nil, err
	}
	doc := mongoItem{ID: primitive.NewObjectID(), Todo: text}
	if _, err := m.items.InsertOne(ctx, doc); err != nil {
		return nil, classifyMongoError("create", fmt.Errorf("failed to create item: %w", err))
	}
	return doc.toModel(), nil
}

// Update sets the todo field of the item with id
func (m *MongoStore) Update(ctx context.Context, id, text string) error {
	oid, err := parseObjectID("update", id)
	if err != nil {
		return err
	}
	text, err = models.ValidateText("update", text)
	if err != nil {
		return err
	}
	if _, err := m.items.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"todo": text}}); err != nil {
		return classifyMongoError("update", fmt.Errorf("failed to update item %s: %w", id, err))
	}
	return nil
}

// Delete removes the item with id
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID("delete", id)
	if err != nil {
		return err
	}
	if _, err := m.items.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return classifyMongoError("delete", fmt.Errorf("failed to delete item %s: %w", id, err))
	}
	return nil
}

// Close disconnects the client
func (m *MongoStore) Close() error {
	log.Printf("[DB]: Closing MongoDB store")
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultConnectTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func parseObjectID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &models.Error{Kind: models.KindInvalidID, Op: op, Err: fmt.Errorf("invalid item id %q: %w", id, err)}
	}
	return oid, nil
}
