package repository

import (
	"context"
	"errors"
	"time"

	"brandscope/internal/config"
	"brandscope/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type analysisDocument struct {
	Key          string             `bson:"_id"`
	BrandName    string             `bson:"brand_name"`
	Analysis     models.BrandReport `bson:"analysis"`
	CachedAt     time.Time          `bson:"cached_at"`
	HitCount     int64              `bson:"hit_count"`
	LastAccessed time.Time          `bson:"last_accessed"`
}

// MongoRepository implements Repository interface for MongoDB
type MongoRepository struct {
	client    *mongo.Client
	analyses  *mongo.Collection
	analytics *mongo.Collection
	ttl       time.Duration
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(ctx context.Context, cfg config.MongoDBConfig, ttl time.Duration) (*MongoRepository, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Check the connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)
	analyses := db.Collection(cfg.AnalysesCollection)
	analytics := db.Collection(cfg.AnalyticsCollection)

	// Expired reports are purged by the server; reads still filter on cached_at
	analysisIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "cached_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		},
		{
			Keys: bson.D{{Key: "hit_count", Value: -1}},
		},
	}
	if _, err := analyses.Indexes().CreateMany(ctx, analysisIndexes); err != nil {
		return nil, err
	}

	analyticsIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "action", Value: 1}},
		},
	}
	if _, err := analytics.Indexes().CreateMany(ctx, analyticsIndexes); err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:    client,
		analyses:  analyses,
		analytics: analytics,
		ttl:       ttl,
	}, nil
}

// GetCachedAnalysis retrieves a cached report younger than the TTL
func (r *MongoRepository) GetCachedAnalysis(ctx context.Context, key string) (*models.BrandReport, error) {
	filter := bson.M{
		"_id":       key,
		"cached_at": bson.M{"$gt": time.Now().Add(-r.ttl)},
	}

	var doc analysisDocument
	err := r.analyses.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not found
		}
		return nil, err
	}

	return cachedCopy(doc.Analysis, doc.CachedAt), nil
}

// CacheAnalysis upserts the report for key
func (r *MongoRepository) CacheAnalysis(ctx context.Context, key string, report *models.BrandReport) error {
	now := time.Now()
	filter := bson.M{"_id": key}
	update := bson.M{
		"$set": bson.M{
			"brand_name":    report.BrandName,
			"analysis":      report,
			"cached_at":     now,
			"last_accessed": now,
		},
		"$inc": bson.M{"hit_count": 1},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.analyses.UpdateOne(ctx, filter, update, opts)
	return err
}

// IncrementHitCount bumps the hit counter of an existing entry
func (r *MongoRepository) IncrementHitCount(ctx context.Context, key string) error {
	update := bson.M{
		"$inc": bson.M{"hit_count": 1},
		"$set": bson.M{"last_accessed": time.Now()},
	}
	_, err := r.analyses.UpdateOne(ctx, bson.M{"_id": key}, update)
	return err
}

// PopularBrands retrieves the most requested brands
func (r *MongoRepository) PopularBrands(ctx context.Context, limit int) ([]models.PopularBrand, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "hit_count", Value: -1}, {Key: "brand_name", Value: 1}}).
		SetProjection(bson.M{"brand_name": 1, "hit_count": 1, "last_accessed": 1}).
		SetLimit(int64(limit))

	cursor, err := r.analyses.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	brands := []models.PopularBrand{}
	if err := cursor.All(ctx, &brands); err != nil {
		return nil, err
	}

	return brands, nil
}

// Record inserts an analytics event
func (r *MongoRepository) Record(ctx context.Context, action, brandName string, fields map[string]any) error {
	_, err := r.analytics.InsertOne(ctx, models.AnalyticsEvent{
		Action:    action,
		BrandName: brandName,
		Timestamp: time.Now(),
		Fields:    fields,
	})
	return err
}

// UsageStats summarises events recorded since the given time
func (r *MongoRepository) UsageStats(ctx context.Context, since time.Time) (*models.UsageStats, error) {
	filter := bson.M{"timestamp": bson.M{"$gte": since}}
	findOptions := options.Find().SetProjection(bson.M{"action": 1, "brand_name": 1, "timestamp": 1})

	cursor, err := r.analytics.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.AnalyticsEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return usageFromEvents(events, since), nil
}

// Close closes the MongoDB connection
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
