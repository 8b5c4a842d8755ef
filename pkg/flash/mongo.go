package flash

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig holds MongoDB backend configuration
type MongoConfig struct {
	ConnectionURL  string        `env:"MONGODB_URL"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"ahem"`
	Collection     string        `env:"MONGODB_COLLECTION" envDefault:"ahem_flash"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	RetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
	TTL            time.Duration `env:"MONGODB_FLASH_TTL" envDefault:"1h"`
}

// ConnectMongo connects a client and pings it until it answers or the retry
// budget is spent.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	var lastErr error
	for range max(cfg.RetryAttempts, 1) {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize),
		)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrNotReady, lastErr)
}

type mongoFlash struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoBackend keeps flashes as documents keyed by flash key. A TTL index on
// expires_at lets the server drop unread flashes.
type MongoBackend struct {
	coll *mongo.Collection
	ttl  time.Duration
}

// NewMongoBackend creates a backend over coll. A zero ttl uses one hour.
func NewMongoBackend(coll *mongo.Collection, ttl time.Duration) *MongoBackend {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MongoBackend{coll: coll, ttl: ttl}
}

// EnsureIndexes creates the TTL index on expires_at.
func (b *MongoBackend) EnsureIndexes(ctx context.Context) error {
	_, err := b.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (b *MongoBackend) Take(ctx context.Context, key string) ([]byte, error) {
	var doc mongoFlash
	err := b.coll.FindOneAndDelete(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(doc.ExpiresAt) {
		return nil, nil
	}
	return doc.Data, nil
}

func (b *MongoBackend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoFlash{Key: key, Data: data, ExpiresAt: time.Now().Add(b.ttl)},
		options.Replace().SetUpsert(true),
	)
	return err
}

// Healthcheck pings the server.
func (b *MongoBackend) Healthcheck(ctx context.Context) error {
	if err := b.coll.Database().Client().Ping(ctx, nil); err != nil {
		return errors.Join(ErrNotReady, err)
	}
	return nil
}
