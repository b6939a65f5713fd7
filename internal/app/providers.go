package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/reuse/internal/config"
	"github.com/nguyentranbao-ct/reuse/internal/repo/activity"
	"github.com/nguyentranbao-ct/reuse/internal/repo/authapi"
	"github.com/nguyentranbao-ct/reuse/internal/repo/catalog"
	"github.com/nguyentranbao-ct/reuse/internal/repo/listings"
	"github.com/nguyentranbao-ct/reuse/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/reuse/internal/repo/store"
	"github.com/nguyentranbao-ct/reuse/pkg/crypto"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

const connectTimeout = 10 * time.Second

func newCatalogClient(cfg *config.Config, validate *validator.Validate) catalog.Client {
	var opts []catalog.NormalizerOption
	if cfg.Sources.MockSeed != 0 {
		opts = append(opts, catalog.WithSeed(cfg.Sources.MockSeed))
	}
	http := util.NewRestyClient(util.RestyOptions{Timeout: cfg.Sources.FetchTimeout})
	return catalog.NewClient(http, catalog.NewNormalizer(opts...), validate, catalog.Options{
		LimitHint: cfg.Sources.LimitHint,
	})
}

func newAuthAPI(cfg *config.Config) authapi.Client {
	http := util.NewRestyClient(util.RestyOptions{Timeout: cfg.Auth.RequestTimeout})
	return authapi.NewClient(http, cfg.Auth.BaseURL)
}

func newListingsAPI(cfg *config.Config, validate *validator.Validate) listings.Client {
	http := util.NewRestyClient(util.RestyOptions{
		Timeout:    cfg.Auth.RequestTimeout,
		RetryCount: cfg.Listings.RetryCount,
	})
	return listings.NewClient(http, cfg.Listings.BaseURL, validate)
}

func newMongoDB(lc fx.Lifecycle, uri, database string) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: db.Close,
	})
	return db, nil
}

func newStore(lc fx.Lifecycle, cfg *config.Config) (store.Store, error) {
	log := logger.MustNamed("store")
	sc := cfg.Store

	var (
		st  store.Store
		err error
	)
	switch sc.Driver {
	case "memory":
		st = store.NewMemoryStore()
	case "file":
		st, err = store.NewFileStore(sc.FilePath)
	case "redis":
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{sc.Redis.Addr},
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		st = store.NewRedisStore(client, sc.Redis.Prefix)
	case "mongo":
		var db *mongodb.DB
		db, err = newMongoDB(lc, sc.Mongo.URI, sc.Mongo.Database)
		if err == nil {
			st = store.NewMongoStore(db.Collection(sc.Mongo.Collection), sc.Mongo.Namespace)
		}
	default:
		err = fmt.Errorf("unknown store driver %q", sc.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s store: %w", sc.Driver, err)
	}

	if sc.EncryptionKey != "" {
		cipher, err := crypto.NewClient(sc.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("init store cipher: %w", err)
		}
		st = store.NewEncryptedStore(st, cipher)
	}
	log.Debugw("session store ready", "driver", sc.Driver, "encrypted", sc.EncryptionKey != "")
	return st, nil
}

func newActivityRecorder(lc fx.Lifecycle, cfg *config.Config) (activity.Recorder, error) {
	ac := cfg.Activity
	switch ac.Driver {
	case "", "none":
		return activity.NewNopRecorder(), nil
	case "kafka":
		producer, err := activity.NewSyncProducer(ac.KafkaBrokers)
		if err != nil {
			return nil, fmt.Errorf("init kafka producer: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return producer.Close()
			},
		})
		return activity.NewKafkaRecorder(producer, ac.KafkaTopic)
	case "mongo":
		db, err := newMongoDB(lc, ac.MongoURI, ac.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("init activity mongo: %w", err)
		}
		return activity.NewMongoRecorder(db.Collection(activity.CollectionName)), nil
	}
	return nil, fmt.Errorf("unknown activity driver %q", ac.Driver)
}
