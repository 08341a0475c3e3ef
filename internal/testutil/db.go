package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB connects to a local Mongo instance and hands the test a
// throwaway database with the production index set applied. Tests that
// need real storage semantics (unique keys, the active-sprint partial
// index) call this; when no Mongo is reachable the test is skipped so
// the rest of the suite still runs anywhere.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("SPRINTHUB_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo unavailable at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("mongo unavailable at %s: %v", uri, err)
	}

	name := fmt.Sprintf("sprinthub_test_%d", time.Now().UnixNano())
	db := client.Database(name)

	ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer ensureCancel()
	if err := indexes.EnsureAll(ensureCtx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}
