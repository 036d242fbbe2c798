//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo     *MongoDBContainer
	sharedMongoErr  error
	sharedMongoOnce sync.Once
	sharedMongoMu   sync.RWMutex
)

// GetSharedMongoDB returns a MongoDB container shared by all tests in a
// package. Call CleanupSharedMongoDB from TestMain when done.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedMongoOnce.Do(func() {
		sharedMongoMu.Lock()
		defer sharedMongoMu.Unlock()
		sharedMongo, sharedMongoErr = SetupMongoDB(ctx)
	})

	sharedMongoMu.RLock()
	defer sharedMongoMu.RUnlock()
	return sharedMongo, sharedMongoErr
}

// CleanupSharedMongoDB terminates the shared MongoDB container.
func CleanupSharedMongoDB(ctx context.Context) error {
	sharedMongoMu.Lock()
	defer sharedMongoMu.Unlock()

	if sharedMongo == nil {
		return nil
	}
	return sharedMongo.Cleanup(ctx)
}

// SetupTestMainWithMongoDB runs m with a shared MongoDB container:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedMongoDB(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := CleanupSharedMongoDB(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cleanup shared MongoDB container: %v\n", err)
	}
	return code
}

// GetSharedContainerURI returns the shared MongoDB URI. It panics if
// GetSharedMongoDB has not succeeded.
func GetSharedContainerURI() string {
	sharedMongoMu.RLock()
	defer sharedMongoMu.RUnlock()

	if sharedMongo == nil {
		panic("shared MongoDB container not initialized - call GetSharedMongoDB first")
	}
	return sharedMongo.URI
}

var dbNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ".", "_", " ", "_", "$", "_")

// SanitizeDBName turns a test name into a unique, valid MongoDB database name.
func SanitizeDBName(testName string) string {
	sanitized := dbNameReplacer.Replace(testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
