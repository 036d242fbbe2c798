//go:build integration

package app

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/coupon-service/config"
	"github.com/guttosm/coupon-service/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
}

// mongoConfig points at the shared container with a database per test.
func mongoConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		URI:          testutil.GetSharedContainerURI(),
		DatabaseName: testutil.SanitizeDBName(t.Name()),
		Enabled:      true,
	}
}
