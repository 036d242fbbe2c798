//go:build integration

// Package testutil starts the backing services used by integration tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// SetupMongoDB starts a MongoDB container. Prefer GetSharedMongoDB with
// TestMain when a package has several integration tests.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	c, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		return nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err := c.ConnectionString(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &MongoDBContainer{Container: c, URI: uri}, nil
}

// Cleanup terminates the MongoDB container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	return terminate(ctx, m.Container)
}

// ServiceContainer wraps a generic single-port container.
type ServiceContainer struct {
	Container testcontainers.Container
	// Addr is host:port of the mapped service port.
	Addr string
}

// Cleanup terminates the container.
func (s *ServiceContainer) Cleanup(ctx context.Context) error {
	return terminate(ctx, s.Container)
}

// SetupRedis starts a Redis container.
func SetupRedis(ctx context.Context) (*ServiceContainer, error) {
	return setupService(ctx, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}, "6379/tcp")
}

// SetupRabbitMQ starts a RabbitMQ container. The returned Addr is host:port;
// the default guest credentials apply.
func SetupRabbitMQ(ctx context.Context) (*ServiceContainer, error) {
	return setupService(ctx, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForLog("Server startup complete"),
	}, "5672/tcp")
}

func setupService(ctx context.Context, req testcontainers.ContainerRequest, port string) (*ServiceContainer, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start %s container: %w", req.Image, err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &ServiceContainer{Container: c, Addr: fmt.Sprintf("%s:%s", host, mapped.Port())}, nil
}

func terminate(ctx context.Context, c testcontainers.Container) error {
	if c == nil {
		return nil
	}
	if err := c.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate container: %w", err)
	}
	return nil
}
