package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/weaviate/entities/models"
)

type flakySchemaClient struct {
	failures int
	calls    int
	created  bool
}

func (c *flakySchemaClient) ClassExists(ctx context.Context, className string) (bool, error) {
	c.calls++
	if c.calls <= c.failures {
		return false, errors.New("weaviate not ready")
	}
	return false, nil
}

func (c *flakySchemaClient) CreateClass(ctx context.Context, class *models.Class) error {
	c.created = true
	return nil
}

func (c *flakySchemaClient) GetClass(ctx context.Context, className string) (*models.Class, error) {
	return nil, errors.New("not found")
}

func (c *flakySchemaClient) AddProperty(ctx context.Context, className string, property *models.Property) error {
	return nil
}

func TestEnsureSchemaWithRetry_RecoversAfterFailures(t *testing.T) {
	client := &flakySchemaClient{failures: 2}

	err := ensureSchemaWithRetry(context.Background(), client, 5, time.Millisecond)
	assert.NoError(t, err)
	assert.True(t, client.created)
	assert.Equal(t, 3, client.calls)
}

func TestEnsureSchemaWithRetry_ExhaustsAttempts(t *testing.T) {
	client := &flakySchemaClient{failures: 10}

	err := ensureSchemaWithRetry(context.Background(), client, 3, time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, 3, client.calls)
}
