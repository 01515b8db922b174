package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Save(ctx context.Context, j *Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockRepo) List(ctx context.Context) ([]Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Job), args.Error(1)
}

func (m *MockRepo) Get(ctx context.Context, id string) (*Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Job), args.Error(1)
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(topic string, body []byte) error {
	args := m.Called(topic, body)
	return args.Error(0)
}

func TestService_Retry_RepublishesToOriginalTopic(t *testing.T) {
	repo := new(MockRepo)
	pub := new(MockPublisher)
	svc := NewService(repo, pub)

	payload := json.RawMessage(`{"chunk_id":"c1"}`)
	repo.On("Get", mock.Anything, "j1").Return(&Job{ID: "j1", Handler: "chunk.embed", Payload: payload}, nil)
	pub.On("Publish", "chunk.embed", []byte(payload)).Return(nil)
	repo.On("Delete", mock.Anything, "j1").Return(nil)

	err := svc.Retry(context.Background(), "j1")
	assert.NoError(t, err)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_Retry_NotFound(t *testing.T) {
	repo := new(MockRepo)
	pub := new(MockPublisher)
	svc := NewService(repo, pub)

	repo.On("Get", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	err := svc.Retry(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_Retry_PublishFailureKeepsJob(t *testing.T) {
	repo := new(MockRepo)
	pub := new(MockPublisher)
	svc := NewService(repo, pub)

	repo.On("Get", mock.Anything, "j1").Return(&Job{ID: "j1", Handler: "chunk.embed", Payload: json.RawMessage(`{}`)}, nil)
	pub.On("Publish", "chunk.embed", mock.Anything).Return(errors.New("nsqd down"))

	err := svc.Retry(context.Background(), "j1")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
