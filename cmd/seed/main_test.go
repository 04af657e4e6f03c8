package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "taskmaster/internal/errors"
	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, owner string) ([]model.Task, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Add(ctx context.Context, owner string, in service.NewTask) (*model.Task, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, owner string, id uint) error {
	return m.Called(ctx, owner, id).Error(0)
}

func TestSeedUsers_SkipsExisting(t *testing.T) {
	users := []seedUser{
		{Username: "alice", Password: "a", Tasks: []service.NewTask{{Text: "one"}, {Text: "two"}}},
		{Username: "bob", Password: "b", Tasks: []service.NewTask{{Text: "three"}}},
	}

	authSvc := new(MockAuthService)
	authSvc.On("Register", mock.Anything, "alice", "a").Return(&model.User{Username: "alice"}, nil)
	authSvc.On("Register", mock.Anything, "bob", "b").Return(nil, apperrors.ErrUsernameTaken)

	taskSvc := new(MockTaskService)
	taskSvc.On("Add", mock.Anything, "alice", mock.AnythingOfType("service.NewTask")).Return(&model.Task{}, nil).Twice()

	created, skipped, err := seedUsers(context.Background(), zap.NewNop().Sugar(), authSvc, taskSvc, users)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, skipped)
	authSvc.AssertExpectations(t)
	taskSvc.AssertExpectations(t)
	taskSvc.AssertNotCalled(t, "Add", mock.Anything, "bob", mock.Anything)
}

func TestSeedUsers_StopsOnStoreError(t *testing.T) {
	authSvc := new(MockAuthService)
	authSvc.On("Register", mock.Anything, "alice", "a").Return(nil, errors.New("db down"))
	taskSvc := new(MockTaskService)

	_, _, err := seedUsers(context.Background(), zap.NewNop().Sugar(), authSvc, taskSvc,
		[]seedUser{{Username: "alice", Password: "a"}})

	assert.ErrorContains(t, err, "register alice: db down")
}

func TestDemoUsersAreValid(t *testing.T) {
	for _, u := range demoUsers {
		assert.NoError(t, service.Credentials{Username: u.Username, Password: u.Password}.Validate())
		for _, task := range u.Tasks {
			assert.NoError(t, task.Validate())
		}
	}
}
