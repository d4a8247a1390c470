package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/repository"
	"gigmatch/internal/app/bot/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRegisterUser_NewUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewProfileService(userRepo, nil, kafkaProducer)

	ctx := context.Background()
	req := &entity.RegisterUserRequest{ChatID: 111, Name: "Amy"}
	created := &entity.User{ID: primitive.NewObjectID(), ChatID: 111, Name: "Amy"}

	userRepo.On("Add", ctx, mock.AnythingOfType("*entity.User")).Return(created, true, nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	result, err := service.RegisterUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, int64(111), result.ChatID)
	assert.Len(t, kafkaProducer.Messages, 1)
}

func TestRegisterUser_ExistingUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewProfileService(userRepo, nil, kafkaProducer)

	ctx := context.Background()
	req := &entity.RegisterUserRequest{ChatID: 111, Name: "Amy Updated"}
	existing := &entity.User{ID: primitive.NewObjectID(), ChatID: 111, Name: "Amy"}

	userRepo.On("Add", ctx, mock.Anything).Return(existing, false, nil)

	result, err := service.RegisterUser(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, "Amy", result.Name)
	assert.Empty(t, kafkaProducer.Messages)
}

func TestRegisterUser_KafkaErrorIgnored(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewProfileService(userRepo, nil, kafkaProducer)

	ctx := context.Background()
	created := &entity.User{ID: primitive.NewObjectID(), ChatID: 222, Name: "Ben"}

	userRepo.On("Add", ctx, mock.Anything).Return(created, true, nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := service.RegisterUser(ctx, &entity.RegisterUserRequest{ChatID: 222, Name: "Ben"})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRegisterUser_RepoError(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	kafkaProducer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	service := NewProfileService(userRepo, nil, kafkaProducer)

	ctx := context.Background()
	userRepo.On("Add", ctx, mock.Anything).Return(nil, false, errors.New("db error"))

	result, err := service.RegisterUser(ctx, &entity.RegisterUserRequest{ChatID: 111, Name: "Amy"})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestGetProfile_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	user := &entity.User{ID: primitive.NewObjectID(), ChatID: 111, Name: "Amy"}

	userRepo.On("FindOne", ctx, mock.Anything, mock.Anything).Return(user, nil)

	result, err := service.GetProfile(ctx, 111)

	assert.NoError(t, err)
	assert.Equal(t, "Amy", result.Name)
}

func TestGetProfile_NotFound(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	userRepo.On("FindOne", ctx, mock.Anything, mock.Anything).Return(nil, nil)

	result, err := service.GetProfile(ctx, 999)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, result)
}

func TestToggleAvailability_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	user := &entity.User{ID: primitive.NewObjectID(), ChatID: 111, Busy: true}

	userRepo.On("ToggleAvailability", ctx, int64(111)).Return(user, nil)

	result, err := service.ToggleAvailability(ctx, 111)

	assert.NoError(t, err)
	assert.True(t, result.Busy)
}

func TestToggleAvailability_NotFound(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	userRepo.On("ToggleAvailability", ctx, int64(999)).Return(nil, repository.ErrUserNotFound)

	result, err := service.ToggleAvailability(ctx, 999)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, result)
}

func TestToggleCategory_Added(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	categoryID := primitive.NewObjectID()
	user := &entity.User{ID: primitive.NewObjectID(), ChatID: 111, CategoryIDs: []primitive.ObjectID{categoryID}}

	userRepo.On("ToggleCategory", ctx, int64(111), categoryID).Return(user, true, nil)

	result, added, err := service.ToggleCategory(ctx, 111, categoryID)

	assert.NoError(t, err)
	assert.True(t, added)
	assert.Contains(t, result.CategoryIDs, categoryID)
}

func TestToggleCategory_Removed(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	categoryID := primitive.NewObjectID()
	user := &entity.User{ID: primitive.NewObjectID(), ChatID: 111, CategoryIDs: []primitive.ObjectID{}}

	userRepo.On("ToggleCategory", ctx, int64(111), categoryID).Return(user, false, nil)

	result, added, err := service.ToggleCategory(ctx, 111, categoryID)

	assert.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, result.CategoryIDs)
}

func TestToggleCategory_UserNotFound(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	userRepo.On("ToggleCategory", ctx, int64(999), categoryID).Return(nil, false, repository.ErrUserNotFound)

	_, _, err := service.ToggleCategory(ctx, 999, categoryID)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestToggleCategory_CategoryNotFound(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	userRepo.On("ToggleCategory", ctx, int64(111), categoryID).Return(nil, false, repository.ErrCategoryNotFound)

	_, _, err := service.ToggleCategory(ctx, 111, categoryID)

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestToggleCategory_PartialToggle(t *testing.T) {
	userRepo := new(mocks.MockUserRepository)
	service := NewProfileService(userRepo, nil, nil)

	ctx := context.Background()
	categoryID := primitive.NewObjectID()
	repoErr := fmt.Errorf("%w: failed to save category: write error", repository.ErrPartialToggle)

	userRepo.On("ToggleCategory", ctx, int64(111), categoryID).Return(nil, false, repoErr)

	_, _, err := service.ToggleCategory(ctx, 111, categoryID)

	assert.ErrorIs(t, err, ErrPartialToggle)
}
