//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/repository"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BotIntegrationTestSuite struct {
	suite.Suite
	client       *mongo.Client
	db           *mongo.Database
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	jobRepo      repository.JobRepository
	reviewRepo   repository.ReviewRepository
}

func TestBotIntegrationSuite(t *testing.T) {
	suite.Run(t, new(BotIntegrationTestSuite))
}

func (s *BotIntegrationTestSuite) SetupSuite() {
	mongoURI := getEnv("TEST_MONGODB_URI", "mongodb://localhost:27018")
	dbName := getEnv("TEST_MONGODB_DATABASE", "gigmatch_test_db")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	s.client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	s.Require().NoError(err)

	s.db = s.client.Database(dbName)

	s.userRepo = repository.NewUserRepository(s.db)
	s.categoryRepo = repository.NewCategoryRepository(s.db)
	s.jobRepo = repository.NewJobRepository(s.db)
	s.reviewRepo = repository.NewReviewRepository(s.db)
}

func (s *BotIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	s.db.Collection("users").DeleteMany(ctx, bson.M{})
	s.db.Collection("categories").DeleteMany(ctx, bson.M{})
	s.db.Collection("jobs").DeleteMany(ctx, bson.M{})
	s.db.Collection("reviews").DeleteMany(ctx, bson.M{})
}

func (s *BotIntegrationTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.db.Drop(ctx)
	s.client.Disconnect(ctx)
}

// seedUser вставляет пользователя напрямую, контролируя наличие полей
// bio и hourly_rate в документе (важно для фильтра $exists)
func (s *BotIntegrationTestSuite) seedUser(chatID int64, name string, busy bool, bio, rate bool, categoryIDs []primitive.ObjectID) primitive.ObjectID {
	if categoryIDs == nil {
		categoryIDs = []primitive.ObjectID{}
	}
	doc := bson.M{
		"chat_id":    chatID,
		"name":       name,
		"busy":       busy,
		"created_at": time.Now(),
		"categories": categoryIDs,
	}
	if bio {
		doc["bio"] = "Experienced freelancer"
	}
	if rate {
		doc["hourly_rate"] = 25.0
	}

	result, err := s.db.Collection("users").InsertOne(context.Background(), doc)
	s.Require().NoError(err)
	return result.InsertedID.(primitive.ObjectID)
}

func (s *BotIntegrationTestSuite) seedCategory(title string, freelancerIDs []primitive.ObjectID) primitive.ObjectID {
	if freelancerIDs == nil {
		freelancerIDs = []primitive.ObjectID{}
	}
	result, err := s.db.Collection("categories").InsertOne(context.Background(), bson.M{
		"title":       title,
		"freelancers": freelancerIDs,
	})
	s.Require().NoError(err)
	return result.InsertedID.(primitive.ObjectID)
}

func (s *BotIntegrationTestSuite) seedJob(categoryID primitive.ObjectID, notInterested []primitive.ObjectID) primitive.ObjectID {
	if notInterested == nil {
		notInterested = []primitive.ObjectID{}
	}
	result, err := s.db.Collection("jobs").InsertOne(context.Background(), bson.M{
		"category":                categoryID,
		"description":             "Design a landing page",
		"status":                  "published",
		"created_at":              time.Now(),
		"notInterestedCandidates": notInterested,
	})
	s.Require().NoError(err)
	return result.InsertedID.(primitive.ObjectID)
}

func (s *BotIntegrationTestSuite) loadUser(id primitive.ObjectID) *entity.User {
	var user entity.User
	err := s.db.Collection("users").FindOne(context.Background(), bson.M{"_id": id}).Decode(&user)
	s.Require().NoError(err)
	return &user
}

func (s *BotIntegrationTestSuite) loadCategory(id primitive.ObjectID) *entity.Category {
	var category entity.Category
	err := s.db.Collection("categories").FindOne(context.Background(), bson.M{"_id": id}).Decode(&category)
	s.Require().NoError(err)
	return &category
}

// ===================== User registration =====================

func (s *BotIntegrationTestSuite) TestAddUser_Idempotent() {
	ctx := context.Background()

	first, created, err := s.userRepo.Add(ctx, &entity.User{ChatID: 100, Name: "Amy"})
	s.Require().NoError(err)
	s.True(created)
	s.False(first.ID.IsZero())

	// Повторная регистрация возвращает существующий документ без изменений
	second, created, err := s.userRepo.Add(ctx, &entity.User{ChatID: 100, Name: "Amy Updated"})
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.ID, second.ID)
	s.Equal("Amy", second.Name)

	count, err := s.db.Collection("users").CountDocuments(ctx, bson.M{"chat_id": int64(100)})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *BotIntegrationTestSuite) TestFindOne_NoMatchReturnsNilNil() {
	user, err := s.userRepo.FindOne(context.Background(), bson.M{"chat_id": int64(424242)})
	s.NoError(err)
	s.Nil(user)
}

func (s *BotIntegrationTestSuite) TestToggleAvailability_Flips() {
	ctx := context.Background()

	userID := s.seedUser(100, "Amy", false, true, true, nil)

	user, err := s.userRepo.ToggleAvailability(ctx, 100)
	s.Require().NoError(err)
	s.True(user.Busy)

	user, err = s.userRepo.ToggleAvailability(ctx, 100)
	s.Require().NoError(err)
	s.False(user.Busy)

	s.False(s.loadUser(userID).Busy)
}

// ===================== Category toggle =====================

func (s *BotIntegrationTestSuite) TestToggleCategory_SymmetricOverThreeCalls() {
	ctx := context.Background()

	userID := s.seedUser(100, "Amy", false, true, true, nil)
	categoryID := s.seedCategory("design", nil)

	// Первый вызов добавляет обе стороны связи
	_, added, err := s.userRepo.ToggleCategory(ctx, 100, categoryID)
	s.Require().NoError(err)
	s.True(added)
	s.Contains(s.loadUser(userID).CategoryIDs, categoryID)
	s.Contains(s.loadCategory(categoryID).FreelancerIDs, userID)

	// Второй вызов убирает обе стороны
	_, added, err = s.userRepo.ToggleCategory(ctx, 100, categoryID)
	s.Require().NoError(err)
	s.False(added)
	s.NotContains(s.loadUser(userID).CategoryIDs, categoryID)
	s.NotContains(s.loadCategory(categoryID).FreelancerIDs, userID)

	// Третий вызов снова добавляет, ровно по одному вхождению с каждой стороны
	_, added, err = s.userRepo.ToggleCategory(ctx, 100, categoryID)
	s.Require().NoError(err)
	s.True(added)
	s.Len(s.loadUser(userID).CategoryIDs, 1)
	s.Len(s.loadCategory(categoryID).FreelancerIDs, 1)
}

func (s *BotIntegrationTestSuite) TestToggleCategory_ToleratesMissingInverseLink() {
	ctx := context.Background()

	categoryID := s.seedCategory("design", nil)
	// Рассогласованные данные: у пользователя ссылка есть, у категории нет
	userID := s.seedUser(100, "Amy", false, true, true, []primitive.ObjectID{categoryID})

	_, added, err := s.userRepo.ToggleCategory(ctx, 100, categoryID)
	s.Require().NoError(err)
	s.False(added)

	// Связь снята со стороны пользователя, категория осталась без изменений
	s.Empty(s.loadUser(userID).CategoryIDs)
	s.Empty(s.loadCategory(categoryID).FreelancerIDs)
}

func (s *BotIntegrationTestSuite) TestToggleCategory_UserNotFound() {
	categoryID := s.seedCategory("design", nil)

	_, _, err := s.userRepo.ToggleCategory(context.Background(), 999, categoryID)
	s.ErrorIs(err, repository.ErrUserNotFound)
}

func (s *BotIntegrationTestSuite) TestToggleCategory_CategoryNotFound() {
	s.seedUser(100, "Amy", false, true, true, nil)

	_, _, err := s.userRepo.ToggleCategory(context.Background(), 100, primitive.NewObjectID())
	s.ErrorIs(err, repository.ErrCategoryNotFound)
}

// ===================== Category catalog =====================

func (s *BotIntegrationTestSuite) TestGetCategoryByTitle_FiltersUnavailableFreelancers() {
	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	amy := s.seedUser(1, "Amy", false, true, true, []primitive.ObjectID{categoryID})
	ben := s.seedUser(2, "Ben", true, true, true, []primitive.ObjectID{categoryID})
	cid := s.seedUser(3, "Cid", false, false, true, []primitive.ObjectID{categoryID})

	_, err := s.db.Collection("categories").InsertOne(ctx, bson.M{
		"_id":         categoryID,
		"title":       "design",
		"freelancers": []primitive.ObjectID{amy, ben, cid},
	})
	s.Require().NoError(err)

	category, err := s.categoryRepo.GetByTitle(ctx, "design")
	s.Require().NoError(err)

	// Занятые и незаполненные профили не попадают в развернутый список,
	// ссылки при этом остаются на месте
	s.Len(category.Freelancers, 1)
	s.Equal("Amy", category.Freelancers[0].Name)
	s.Len(category.FreelancerIDs, 3)
}

func (s *BotIntegrationTestSuite) TestGetCategoryByTitle_SortsByNameDescending() {
	ctx := context.Background()
	categoryID := primitive.NewObjectID()

	amy := s.seedUser(1, "Amy", false, true, true, []primitive.ObjectID{categoryID})
	zoe := s.seedUser(2, "Zoe", false, true, true, []primitive.ObjectID{categoryID})
	mia := s.seedUser(3, "Mia", false, true, true, []primitive.ObjectID{categoryID})

	_, err := s.db.Collection("categories").InsertOne(ctx, bson.M{
		"_id":         categoryID,
		"title":       "design",
		"freelancers": []primitive.ObjectID{amy, zoe, mia},
	})
	s.Require().NoError(err)

	category, err := s.categoryRepo.GetByTitle(ctx, "design")
	s.Require().NoError(err)

	s.Require().Len(category.Freelancers, 3)
	s.Equal("Zoe", category.Freelancers[0].Name)
	s.Equal("Mia", category.Freelancers[1].Name)
	s.Equal("Amy", category.Freelancers[2].Name)
}

func (s *BotIntegrationTestSuite) TestGetCategoryByTitle_NotFound() {
	_, err := s.categoryRepo.GetByTitle(context.Background(), "unknown")
	s.ErrorIs(err, repository.ErrCategoryNotFound)
}

func (s *BotIntegrationTestSuite) TestGetAllCategories_EmptyFreelancersIsNotNil() {
	s.seedCategory("design", nil)
	s.seedCategory("development", nil)

	categories, err := s.categoryRepo.GetAll(context.Background())
	s.Require().NoError(err)

	s.Len(categories, 2)
	for _, category := range categories {
		s.NotNil(category.Freelancers)
		s.Empty(category.Freelancers)
	}
}

// ===================== Job matching =====================

func (s *BotIntegrationTestSuite) TestMatchFreelancers_ExcludesNotInterested() {
	ctx := context.Background()
	categoryID := s.seedCategory("design", nil)

	u1 := s.seedUser(1, "Amy", false, true, true, []primitive.ObjectID{categoryID})
	u2 := s.seedUser(2, "Ben", false, true, true, []primitive.ObjectID{categoryID})
	u3 := s.seedUser(3, "Cid", false, true, true, []primitive.ObjectID{categoryID})

	jobID := s.seedJob(categoryID, []primitive.ObjectID{u2})

	freelancers, err := s.jobRepo.MatchFreelancersByJobID(ctx, jobID)
	s.Require().NoError(err)

	matched := make([]primitive.ObjectID, 0, len(freelancers))
	for _, f := range freelancers {
		matched = append(matched, f.ID)
	}
	s.ElementsMatch([]primitive.ObjectID{u1, u3}, matched)
}

func (s *BotIntegrationTestSuite) TestMatchFreelancers_AppliesAvailabilityFilter() {
	ctx := context.Background()
	categoryID := s.seedCategory("design", nil)

	amy := s.seedUser(1, "Amy", false, true, true, []primitive.ObjectID{categoryID})
	s.seedUser(2, "Ben", true, true, true, []primitive.ObjectID{categoryID})
	s.seedUser(3, "Cid", false, false, false, []primitive.ObjectID{categoryID})
	// В другой категории - не подходит по специализации
	s.seedUser(4, "Dan", false, true, true, nil)

	jobID := s.seedJob(categoryID, nil)

	freelancers, err := s.jobRepo.MatchFreelancersByJobID(ctx, jobID)
	s.Require().NoError(err)

	s.Require().Len(freelancers, 1)
	s.Equal(amy, freelancers[0].ID)
}

func (s *BotIntegrationTestSuite) TestMatchFreelancers_UnknownJobReturnsEmptyList() {
	freelancers, err := s.jobRepo.MatchFreelancersByJobID(context.Background(), primitive.NewObjectID())
	s.NoError(err)
	s.NotNil(freelancers)
	s.Empty(freelancers)
}

// ===================== Reviews =====================

func (s *BotIntegrationTestSuite) TestCreateReview_NotIdempotent() {
	ctx := context.Background()

	from := primitive.NewObjectID()
	to := primitive.NewObjectID()
	job := primitive.NewObjectID()

	first := &entity.Review{FromID: from, ToID: to, JobID: job, Rating: 5, Text: "Great work, thanks!"}
	second := &entity.Review{FromID: from, ToID: to, JobID: job, Rating: 5, Text: "Great work, thanks!"}

	s.Require().NoError(s.reviewRepo.Create(ctx, first))
	s.Require().NoError(s.reviewRepo.Create(ctx, second))

	s.NotEqual(first.ID, second.ID)

	count, err := s.db.Collection("reviews").CountDocuments(ctx, bson.M{"job": job})
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *BotIntegrationTestSuite) TestGetReview_PopulatesReferences() {
	ctx := context.Background()

	from := s.seedUser(1, "Amy", false, true, true, nil)
	to := s.seedUser(2, "Ben", false, true, true, nil)
	categoryID := s.seedCategory("design", nil)
	jobID := s.seedJob(categoryID, nil)

	review := &entity.Review{FromID: from, ToID: to, JobID: jobID, Rating: 4, Text: "Solid communication."}
	s.Require().NoError(s.reviewRepo.Create(ctx, review))

	loaded, err := s.reviewRepo.GetByID(ctx, review.ID,
		repository.ExpandFrom, repository.ExpandTo, repository.ExpandJob)
	s.Require().NoError(err)

	s.Require().NotNil(loaded.From)
	s.Equal("Amy", loaded.From.Name)
	s.Require().NotNil(loaded.To)
	s.Equal("Ben", loaded.To.Name)
	s.Require().NotNil(loaded.Job)
	s.Equal(jobID, loaded.Job.ID)
}

func (s *BotIntegrationTestSuite) TestGetReview_ToleratesDanglingReference() {
	ctx := context.Background()

	review := &entity.Review{
		FromID: primitive.NewObjectID(),
		ToID:   primitive.NewObjectID(),
		JobID:  primitive.NewObjectID(),
		Rating: 3,
		Text:   "Average experience.",
	}
	s.Require().NoError(s.reviewRepo.Create(ctx, review))

	// Ссылки ведут на несуществующие документы - это не ошибка
	loaded, err := s.reviewRepo.GetByID(ctx, review.ID,
		repository.ExpandFrom, repository.ExpandTo, repository.ExpandJob)
	s.Require().NoError(err)

	s.Nil(loaded.From)
	s.Nil(loaded.To)
	s.Nil(loaded.Job)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
