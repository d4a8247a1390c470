package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmatch/internal/app/bot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound = errors.New("review not found")
)

type reviewRepository struct {
	reviews *mongo.Collection
	users   *mongo.Collection
	jobs    *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов
// Автоматически создает индекс по to для выборки отзывов о фрилансере
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	reviews := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "to", Value: 1},
		},
		Options: options.Index().SetName("to_idx"),
	}

	_, err := reviews.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on to: %v\n", err)
	}

	return &reviewRepository{
		reviews: reviews,
		users:   db.Collection("users"),
		jobs:    db.Collection("jobs"),
	}
}

// Create создает новый отзыв в MongoDB
// Идемпотентности нет: повторный вызов с теми же данными создаст второй документ
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	review.CreatedAt = time.Now()

	result, err := r.reviews.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	// Устанавливаем ID из результата вставки
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// GetByID получает отзыв по ID с разворачиванием запрошенных ссылок
func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Review, error) {
	var review entity.Review
	err := r.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if err := r.populate(ctx, &review, expand); err != nil {
		return nil, err
	}

	return &review, nil
}

// populate разворачивает запрошенные ссылки отзыва дополнительными запросами
// Битая ссылка не считается ошибкой - поле остается пустым
func (r *reviewRepository) populate(ctx context.Context, review *entity.Review, expand []string) error {
	for _, field := range expand {
		switch field {
		case ExpandFrom:
			user, err := r.findUser(ctx, review.FromID)
			if err != nil {
				return err
			}
			review.From = user
		case ExpandTo:
			user, err := r.findUser(ctx, review.ToID)
			if err != nil {
				return err
			}
			review.To = user
		case ExpandJob:
			var job entity.Job
			err := r.jobs.FindOne(ctx, bson.M{"_id": review.JobID}).Decode(&job)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					continue
				}
				return fmt.Errorf("failed to populate job: %w", err)
			}
			review.Job = &job
		}
	}
	return nil
}

func (r *reviewRepository) findUser(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	var user entity.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to populate user: %w", err)
	}
	return &user, nil
}
