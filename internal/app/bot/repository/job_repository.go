package repository

import (
	"context"
	"errors"
	"fmt"

	"gigmatch/internal/app/bot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrJobNotFound = errors.New("job not found")
)

type jobRepository struct {
	jobs       *mongo.Collection
	users      *mongo.Collection
	categories *mongo.Collection
}

// NewJobRepository создает новый репозиторий заказов
// Заказы создаются и изменяются другим сервисом, здесь только чтение
func NewJobRepository(db *mongo.Database) JobRepository {
	return &jobRepository{
		jobs:       db.Collection("jobs"),
		users:      db.Collection("users"),
		categories: db.Collection("categories"),
	}
}

// GetByID получает заказ по ID с разворачиванием запрошенных ссылок
// Без аргумента expand ссылки не разворачиваются
func (r *jobRepository) GetByID(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Job, error) {
	var job entity.Job
	err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if err := r.populate(ctx, &job, expand); err != nil {
		return nil, err
	}

	return &job, nil
}

// MatchFreelancers возвращает кандидатов для заказа: состоят в категории
// заказа, доступны по единому фильтру и не входят в notInterestedCandidates.
//
// Сортировка по имени здесь намеренно НЕ применяется, в отличие от
// разворачивания категорий: подбор исторически полагается на порядок выдачи
// стора, и менять его нельзя без проверки вызывающего кода.
func (r *jobRepository) MatchFreelancers(ctx context.Context, job *entity.Job) ([]entity.User, error) {
	filter := availableFreelancerFilter()
	filter["categories"] = job.CategoryID
	if len(job.NotInterestedIDs) > 0 {
		filter["_id"] = bson.M{"$nin": job.NotInterestedIDs}
	}

	cursor, err := r.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to match freelancers: %w", err)
	}
	defer cursor.Close(ctx)

	freelancers := []entity.User{}
	if err := cursor.All(ctx, &freelancers); err != nil {
		return nil, fmt.Errorf("failed to decode freelancers: %w", err)
	}

	return freelancers, nil
}

// MatchFreelancersByJobID сначала находит заказ и делегирует MatchFreelancers
// Неизвестный заказ - это пустой список кандидатов, а не ошибка
func (r *jobRepository) MatchFreelancersByJobID(ctx context.Context, jobID primitive.ObjectID) ([]entity.User, error) {
	job, err := r.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return []entity.User{}, nil
		}
		return nil, err
	}

	return r.MatchFreelancers(ctx, job)
}

// populate разворачивает запрошенные ссылки заказа дополнительными запросами
// Битая ссылка не считается ошибкой - поле остается пустым
func (r *jobRepository) populate(ctx context.Context, job *entity.Job, expand []string) error {
	for _, field := range expand {
		switch field {
		case ExpandCategory:
			var category entity.Category
			err := r.categories.FindOne(ctx, bson.M{"_id": job.CategoryID}).Decode(&category)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					continue
				}
				return fmt.Errorf("failed to populate category: %w", err)
			}
			job.Category = &category
		case ExpandClient:
			if job.ClientID == nil {
				continue
			}
			var client entity.User
			err := r.users.FindOne(ctx, bson.M{"_id": *job.ClientID}).Decode(&client)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					continue
				}
				return fmt.Errorf("failed to populate client: %w", err)
			}
			job.Client = &client
		case ExpandNotInterested:
			if len(job.NotInterestedIDs) == 0 {
				continue
			}
			cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": job.NotInterestedIDs}})
			if err != nil {
				return fmt.Errorf("failed to populate not interested candidates: %w", err)
			}
			if err := cursor.All(ctx, &job.NotInterested); err != nil {
				return fmt.Errorf("failed to decode not interested candidates: %w", err)
			}
		}
	}
	return nil
}
