package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmatch/internal/app/bot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrCategoryNotFound = errors.New("category not found")
)

type categoryRepository struct {
	categories *mongo.Collection
	users      *mongo.Collection
}

// NewCategoryRepository создает новый репозиторий категорий
// Автоматически создает уникальный индекс по title - это естественный ключ
func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	categories := db.Collection("categories")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: 1},
		},
		Options: options.Index().SetName("title_idx").SetUnique(true),
	}

	_, err := categories.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on title: %v\n", err)
	}

	return &categoryRepository{
		categories: categories,
		users:      db.Collection("users"),
	}
}

// GetByTitle получает категорию по точному совпадению title
// Список freelancers разворачивается с фильтром доступности и сортировкой
func (r *categoryRepository) GetByTitle(ctx context.Context, title string) (*entity.Category, error) {
	var category entity.Category
	err := r.categories.FindOne(ctx, bson.M{"title": title}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if err := r.populateFreelancers(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

// GetAll получает все категории отсортированные по title по возрастанию
// Каждая категория разворачивается так же, как в GetByTitle
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []entity.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	for i := range categories {
		if err := r.populateFreelancers(ctx, &categories[i]); err != nil {
			return nil, err
		}
	}

	return categories, nil
}

// populateFreelancers разворачивает ссылки freelancers в документы
// пользователей, оставляя только доступных (единый фильтр доступности),
// по имени по убыванию
func (r *categoryRepository) populateFreelancers(ctx context.Context, category *entity.Category) error {
	category.Freelancers = []entity.User{}
	if len(category.FreelancerIDs) == 0 {
		return nil
	}

	filter := availableFreelancerFilter()
	filter["_id"] = bson.M{"$in": category.FreelancerIDs}
	opts := options.Find().SetSort(freelancerSort())

	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("failed to populate freelancers: %w", err)
	}
	if err := cursor.All(ctx, &category.Freelancers); err != nil {
		return fmt.Errorf("failed to decode freelancers: %w", err)
	}

	return nil
}
