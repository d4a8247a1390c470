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
	ErrUserNotFound = errors.New("user not found")
	// ErrPartialToggle - пользователь сохранен, категория нет: связь
	// осталась односторонней, компенсирующая запись не выполняется
	ErrPartialToggle = errors.New("category toggle partially applied")
)

type userRepository struct {
	users      *mongo.Collection
	categories *mongo.Collection
	jobs       *mongo.Collection
}

// NewUserRepository создает новый репозиторий пользователей
// Автоматически создает индекс по chat_id для быстрого поиска по внешнему ключу
func NewUserRepository(db *mongo.Database) UserRepository {
	users := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "chat_id", Value: 1},
		},
		Options: options.Index().SetName("chat_id_idx"),
	}

	_, err := users.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on chat_id: %v\n", err)
	}

	return &userRepository{
		users:      users,
		categories: db.Collection("categories"),
		jobs:       db.Collection("jobs"),
	}
}

// FindOne ищет одного пользователя по произвольному фильтру
// Отсутствие документа не считается ошибкой - возвращается (nil, nil)
func (r *userRepository) FindOne(ctx context.Context, filter bson.M, expand ...string) (*entity.User, error) {
	var user entity.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := r.populate(ctx, &user, expand); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID ищет пользователя по внутреннему _id документа
func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.User, error) {
	return r.FindOne(ctx, bson.M{"_id": id}, expand...)
}

// Add - идемпотентное создание пользователя по chat_id
// Если пользователь уже существует, возвращается существующий документ без
// изменений, а переданный кандидат отбрасывается. Два конкурентных вызова с
// одним chat_id могут оба не найти документ и оба создать свой - уникальность
// chat_id на этом уровне не сериализуется, это известное ограничение.
func (r *userRepository) Add(ctx context.Context, candidate *entity.User) (*entity.User, bool, error) {
	existing, err := r.FindOne(ctx, bson.M{"chat_id": candidate.ChatID})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	candidate.CreatedAt = time.Now()
	if candidate.CategoryIDs == nil {
		candidate.CategoryIDs = []primitive.ObjectID{}
	}

	result, err := r.users.InsertOne(ctx, candidate)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	// Устанавливаем ID из результата вставки
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		candidate.ID = oid
	}

	return candidate, true, nil
}

// ToggleAvailability переключает флаг занятости и сохраняет документ целиком
func (r *userRepository) ToggleAvailability(ctx context.Context, chatID int64) (*entity.User, error) {
	user, err := r.FindOne(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Busy = !user.Busy

	if err := r.saveUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ToggleCategory симметрично переключает членство пользователя в категории:
// ссылка на категорию в user.categories и обратная ссылка в
// category.freelancers добавляются или удаляются вместе.
//
// Чтение и запись строго последовательны: пользователь -> категория ->
// мутация в памяти -> сохранение пользователя -> сохранение категории.
// Транзакции нет: два конкурентных вызова для одной пары могут потерять
// обновление и нарушить симметрию - известное ограничение.
func (r *userRepository) ToggleCategory(ctx context.Context, chatID int64, categoryID primitive.ObjectID) (*entity.User, bool, error) {
	user, err := r.FindOne(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}

	// Категория ищется только после того, как пользователь найден
	var category entity.Category
	if err := r.categories.FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, ErrCategoryNotFound
		}
		return nil, false, fmt.Errorf("failed to find category: %w", err)
	}

	added := false
	if idx := indexOfID(user.CategoryIDs, category.ID); idx < 0 {
		user.CategoryIDs = append(user.CategoryIDs, category.ID)
		category.FreelancerIDs = append(category.FreelancerIDs, user.ID)
		added = true
	} else {
		user.CategoryIDs = removeIDAt(user.CategoryIDs, idx)
		// Обратная ссылка может отсутствовать при уже рассогласованных
		// данных - удаляем только если нашли, без ошибки
		if j := indexOfID(category.FreelancerIDs, user.ID); j >= 0 {
			category.FreelancerIDs = removeIDAt(category.FreelancerIDs, j)
		}
	}

	if err := r.saveUser(ctx, user); err != nil {
		return nil, false, err
	}

	if _, err := r.categories.ReplaceOne(ctx, bson.M{"_id": category.ID}, &category); err != nil {
		return nil, false, fmt.Errorf("%w: failed to save category: %v", ErrPartialToggle, err)
	}

	return user, added, nil
}

// saveUser сохраняет уже загруженный документ пользователя целиком
func (r *userRepository) saveUser(ctx context.Context, user *entity.User) error {
	if _, err := r.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// populate разворачивает запрошенные ссылки пользователя дополнительными
// запросами. Битая ссылка (документ удален) не считается ошибкой - поле
// остается пустым.
func (r *userRepository) populate(ctx context.Context, user *entity.User, expand []string) error {
	for _, field := range expand {
		switch field {
		case ExpandCategories:
			if len(user.CategoryIDs) == 0 {
				continue
			}
			cursor, err := r.categories.Find(ctx, bson.M{"_id": bson.M{"$in": user.CategoryIDs}})
			if err != nil {
				return fmt.Errorf("failed to populate categories: %w", err)
			}
			if err := cursor.All(ctx, &user.Categories); err != nil {
				return fmt.Errorf("failed to decode categories: %w", err)
			}
		case ExpandJob:
			if user.JobID == nil {
				continue
			}
			job, err := r.findJob(ctx, *user.JobID)
			if err != nil {
				return err
			}
			user.Job = job
		case ExpandJobDraft:
			if user.JobDraftID == nil {
				continue
			}
			job, err := r.findJob(ctx, *user.JobDraftID)
			if err != nil {
				return err
			}
			user.JobDraft = job
		}
	}
	return nil
}

func (r *userRepository) findJob(ctx context.Context, id primitive.ObjectID) (*entity.Job, error) {
	var job entity.Job
	err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to populate job: %w", err)
	}
	return &job, nil
}
