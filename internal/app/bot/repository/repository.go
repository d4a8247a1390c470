package repository

import (
	"context"

	"gigmatch/internal/app/bot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Имена полей-ссылок, которые репозитории умеют разворачивать (populate).
// Разворачивание всегда задается явно на месте вызова, скрытых умолчаний нет.
const (
	ExpandCategories    = "categories"
	ExpandJob           = "jobs"
	ExpandJobDraft      = "job_draft"
	ExpandCategory      = "category"
	ExpandClient        = "client"
	ExpandNotInterested = "notInterestedCandidates"
	ExpandFrom          = "from"
	ExpandTo            = "to"
)

// UserRepository определяет операции над пользователями в MongoDB.
// ToggleCategory - единственная операция, изменяющая двустороннюю связь
// пользователь-категория; обе стороны связи пишутся только здесь.
type UserRepository interface {
	// FindOne ищет одного пользователя по произвольному фильтру.
	// Отсутствие совпадения - не ошибка: возвращается (nil, nil).
	FindOne(ctx context.Context, filter bson.M, expand ...string) (*entity.User, error)
	// GetByID ищет пользователя по внутреннему _id документа.
	GetByID(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.User, error)
	// Add - идемпотентное создание по chat_id: существующий документ
	// возвращается без изменений, created=false.
	Add(ctx context.Context, candidate *entity.User) (*entity.User, bool, error)
	ToggleAvailability(ctx context.Context, chatID int64) (*entity.User, error)
	ToggleCategory(ctx context.Context, chatID int64, categoryID primitive.ObjectID) (*entity.User, bool, error)
}

// CategoryRepository определяет операции чтения категорий.
// Список freelancers всегда разворачивается с фильтром доступности.
type CategoryRepository interface {
	GetByTitle(ctx context.Context, title string) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
}

// JobRepository определяет операции чтения заказов и подбор кандидатов.
type JobRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Job, error)
	MatchFreelancers(ctx context.Context, job *entity.Job) ([]entity.User, error)
	// MatchFreelancersByJobID возвращает пустой список для неизвестного
	// заказа, а не ошибку.
	MatchFreelancersByJobID(ctx context.Context, jobID primitive.ObjectID) ([]entity.User, error)
}

// ReviewRepository определяет операции над отзывами.
type ReviewRepository interface {
	// Create всегда создает новый документ, проверки на дубликат нет.
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Review, error)
}
