package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/infrastructure"
	"gigmatch/internal/app/bot/repository"
	"gigmatch/internal/app/bot/util"
	"gigmatch/pkg/logger"
	"gigmatch/pkg/metrics"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrUserNotFound  = errors.New("user not found")
	ErrPartialToggle = errors.New("category toggle partially applied")
)

// ProfileService обрабатывает бизнес-логику профилей фрилансеров
// Координирует репозиторий пользователей, кеш категорий и Kafka
type ProfileService struct {
	userRepo  repository.UserRepository
	cache     *util.RedisClient
	publisher infrastructure.MessagePublisher
}

// NewProfileService создает новый сервис профилей с внедрением зависимостей
func NewProfileService(
	userRepo repository.UserRepository,
	cache *util.RedisClient,
	publisher infrastructure.MessagePublisher,
) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		cache:     cache,
		publisher: publisher,
	}
}

// RegisterUser регистрирует пользователя при первом контакте с ботом
// Повторный вызов с тем же chat_id возвращает существующий профиль без изменений
func (s *ProfileService) RegisterUser(ctx context.Context, req *entity.RegisterUserRequest) (*entity.User, error) {
	candidate := &entity.User{
		ChatID: req.ChatID,
		Name:   req.Name,
	}

	user, created, err := s.userRepo.Add(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if created {
		metrics.UsersRegistered.Inc()

		event := entity.UserEvent{
			EventID:   uuid.NewString(),
			EventType: "USER_REGISTERED",
			UserID:    user.ID.Hex(),
			ChatID:    user.ChatID,
			Timestamp: time.Now(),
		}
		if err := s.publishEvent(ctx, user.ID.Hex(), event); err != nil {
			// Пользователь уже создан, проблемы с Kafka не критичны
			logger.Warn().Err(err).Msg("failed to publish user registered event")
		}
	}

	return user, nil
}

// GetProfile получает профиль по chat_id с развернутыми категориями и заказами
func (s *ProfileService) GetProfile(ctx context.Context, chatID int64) (*entity.User, error) {
	user, err := s.userRepo.FindOne(ctx, bson.M{"chat_id": chatID},
		repository.ExpandCategories, repository.ExpandJob, repository.ExpandJobDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// ToggleAvailability переключает флаг занятости пользователя
// Занятость влияет на списки фрилансеров в категориях, поэтому кеш сбрасывается
func (s *ProfileService) ToggleAvailability(ctx context.Context, chatID int64) (*entity.User, error) {
	user, err := s.userRepo.ToggleAvailability(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to toggle availability: %w", err)
	}

	metrics.AvailabilityToggles.Inc()
	s.invalidateCategoriesCache(ctx)

	return user, nil
}

// ToggleCategory симметрично переключает членство пользователя в категории
// Возвращает обновленный профиль и флаг added (true - связь добавлена)
func (s *ProfileService) ToggleCategory(ctx context.Context, chatID int64, categoryID primitive.ObjectID) (*entity.User, bool, error) {
	user, added, err := s.userRepo.ToggleCategory(ctx, chatID, categoryID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, false, ErrUserNotFound
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, false, ErrCategoryNotFound
		case errors.Is(err, repository.ErrPartialToggle):
			// Связь осталась односторонней - вызывающий код должен знать об этом
			return nil, false, fmt.Errorf("%w: %v", ErrPartialToggle, err)
		}
		return nil, false, fmt.Errorf("failed to toggle category: %w", err)
	}

	if added {
		metrics.CategoryToggles.WithLabelValues("added").Inc()
	} else {
		metrics.CategoryToggles.WithLabelValues("removed").Inc()
	}
	s.invalidateCategoriesCache(ctx)

	return user, added, nil
}

// invalidateCategoriesCache сбрасывает кеш категорий после изменения связей
// Ошибка кеша не прерывает операцию - данные в MongoDB уже обновлены
func (s *ProfileService) invalidateCategoriesCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
	}
}

// publishEvent сериализует событие и отправляет его в Kafka
func (s *ProfileService) publishEvent(ctx context.Context, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := s.publisher.PublishMessage(ctx, key, data); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
