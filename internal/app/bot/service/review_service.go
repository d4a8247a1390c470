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
	"gigmatch/pkg/logger"
	"gigmatch/pkg/metrics"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound   = errors.New("review not found")
	ErrInvalidReference = errors.New("invalid entity reference")
)

// ReviewService обрабатывает бизнес-логику отзывов
// 1. Сохраняет отзыв в MongoDB
// 2. Отправляет событие REVIEW_CREATED в Kafka
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	publisher  infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		publisher:  publisher,
	}
}

// CreateReview создает новый отзыв
// Проверки на дубликат нет: каждый вызов создает новый документ
func (s *ReviewService) CreateReview(ctx context.Context, req *entity.CreateReviewRequest) (*entity.Review, error) {
	fromID, err := primitive.ObjectIDFromHex(req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidReference, err)
	}
	toID, err := primitive.ObjectIDFromHex(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidReference, err)
	}
	jobID, err := primitive.ObjectIDFromHex(req.Job)
	if err != nil {
		return nil, fmt.Errorf("%w: job: %v", ErrInvalidReference, err)
	}

	review := &entity.Review{
		FromID: fromID,
		ToID:   toID,
		JobID:  jobID,
		Rating: req.Rating,
		Text:   req.Text,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()

	event := entity.ReviewEvent{
		EventID:   uuid.NewString(),
		EventType: "REVIEW_CREATED",
		ReviewID:  review.ID.Hex(),
		FromID:    review.FromID.Hex(),
		ToID:      review.ToID.Hex(),
		JobID:     review.JobID.Hex(),
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		// Отзыв уже создан, проблемы с Kafka не критичны
		logger.Warn().Err(err).Msg("failed to publish review created event")
	}

	return review, nil
}

// GetReview получает отзыв по ID с разворачиванием запрошенных ссылок
func (s *ReviewService) GetReview(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id, expand...)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// Ключ = ReviewID для партиционирования
	if err := s.publisher.PublishMessage(ctx, event.ReviewID, data); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
