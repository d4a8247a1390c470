package service

import (
	"context"
	"errors"
	"fmt"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/repository"
	"gigmatch/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrJobNotFound = errors.New("job not found")
)

// MatchingService отдает заказы и подбирает кандидатов-фрилансеров
type MatchingService struct {
	jobRepo repository.JobRepository
}

// NewMatchingService создает новый сервис подбора
func NewMatchingService(jobRepo repository.JobRepository) *MatchingService {
	return &MatchingService{jobRepo: jobRepo}
}

// GetJob получает заказ по ID с разворачиванием запрошенных ссылок
func (s *MatchingService) GetJob(ctx context.Context, id primitive.ObjectID, expand ...string) (*entity.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id, expand...)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// FreelancersForJob возвращает доступных кандидатов для заказа
// Неизвестный заказ - пустой список, а не ошибка
func (s *MatchingService) FreelancersForJob(ctx context.Context, jobID primitive.ObjectID) ([]entity.User, error) {
	freelancers, err := s.jobRepo.MatchFreelancersByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to match freelancers: %w", err)
	}

	metrics.MatchesServed.Inc()

	return freelancers, nil
}
