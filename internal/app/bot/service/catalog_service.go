package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmatch/internal/app/bot/entity"
	"gigmatch/internal/app/bot/repository"
	"gigmatch/internal/app/bot/util"
	"gigmatch/pkg/logger"
	"gigmatch/pkg/metrics"
)

const serviceName = "bot-backend"

const categoriesCachePrefix = "categories"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogService отдает категории с развернутыми списками доступных
// фрилансеров. Полный список кешируется в Redis - он показывается в меню
// бота на каждый запрос.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	cache        *util.RedisClient
	cacheTTL     time.Duration
}

// NewCatalogService создает новый сервис каталога категорий
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	cache *util.RedisClient,
	cacheTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// GetCategory получает категорию по title с доступными фрилансерами
// Кеш не используется - запрашивается конкретная категория
func (s *CatalogService) GetCategory(ctx context.Context, title string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// GetCategories получает все категории с кешированием в Redis
// Сначала проверяет кеш, если нет - загружает из БД и кеширует
func (s *CatalogService) GetCategories(ctx context.Context) ([]entity.Category, error) {
	if s.cache != nil {
		categories, err := s.cache.GetCategories(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read categories cache")
			metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		} else if categories != nil {
			metrics.RecordCacheHit(serviceName, categoriesCachePrefix)
			return categories, nil
		} else {
			metrics.RecordCacheMiss(serviceName, categoriesCachePrefix)
		}
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories, s.cacheTTL); err != nil {
			// Данные получены из БД, проблемы с кешем не критичны
			logger.Warn().Err(err).Msg("failed to cache categories")
			metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		}
	}

	return categories, nil
}

// WarmCategoriesCache загружает категории из БД и кладет в кеш
// Вызывается планировщиком по расписанию, минуя read-through путь
func (s *CatalogService) WarmCategoriesCache(ctx context.Context) error {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}

	if s.cache == nil {
		return nil
	}
	if err := s.cache.SetCategories(ctx, categories, s.cacheTTL); err != nil {
		return fmt.Errorf("failed to cache categories: %w", err)
	}

	return nil
}
