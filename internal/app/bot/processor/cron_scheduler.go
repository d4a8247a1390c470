package processor

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// CacheWarmer - часть CatalogService, нужная планировщику
type CacheWarmer interface {
	WarmCategoriesCache(ctx context.Context) error
}

// CronScheduler прогревает кеш категорий по расписанию, чтобы меню бота
// не упиралось в MongoDB после истечения TTL
type CronScheduler struct {
	cron   *cron.Cron
	warmer CacheWarmer
}

func NewCronScheduler(warmer CacheWarmer) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &CronScheduler{
		cron:   c,
		warmer: warmer,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	log.Printf("Starting cron scheduler with schedule: %s", schedule)

	_, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron job triggered: warming categories cache")

		if err := s.warmer.WarmCategoriesCache(ctx); err != nil {
			log.Printf("ERROR: Failed to warm categories cache: %v", err)
		} else {
			log.Println("Cron job completed: categories cache warmed")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started")

	log.Println("Performing initial categories cache warmup...")
	if err := s.warmer.WarmCategoriesCache(ctx); err != nil {
		log.Printf("WARNING: Failed initial cache warmup: %v", err)
	} else {
		log.Println("Initial categories cache warmup completed")
	}

	return nil
}

func (s *CronScheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
