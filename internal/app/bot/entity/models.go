package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User - профиль пользователя бота (может быть и заказчиком, и фрилансером)
// ChatID - внешний идентификатор чата Telegram, естественный ключ для всех
// операций бота; не путать с внутренним _id документа MongoDB
type User struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ChatID     int64              `json:"chat_id" bson:"chat_id"`
	Name       string             `json:"name" bson:"name"`
	Busy       bool               `json:"busy" bson:"busy"`                               // Флаг занятости: busy=true исключает из подбора
	Bio        *string            `json:"bio,omitempty" bson:"bio,omitempty"`             // Описание профиля; отсутствие поля = профиль не заполнен
	HourlyRate *float64           `json:"hourly_rate,omitempty" bson:"hourly_rate,omitempty"` // Ставка в час; отсутствие поля = не указана
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`

	// Ссылки на связанные документы
	CategoryIDs []primitive.ObjectID `json:"-" bson:"categories"`
	JobID       *primitive.ObjectID  `json:"-" bson:"jobs,omitempty"`
	JobDraftID  *primitive.ObjectID  `json:"-" bson:"job_draft,omitempty"`

	// Развернутые связи, заполняются репозиторием по запросу (expand)
	Categories []Category `json:"categories,omitempty" bson:"-"`
	Job        *Job       `json:"job,omitempty" bson:"-"`
	JobDraft   *Job       `json:"job_draft,omitempty" bson:"-"`
}

// Category - категория услуг (seed-данные, создаются вне сервиса)
// FreelancerIDs - обратная сторона связи User.CategoryIDs, обе стороны
// должны оставаться согласованными (поддерживается только ToggleCategory)
type Category struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title         string               `json:"title" bson:"title"`
	FreelancerIDs []primitive.ObjectID `json:"-" bson:"freelancers"`

	// Развернутый список доступных фрилансеров (busy=false, заполнен профиль)
	Freelancers []User `json:"freelancers,omitempty" bson:"-"`
}

// Job - заказ, размещенный пользователем через бота
type Job struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CategoryID  primitive.ObjectID `json:"-" bson:"category"`
	ClientID    *primitive.ObjectID `json:"-" bson:"client,omitempty"`
	Description string             `json:"description" bson:"description"`
	Status      string             `json:"status" bson:"status"` // draft, published, in_progress, done
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`

	// Кандидаты, отказавшиеся от заказа - исключаются из подбора
	NotInterestedIDs []primitive.ObjectID `json:"-" bson:"notInterestedCandidates"`

	// Развернутые связи
	Category      *Category `json:"category,omitempty" bson:"-"`
	Client        *User     `json:"client,omitempty" bson:"-"`
	NotInterested []User    `json:"not_interested,omitempty" bson:"-"`
}

// Review - отзыв о выполненном заказе, после создания не изменяется
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FromID    primitive.ObjectID `json:"-" bson:"from"`
	ToID      primitive.ObjectID `json:"-" bson:"to"`
	JobID     primitive.ObjectID `json:"-" bson:"job"`
	Rating    int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`

	// Развернутые связи
	From *User `json:"from,omitempty" bson:"-"`
	To   *User `json:"to,omitempty" bson:"-"`
	Job  *Job  `json:"job,omitempty" bson:"-"`
}

// UserEvent - событие о пользователе для Kafka (USER_REGISTERED)
type UserEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewEvent - событие о созданном отзыве для Kafka (REVIEW_CREATED)
type ReviewEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ReviewID  string    `json:"review_id"`
	FromID    string    `json:"from_id"`
	ToID      string    `json:"to_id"`
	JobID     string    `json:"job_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
