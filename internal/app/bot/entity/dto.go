package entity

// RegisterUserRequest - запрос на регистрацию пользователя при первом контакте
type RegisterUserRequest struct {
	ChatID int64  `json:"chat_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=1,max=100"`
}

// CreateReviewRequest - запрос на создание отзыва
type CreateReviewRequest struct {
	From   string `json:"from" validate:"required,len=24,hexadecimal"`
	To     string `json:"to" validate:"required,len=24,hexadecimal"`
	Job    string `json:"job" validate:"required,len=24,hexadecimal"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,min=10,max=1000"`
}

// ToggleCategoryResponse - результат переключения категории
type ToggleCategoryResponse struct {
	User  *User `json:"user"`
	Added bool  `json:"added"`
}

// CategoryListResponse - ответ со списком категорий
type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

// FreelancerListResponse - ответ со списком кандидатов для заказа
type FreelancerListResponse struct {
	Freelancers []User `json:"freelancers"`
	Total       int    `json:"total"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
