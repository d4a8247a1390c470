package repository

import "go.mongodb.org/mongo-driver/bson"

// availableFreelancerFilter - единственный источник истины для критерия
// "доступный фрилансер": не занят и профиль заполнен (bio и hourly_rate
// присутствуют в документе). Применяется одинаково при разворачивании
// категорий и при подборе кандидатов по заказу.
func availableFreelancerFilter() bson.M {
	return bson.M{
		"busy":        false,
		"bio":         bson.M{"$exists": true},
		"hourly_rate": bson.M{"$exists": true},
	}
}

// freelancerSort - сортировка списков фрилансеров по имени по убыванию.
// Подбор по заказу (MatchFreelancers) эту сортировку намеренно не применяет.
func freelancerSort() bson.D {
	return bson.D{{Key: "name", Value: -1}}
}
