package repository

import "go.mongodb.org/mongo-driver/bson/primitive"

// indexOfID возвращает позицию первого вхождения id в списке ссылок или -1.
// Дубликаты не схлопываются: за один вызов обрабатывается только первое
// вхождение в порядке обхода.
func indexOfID(ids []primitive.ObjectID, id primitive.ObjectID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// removeIDAt удаляет элемент по позиции, сохраняя порядок остальных.
func removeIDAt(ids []primitive.ObjectID, i int) []primitive.ObjectID {
	return append(ids[:i], ids[i+1:]...)
}
