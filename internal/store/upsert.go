package store

import "github.com/google/uuid"

// NewID - уникальный идентификатор записи (UUIDv7: время + случайная часть)
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// UpsertByKey ищет запись с тем же естественным ключом, что и incoming.
// Найдена - merge переносит поля incoming в существующую запись (id сохраняется).
// Не найдена - incoming получает новый id через newID и добавляется в конец.
// Возвращает список, индекс затронутой записи и признак создания.
func UpsertByKey[T any, K comparable](
	rows []T,
	key func(T) K,
	incoming T,
	merge func(existing *T, incoming T),
	newID func(*T),
) ([]T, int, bool) {
	want := key(incoming)
	for i := range rows {
		if key(rows[i]) == want {
			merge(&rows[i], incoming)
			return rows, i, false
		}
	}

	newID(&incoming)
	rows = append(rows, incoming)
	return rows, len(rows) - 1, true
}

// IndexOf возвращает индекс первой записи, удовлетворяющей условию, или -1
func IndexOf[T any](rows []T, match func(T) bool) int {
	for i := range rows {
		if match(rows[i]) {
			return i
		}
	}
	return -1
}

// Filter оставляет записи, удовлетворяющие условию
func Filter[T any](rows []T, keep func(T) bool) []T {
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			result = append(result, row)
		}
	}
	return result
}
