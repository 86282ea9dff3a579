package store

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salestrack-bot/internal/logger"
)

// Record - именованный блоб: JSON-массив записей одного типа
type Record struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string {
	return "records"
}

// Change - событие изменения хранилища
type Change struct {
	Key     string
	Cleared bool
}

// Migrator реализуют записи, которым нужны значения по умолчанию при чтении
// (поля, добавленные после того, как запись была сохранена).
type Migrator interface {
	Migrate()
}

// Listener вызывается синхронно после каждой записи
type Listener func(Change)

type subscription struct {
	listener Listener
	keys     map[string]struct{}
}

func (s subscription) wants(change Change) bool {
	if change.Cleared || len(s.keys) == 0 {
		return true
	}
	_, ok := s.keys[change.Key]
	return ok
}

type Store struct {
	db     *gorm.DB
	logger *logrus.Logger

	mu     sync.Mutex // сериализует запись блобов и циклы Update
	subsMu sync.RWMutex
	subs   map[int]subscription
	nextID int
}

func New(db *gorm.DB) (*Store, error) {
	log := logger.GetLogger("store")

	if err := db.AutoMigrate(&Record{}); err != nil {
		log.WithError(err).Error("Failed to auto-migrate records table")
		return nil, err
	}

	return &Store{
		db:     db,
		logger: log,
		subs:   make(map[int]subscription),
	}, nil
}

// Subscribe регистрирует слушателя на указанные ключи (без ключей - на все).
// Событие очистки получают все слушатели. Возвращает функцию отписки.
func (s *Store) Subscribe(listener Listener, keys ...string) func() {
	sub := subscription{listener: listener}
	if len(keys) > 0 {
		sub.keys = make(map[string]struct{}, len(keys))
		for _, key := range keys {
			sub.keys[key] = struct{}{}
		}
	}

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) notify(change Change) {
	s.subsMu.RLock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.wants(change) {
			listeners = append(listeners, sub.listener)
		}
	}
	s.subsMu.RUnlock()

	for _, listener := range listeners {
		listener(change)
	}
}

// read возвращает сырое значение ключа; ok=false если ключа нет или чтение не удалось
func (s *Store) read(key string) ([]byte, bool) {
	var record Record
	result := s.db.Where("name = ?", key).Limit(1).Find(&record)
	if result.Error != nil {
		s.logger.WithError(result.Error).WithField("key", key).Warn("Failed to read record")
		return nil, false
	}
	if result.RowsAffected == 0 {
		return nil, false
	}
	return []byte(record.Value), true
}

// persist сериализует и записывает значение. Вызывающий держит s.mu.
func (s *Store) persist(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to serialize record")
		return &StorageError{Key: key, Op: "serialize", Err: err}
	}

	record := Record{Name: key, Value: string(data), UpdatedAt: time.Now()}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record)
	if result.Error != nil {
		s.logger.WithError(result.Error).WithField("key", key).Error("Failed to write record")
		return &StorageError{Key: key, Op: "write", Err: result.Error}
	}

	s.logger.WithFields(logrus.Fields{
		"key":   key,
		"bytes": len(data),
	}).Debug("Record saved")
	return nil
}

func (s *Store) write(key string, value any) error {
	s.mu.Lock()
	err := s.persist(key, value)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(Change{Key: key})
	return nil
}

// LoadValue читает одиночное значение (например, current_user). false - значения нет
func (s *Store) LoadValue(key string, dst any) bool {
	data, ok := s.read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Corrupted record, ignoring")
		return false
	}
	return true
}

// SaveValue сохраняет одиночное значение и уведомляет слушателей
func (s *Store) SaveValue(key string, value any) error {
	return s.write(key, value)
}

// Remove удаляет ключ и уведомляет слушателей
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	result := s.db.Where("name = ?", key).Delete(&Record{})
	s.mu.Unlock()

	if result.Error != nil {
		s.logger.WithError(result.Error).WithField("key", key).Error("Failed to remove record")
		return &StorageError{Key: key, Op: "remove", Err: result.Error}
	}

	s.notify(Change{Key: key})
	return nil
}

// ClearAll удаляет все известные ключи и рассылает событие очистки
func (s *Store) ClearAll() error {
	s.mu.Lock()
	result := s.db.Where("name IN ?", AllKeys).Delete(&Record{})
	s.mu.Unlock()

	if result.Error != nil {
		s.logger.WithError(result.Error).Error("Failed to clear records")
		return &StorageError{Op: "clear", Err: result.Error}
	}

	s.logger.WithField("rows_affected", result.RowsAffected).Info("All records cleared")
	s.notify(Change{Cleared: true})
	return nil
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadList читает список записей. Отсутствующий или поврежденный блоб дает пустой список.
// Записи, реализующие Migrator, получают значения по умолчанию.
func LoadList[T any](s *Store, key string) []T {
	rows := []T{}

	data, ok := s.read(key)
	if !ok {
		return rows
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Corrupted record list, returning empty")
		return []T{}
	}
	if rows == nil {
		return []T{}
	}

	for i := range rows {
		if m, ok := any(&rows[i]).(Migrator); ok {
			m.Migrate()
		}
	}
	return rows
}

// SaveList сохраняет весь список записей под ключом
func SaveList[T any](s *Store, key string, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	return s.write(key, rows)
}

// SkipWrite возвращается из функции Update, когда список не изменился
var SkipWrite = errors.New("skip write")

// Update читает список, передает его в fn и сохраняет результат под одной
// блокировкой, так что параллельные изменения одного ключа не теряются.
// Ошибка из fn отменяет запись и возвращается как есть (SkipWrite - как nil).
// Слушатели уведомляются после снятия блокировки. fn может читать хранилище, но не писать в него.
func Update[T any](s *Store, key string, fn func(rows []T) ([]T, error)) error {
	s.mu.Lock()
	rows, err := fn(LoadList[T](s, key))
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, SkipWrite) {
			return nil
		}
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	err = s.persist(key, rows)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(Change{Key: key})
	return nil
}

// IsStorageError проверяет, что ошибка пришла из хранилища
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
