package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/DimonBel/appointment-app-sub002/internal/model"
)

type txKey struct{}

// TxManager выполняет функцию в транзакции и передаёт её через контекст.
// Репозитории берут соединение из контекста, поэтому сервисы не знают про *gorm.DB.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Do открывает транзакцию; вложенный вызов переиспользует уже открытую.
// Любая ошибка из fn откатывает всё целиком.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom возвращает транзакцию из контекста или корневое соединение.
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}
