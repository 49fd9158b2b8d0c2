package azkar

import (
	"context"

	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// SearchLimit - максимальное число результатов полнотекстового поиска.
const SearchLimit = 20

// SearchQuery - параметры полнотекстового поиска.
type SearchQuery struct {
	Term string
	// Category пустая - поиск по всем категориям.
	Category Category
}

// Repository - чтение каталога.
type Repository interface {
	// GetByID возвращает зикр по ID.
	// Возвращает ErrZikrNotFound, если зикр не найден.
	GetByID(ctx context.Context, id shared.ZikrID) (*Zikr, error)

	// ListByCategory возвращает азкары категории, упорядоченные по Order.
	// Пустая категория - пустой список, не ошибка.
	ListByCategory(ctx context.Context, category Category) ([]*Zikr, error)

	// Search выполняет полнотекстовый поиск по тексту зикра.
	// Не более SearchLimit результатов, порядок определяет хранилище.
	Search(ctx context.Context, q SearchQuery) ([]*Zikr, error)
}

// Writer - запись в каталог. Используется только импортом (cmd/seed).
type Writer interface {
	// Upsert создаёт или обновляет зикр по ID.
	Upsert(ctx context.Context, z *Zikr) error
}
