// Package azkar содержит доменную модель каталога азкаров.
// Каталог только читается ядром: отметки о выполнении живут в пакете progress.
package azkar

import (
	"strings"
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Category определяет, к какому времени или ситуации относится зикр.
type Category string

const (
	// CategoryMorning - утренние азкары.
	CategoryMorning Category = "morning"
	// CategoryEvening - вечерние азкары.
	CategoryEvening Category = "evening"
	// CategorySleep - азкары перед сном.
	CategorySleep Category = "sleep"
	// CategoryTravel - азкары в пути.
	CategoryTravel Category = "travel"
	// CategoryGeneral - общие азкары.
	CategoryGeneral Category = "general"
)

// AllCategories возвращает все категории в порядке отображения.
func AllCategories() []Category {
	return []Category{CategoryMorning, CategoryEvening, CategorySleep, CategoryTravel, CategoryGeneral}
}

// IsValid проверяет, что категория известна.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMorning, CategoryEvening, CategorySleep, CategoryTravel, CategoryGeneral:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление категории.
func (c Category) String() string {
	return string(c)
}

// ParseCategory нормализует строку и проверяет категорию.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", shared.ErrInvalidCategory
	}
	return c, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ZIKR
// ══════════════════════════════════════════════════════════════════════════════

// Zikr - элемент каталога: текст, который нужно прочитать Repetitions раз.
type Zikr struct {
	ID          shared.ZikrID
	Text        string
	Translation string // пусто, если перевода нет
	Meaning     string
	Category    Category
	Repetitions int
	Source      string
	Benefits    []string
	AudioURL    string
	Order       int
	CreatedAt   time.Time
}

// NewZikrParams - параметры для создания зикра (импорт каталога).
type NewZikrParams struct {
	ID          shared.ZikrID
	Text        string
	Translation string
	Meaning     string
	Category    Category
	Repetitions int
	Source      string
	Benefits    []string
	AudioURL    string
	Order       int
}

// NewZikr создаёт зикр с валидацией.
func NewZikr(p NewZikrParams) (*Zikr, error) {
	z := &Zikr{
		ID:          p.ID,
		Text:        strings.TrimSpace(p.Text),
		Translation: strings.TrimSpace(p.Translation),
		Meaning:     strings.TrimSpace(p.Meaning),
		Category:    p.Category,
		Repetitions: p.Repetitions,
		Source:      strings.TrimSpace(p.Source),
		Benefits:    cleanBenefits(p.Benefits),
		AudioURL:    strings.TrimSpace(p.AudioURL),
		Order:       p.Order,
		CreatedAt:   time.Now().UTC(),
	}
	if z.ID == "" {
		z.ID = shared.GenerateZikrID()
	}
	if err := z.Validate(); err != nil {
		return nil, err
	}
	return z, nil
}

// Validate проверяет инварианты зикра.
func (z *Zikr) Validate() error {
	if !z.ID.IsValid() {
		return shared.ErrInvalidZikrID
	}
	if z.Text == "" {
		return shared.ErrEmptyZikrText
	}
	if !z.Category.IsValid() {
		return shared.ErrInvalidCategory
	}
	if z.Repetitions <= 0 {
		return shared.ErrInvalidRepeats
	}
	return nil
}

// IsSatisfiedBy возвращает true, если completedCount покрывает требуемое
// число повторений.
func (z *Zikr) IsSatisfiedBy(completedCount int) bool {
	return completedCount >= z.Repetitions
}

func cleanBenefits(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
