package memory

import "typoteka/internal/domain/entity"

// DefaultCategories mirrors the rows inserted by the seed migration.
var DefaultCategories = []string{
	"Деревья",
	"За жизнь",
	"Без рамки",
	"Разное",
	"IT",
	"Музыка",
	"Кино",
	"Программирование",
	"Железо",
}

// SeedCategories inserts names when the store has no categories yet and
// reports how many rows were added.
func (s *Store) SeedCategories(names ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.categories) > 0 {
		return 0
	}
	for _, name := range names {
		id := s.nextID("categories")
		s.categories[id] = entity.Category{ID: id, Name: name}
	}
	return len(names)
}
