package memory

import (
	"sort"

	"monkey-registry/internal/domain/monkeys"
)

// sortByCreated ordena por created_at asc con desempate por id.
// El map no tiene orden; esto da salida estable en dev y tests.
func sortByCreated(items []monkeys.Monkey) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].MonkeyID < items[j].MonkeyID
	})
}
