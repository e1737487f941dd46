package models

import (
	"fmt"
	"slices"
)

// DependencyFunc returns the parents of an entity type.
type DependencyFunc func(EntityType) []EntityType

// TopoOrder упорядочивает сущности так, что родитель всегда идет раньше потомка.
// Алгоритм Кана; при равенстве сохраняется порядок входного списка,
// поэтому результат детерминирован. Зависимости на сущности вне списка игнорируются.
func TopoOrder(types []EntityType, deps DependencyFunc) ([]EntityType, error) {
	if deps == nil {
		deps = DependsOn
	}

	present := make(map[EntityType]bool, len(types))
	for _, t := range types {
		if present[t] {
			return nil, fmt.Errorf("duplicate entity type %q", t)
		}
		present[t] = true
	}

	inDegree := make(map[EntityType]int, len(types))
	children := make(map[EntityType][]EntityType, len(types))
	for _, t := range types {
		for _, parent := range deps(t) {
			if !present[parent] {
				continue
			}
			inDegree[t]++
			children[parent] = append(children[parent], t)
		}
	}

	order := make([]EntityType, 0, len(types))
	done := make(map[EntityType]bool, len(types))
	for len(order) < len(types) {
		progressed := false
		for _, t := range types {
			if done[t] || inDegree[t] > 0 {
				continue
			}
			done[t] = true
			order = append(order, t)
			for _, child := range children[t] {
				inDegree[child]--
			}
			progressed = true
			// начинаем заново, чтобы потомки с меньшим индексом шли первыми
			break
		}
		if !progressed {
			var stuck []EntityType
			for _, t := range types {
				if !done[t] {
					stuck = append(stuck, t)
				}
			}
			slices.Sort(stuck)
			return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, stuck)
		}
	}

	return order, nil
}
