package adapter

import (
	"fmt"

	"github.com/iudanet/fitsync/internal/models"
)

// Registry возвращает адаптеры всех двенадцати сущностей в порядке зависимостей
func Registry(deps Deps, cfg Config) ([]EntityAdapter, error) {
	adapters := []EntityAdapter{
		New[models.Program](deps, cfg),
		New[models.WorkoutTemplate](deps, cfg),
		New[models.ScheduledWorkout](deps, cfg),
		New[models.WorkoutSession](deps, cfg),
		New[models.WorkoutSet](deps, cfg),
		New[models.PRHistory](deps, cfg),
		New[models.Run](deps, cfg),
		New[models.ReadinessScore](deps, cfg),
		New[models.InjuryLog](deps, cfg),
		New[models.Badge](deps, cfg),
		New[models.Streak](deps, cfg),
		New[models.ChatMessage](deps, cfg),
	}
	return Order(adapters)
}

// Order сортирует адаптеры топологически: родитель раньше потомка
func Order(adapters []EntityAdapter) ([]EntityAdapter, error) {
	byEntity := make(map[models.EntityType]EntityAdapter, len(adapters))
	types := make([]models.EntityType, 0, len(adapters))
	for _, a := range adapters {
		if _, dup := byEntity[a.Entity()]; dup {
			return nil, fmt.Errorf("duplicate adapter for %s", a.Entity())
		}
		byEntity[a.Entity()] = a
		types = append(types, a.Entity())
	}

	order, err := models.TopoOrder(types, func(e models.EntityType) []models.EntityType {
		return byEntity[e].DependsOn()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to order adapters: %w", err)
	}

	sorted := make([]EntityAdapter, 0, len(order))
	for _, e := range order {
		sorted = append(sorted, byEntity[e])
	}
	return sorted, nil
}
