package service

import (
	"errors"
	"fmt"

	"travella/internal/content"
	"travella/internal/model"
)

// ErrInvalidPlan is returned for out-of-range plan parameters
var ErrInvalidPlan = errors.New("invalid plan request")

// Plan limits and defaults
const (
	MaxPlanDays  = 14
	MaxPlanPax   = 12
	planDays     = 2
	planPax      = 2
	planBudget   = "mid"
	planPlaces   = 6
	planGems     = 4
	planFoods    = 6
	placesPerDay = 3
	foodsPerDay  = 2
	gemsOnSecond = 2
)

var planBudgets = map[string]bool{"budget": true, "mid": true, "luxury": true}

// Planner assembles day-by-day plans from the content tables
type Planner struct {
	store *content.Store
}

// NewPlanner creates a planner over store
func NewPlanner(store *content.Store) *Planner {
	return &Planner{store: store}
}

// Plan builds a plan for req. Zero values take defaults.
func (p *Planner) Plan(req model.PlanRequest) (*model.Plan, error) {
	days, pax, budget := req.Days, req.Pax, req.Budget
	if days == 0 {
		days = planDays
	}
	if pax == 0 {
		pax = planPax
	}
	if budget == "" {
		budget = planBudget
	}
	if days < 1 || days > MaxPlanDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidPlan, MaxPlanDays)
	}
	if pax < 1 || pax > MaxPlanPax {
		return nil, fmt.Errorf("%w: pax must be between 1 and %d", ErrInvalidPlan, MaxPlanPax)
	}
	if !planBudgets[budget] {
		return nil, fmt.Errorf("%w: budget must be one of budget, mid, luxury", ErrInvalidPlan)
	}

	snap := p.store.Current()
	city := snap.DefaultCity()
	if c := resolveCity(snap, req.City); c != nil {
		city = *c
	}

	places := head(snap.List(model.CategoryPlaces, &city), planPlaces)
	gems := head(snap.List(model.CategoryHiddenGems, &city), planGems)
	foods := head(snap.List(model.CategoryFoods, &city), planFoods)

	name := displayName(city)
	plan := &model.Plan{
		Title:   fmt.Sprintf("%d-day %s plan", days, name),
		Summary: planSummary(name, days, pax, budget, req.Profile),
		City:    city,
		Days:    days,
		Profile: req.Profile,
		Pax:     pax,
		Budget:  budget,
		Detail:  make([]model.PlanDay, 0, days),
	}
	if d, ok := snap.Detail(city); ok {
		plan.Tips = d.Tips
		plan.Cost = d.AverageCostPerDay
	}

	for day := 1; day <= days; day++ {
		plan.Detail = append(plan.Detail, model.PlanDay{
			Day:        day,
			Activities: dayActivities(day, places, gems),
			Food:       dayFood(day, foods),
		})
	}
	return plan, nil
}

// dayActivities picks the activities for day (1-based). Day one covers the
// top places, day two mixes hidden gems in, later days rotate through places.
func dayActivities(day int, places, gems []string) []string {
	out := []string{}
	switch {
	case day == 1:
		out = append(out, head(places, placesPerDay)...)
	case day == 2:
		out = append(out, head(gems, gemsOnSecond)...)
		out = append(out, window(places, placesPerDay, placesPerDay-1)...)
	case len(places) > 0:
		out = append(out, window(places, day%len(places), placesPerDay)...)
	}
	return out
}

// dayFood slides a two-dish window one dish per day; near the end of the
// list the window is cut short rather than wrapping
func dayFood(day int, foods []string) []string {
	out := []string{}
	if len(foods) == 0 {
		return out
	}
	return append(out, window(foods, (day-1)%len(foods), foodsPerDay)...)
}

func planSummary(name string, days, pax int, budget string, profile *string) string {
	who := "traveler"
	if pax > 1 {
		who = "travelers"
	}
	style := ""
	if profile != nil && *profile != "" {
		style = " " + *profile
	}
	return fmt.Sprintf("A %s-budget%s trip of %d days in %s for %d %s.", budget, style, days, name, pax, who)
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// window returns up to n items starting at from, clamped to the slice
func window(items []string, from, n int) []string {
	if from >= len(items) {
		return nil
	}
	end := from + n
	if end > len(items) {
		end = len(items)
	}
	return items[from:end]
}
