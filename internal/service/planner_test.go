package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travella/internal/model"
)

func TestPlanner_Plan(t *testing.T) {
	p := NewPlanner(fixtureStore())

	plan, err := p.Plan(model.PlanRequest{City: strPtr("Kathmandu"), Days: 4, Pax: 3, Budget: "luxury", Profile: strPtr("family")})
	require.NoError(t, err)

	assert.Equal(t, "4-day Kathmandu plan", plan.Title)
	assert.Equal(t, "kathmandu", plan.City)
	assert.Equal(t, 4, plan.Days)
	assert.Equal(t, 3, plan.Pax)
	assert.Equal(t, "luxury", plan.Budget)
	assert.Contains(t, plan.Summary, "family")
	assert.Equal(t, "$30-50", plan.Cost)
	assert.Equal(t, []string{"Carry small change"}, plan.Tips)
	require.Len(t, plan.Detail, 4)

	// Places are capped at six: the seventh never appears
	assert.Equal(t, []string{"Durbar Square", "Swayambhunath", "Boudhanath"}, plan.Detail[0].Activities)
	assert.Equal(t, []string{"Chobhar Gorge", "Kirtipur", "Pashupatinath", "Garden of Dreams"}, plan.Detail[1].Activities)
	assert.Equal(t, []string{"Pashupatinath", "Garden of Dreams", "Thamel"}, plan.Detail[2].Activities)
	assert.Equal(t, []string{"Garden of Dreams", "Thamel"}, plan.Detail[3].Activities)
	for _, day := range plan.Detail {
		assert.NotContains(t, day.Activities, "Asan")
	}

	// Food window advances one dish per day and is cut at the end of the list
	assert.Equal(t, []string{"Momo", "Dal Bhat"}, plan.Detail[0].Food)
	assert.Equal(t, []string{"Dal Bhat", "Yomari"}, plan.Detail[1].Food)
	assert.Equal(t, []string{"Yomari"}, plan.Detail[2].Food)
	assert.Equal(t, []string{"Momo", "Dal Bhat"}, plan.Detail[3].Food)
	assert.Equal(t, 4, plan.Detail[3].Day)
}

func TestPlanner_Defaults(t *testing.T) {
	p := NewPlanner(fixtureStore())

	plan, err := p.Plan(model.PlanRequest{})
	require.NoError(t, err)

	assert.Equal(t, "kathmandu", plan.City)
	assert.Equal(t, 2, plan.Days)
	assert.Equal(t, 2, plan.Pax)
	assert.Equal(t, "mid", plan.Budget)
	assert.Nil(t, plan.Profile)
	assert.Len(t, plan.Detail, 2)
}

func TestPlanner_SparseCity(t *testing.T) {
	p := NewPlanner(fixtureStore())

	plan, err := p.Plan(model.PlanRequest{City: strPtr("pokhara"), Days: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"Phewa Lake", "Sarangkot"}, plan.Detail[0].Activities)
	assert.Empty(t, plan.Detail[1].Activities)
	assert.Equal(t, []string{"Sarangkot"}, plan.Detail[2].Activities)
	for _, day := range plan.Detail {
		assert.NotNil(t, day.Food)
		assert.Empty(t, day.Food)
	}
	assert.Empty(t, plan.Cost)
}

func TestPlanner_Invalid(t *testing.T) {
	p := NewPlanner(fixtureStore())

	tests := []struct {
		name string
		req  model.PlanRequest
	}{
		{name: "too many days", req: model.PlanRequest{Days: MaxPlanDays + 1}},
		{name: "negative days", req: model.PlanRequest{Days: -1}},
		{name: "too many people", req: model.PlanRequest{Pax: MaxPlanPax + 1}},
		{name: "unknown budget", req: model.PlanRequest{Budget: "cheap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(tt.req)
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestRenderPDF(t *testing.T) {
	p := NewPlanner(fixtureStore())
	plan, err := p.Plan(model.PlanRequest{City: strPtr("kathmandu"), Days: 3, Profile: strPtr("couple")})
	require.NoError(t, err)

	data, err := RenderPDF(plan)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Greater(t, len(data), 500)
}
