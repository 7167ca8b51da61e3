package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navd/internal/model"
	"navd/internal/momentum"
	"navd/internal/source"
	"navd/internal/storage"
)

type staticSource struct {
	payload *model.SidebarPayload
	err     error
}

func (s staticSource) Fetch(context.Context) (*model.SidebarPayload, error) {
	return s.payload, s.err
}

func str(v string) *string { return &v }

func num(v float64) *float64 { return &v }

func fixture() *model.SidebarPayload {
	return &model.SidebarPayload{
		Items: []*model.NavigationItem{
			{Key: "overview", Label: "Обзор", Href: str("/control"), Module: str("control"), Category: str("overview")},
			{Key: "backlog", Label: "Бэклог", Href: str("/tasks/backlog"), Module: str("tasks"), Category: str("planning")},
			{Key: "board", Label: "Доска", Href: str("/tasks/board"), Module: str("tasks"), Category: str("board")},
			nil,
		},
		Modules: []*model.ModuleDefinition{
			{ID: "control", Label: "Контроль", Order: num(1000)},
			{ID: "tasks", Label: "Задачи", Order: num(3000)},
		},
		Categories: []*model.CategoryDefinition{
			{ID: "planning", ModuleID: "tasks", Label: "Планирование", Order: num(1)},
			{ID: "board", ModuleID: "tasks", Label: "Доска", Order: num(2)},
		},
		Areas: []*model.Area{
			{ID: "work", Name: "Работа"},
			{ID: "team", Name: "Команда", ParentID: str("work")},
		},
	}
}

func TestSidebar(t *testing.T) {
	n := NewNavigator(staticSource{payload: fixture()}, nil, nil)

	groups, err := n.Sidebar(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "control", groups[0].ID)
	assert.Equal(t, "tasks", groups[1].ID)
	require.Len(t, groups[1].Categories, 2)
	assert.Equal(t, "planning", groups[1].Categories[0].Category.ID)
}

func TestTabs(t *testing.T) {
	n := NewNavigator(staticSource{payload: fixture()}, nil, nil)
	ctx := context.Background()

	module, tabs, err := n.Tabs(ctx, "tasks", "/tasks/board/42")
	require.NoError(t, err)
	assert.Equal(t, "tasks", module)
	require.Len(t, tabs, 2)
	assert.False(t, tabs[0].Active)
	assert.True(t, tabs[1].Active)

	module, tabs, err = n.Tabs(ctx, "", "/tasks/backlog")
	require.NoError(t, err)
	assert.Equal(t, "tasks", module, "module derived from path")
	assert.True(t, tabs[0].Active)

	module, tabs, err = n.Tabs(ctx, "missing", "/")
	require.NoError(t, err)
	assert.Equal(t, "control", module, "falls back to first group")
	require.Len(t, tabs, 1)
	assert.Equal(t, "control:overview", tabs[0].Key)
}

func TestAreaOptions(t *testing.T) {
	n := NewNavigator(staticSource{payload: fixture()}, nil, nil)

	opts, err := n.AreaOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Работа / Команда", opts[1].Label)
	assert.Equal(t, 1, opts[1].Depth)
}

func TestSourceErrors(t *testing.T) {
	upstream := NewNavigator(staticSource{err: source.ErrUpstream}, nil, nil)
	_, err := upstream.Sidebar(context.Background())
	assert.ErrorIs(t, err, source.ErrUpstream)

	_, _, err = upstream.Tabs(context.Background(), "tasks", "/")
	assert.ErrorIs(t, err, source.ErrUpstream)

	none := NewNavigator(nil, nil, nil)
	_, err = none.AreaOptions(context.Background())
	assert.ErrorIs(t, err, source.ErrNoSource)
}

func TestMomentum(t *testing.T) {
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	tracker := momentum.NewTracker(storage.NewMemoryStore(), momentum.WithClock(func() time.Time { return now }))
	n := NewNavigator(staticSource{payload: fixture()}, tracker, nil)
	ctx := context.Background()

	state, err := n.RecordAssignment(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, 1, state.TodayCount)

	state, err = n.RecordAssignment(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, 2, state.TodayCount)
	assert.Equal(t, 1, state.Streak)

	state, err = n.Momentum(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, 2, state.TodayCount)

	require.NoError(t, n.ResetMomentum(ctx, "anna"))
	state, err = n.Momentum(ctx, "anna")
	require.NoError(t, err)
	assert.Zero(t, state.Streak)
}

func TestMomentumDisabled(t *testing.T) {
	n := NewNavigator(staticSource{payload: fixture()}, nil, nil)

	_, err := n.RecordAssignment(context.Background(), "anna")
	assert.True(t, errors.Is(err, ErrMomentumDisabled))
	assert.ErrorIs(t, n.ResetMomentum(context.Background(), "anna"), ErrMomentumDisabled)
}

func TestModuleForPath(t *testing.T) {
	n := NewNavigator(staticSource{payload: fixture()}, nil, nil)
	groups, err := n.Sidebar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "control", ModuleForPath(groups, "/control/settings"))
	assert.Equal(t, "", ModuleForPath(groups, "/elsewhere"))
	assert.Equal(t, "", ModuleForPath(groups, ""))
}

func TestModuleForPathPrefersMostSpecificHref(t *testing.T) {
	payload := &model.SidebarPayload{
		Items: []*model.NavigationItem{
			{Key: "tasks", Label: "Задачи", Href: str("/tasks"), Module: str("tasks")},
			{Key: "projects", Label: "Проекты", Href: str("/tasks/projects"), Module: str("projects")},
		},
		Modules: []*model.ModuleDefinition{
			{ID: "tasks", Label: "Задачи", Order: num(1)},
			{ID: "projects", Label: "Проекты", Order: num(2)},
		},
	}
	n := NewNavigator(staticSource{payload: payload}, nil, nil)
	groups, err := n.Sidebar(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "projects", ModuleForPath(groups, "/tasks/projects/1"))
	assert.Equal(t, "tasks", ModuleForPath(groups, "/tasks/board"))

	module, _, err := n.Tabs(context.Background(), "", "/tasks/projects/1")
	require.NoError(t, err)
	assert.Equal(t, "projects", module)
}
