package navigation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navd/internal/model"
)

func sampleModules() []*model.ModuleDefinition {
	return []*model.ModuleDefinition{
		{ID: "control", Label: "Панель управления", Order: f(1000)},
		{ID: "tasks", Label: "Задачи", Order: f(3000)},
	}
}

func sampleCategories() []*model.CategoryDefinition {
	return []*model.CategoryDefinition{
		{ID: "overview", ModuleID: "control", Label: "Обзор", Order: f(1)},
		{ID: "planning", ModuleID: "tasks", Label: "Планирование", Order: f(1)},
		{ID: "resources", ModuleID: "tasks", Label: "Ресурсы", Order: f(2)},
		{ID: "library", ModuleID: "knowledge", Label: "Библиотека", Order: f(1)},
	}
}

func sampleItems() []*model.NavigationItem {
	return []*model.NavigationItem{
		{Key: "notes", Label: "Заметки", Href: s("/knowledge/notes"), Module: s("knowledge"), Category: s("library"), Position: 1},
		{Key: "resources", Label: "Ресурсы", Href: s("/tasks/resources"), Module: s("tasks"), Category: s("resources"), Position: 1, Hidden: true},
		{Key: "projects", Label: "Проекты", Href: s("/tasks/projects"), Module: s("tasks"), Category: s("planning"), Position: 1},
		{Key: "dashboard", Label: "Дашборд", Href: s("/control"), Module: s("control"), Category: s("overview"), Position: 1},
	}
}

func TestGroupByModule_UndeclaredModuleSortsLast(t *testing.T) {
	groups := GroupByModule(sampleItems(), sampleModules(), sampleCategories())

	require.Equal(t, []string{"control", "tasks", "knowledge"}, groupIDs(groups))
	assert.Equal(t, "Панель управления", groups[0].Label)
	assert.Equal(t, "knowledge", groups[2].Label, "fallback group is labelled with its id")
}

func TestGroupByModule_HiddenItemsStayInTree(t *testing.T) {
	groups := GroupByModule(sampleItems(), sampleModules(), sampleCategories())
	require.Len(t, groups, 3)

	tasks := groups[1]
	require.Equal(t, []string{"planning", "resources"}, categoryIDs(tasks))
	assert.Equal(t, []string{"projects"}, keys(tasks.Categories[0].Items))
	assert.Equal(t, []string{"resources"}, keys(tasks.Categories[1].Items))
	assert.True(t, tasks.Categories[1].Items[0].Hidden)
}

func TestGroupByModule_MalformedInput(t *testing.T) {
	items := []*model.NavigationItem{
		nil,
		{Key: "alpha", Label: "Альфа", Module: s(""), Category: s(""), Position: 2},
		nil,
		{Key: "beta", Label: "Бета", Module: s("   "), Position: 1},
	}

	groups := GroupByModule(items, nil, nil)

	require.Len(t, groups, 1)
	assert.Equal(t, model.DefaultID, groups[0].ID)
	assert.Equal(t, model.DefaultLabel, groups[0].Label)
	require.Len(t, groups[0].Categories, 1)
	assert.Equal(t, model.DefaultID, groups[0].Categories[0].Category.ID)
	assert.Equal(t, []string{"beta", "alpha"}, keys(groups[0].Categories[0].Items))
}

func TestGroupByModule_GeneralAfterDeclaredModules(t *testing.T) {
	items := []*model.NavigationItem{
		{Key: "loose", Label: "Без модуля", Position: 0},
		{Key: "projects", Label: "Проекты", Module: s("tasks"), Position: 0},
	}
	modules := []*model.ModuleDefinition{{ID: "tasks", Order: f(10)}}

	groups := GroupByModule(items, modules, nil)

	assert.Equal(t, []string{"tasks", model.DefaultID}, groupIDs(groups))
}

// The synthesized general module comes after every declared module, while
// modules without any definition still trail behind it.
func TestGroupByModule_GeneralBeforeUndeclaredModules(t *testing.T) {
	items := []*model.NavigationItem{
		{Key: "notes", Label: "Заметки", Module: s("knowledge")},
		{Key: "loose", Label: "Без модуля"},
		{Key: "projects", Label: "Проекты", Module: s("tasks")},
	}
	modules := []*model.ModuleDefinition{{ID: "tasks", Order: f(10)}}

	groups := GroupByModule(items, modules, nil)

	assert.Equal(t, []string{"tasks", model.DefaultID, "knowledge"}, groupIDs(groups))
	assert.Equal(t, model.DefaultLabel, groups[1].Label)
}

func TestGroupByModule_OmitsEmptyDeclaredCategories(t *testing.T) {
	items := []*model.NavigationItem{
		{Key: "projects", Label: "Проекты", Module: s("tasks"), Category: s("planning")},
	}
	categories := []*model.CategoryDefinition{
		{ID: "archive", ModuleID: "tasks", Order: f(0)},
		{ID: "planning", ModuleID: "tasks", Order: f(1)},
		{ID: "unused", ModuleID: "habits", Order: f(1)},
	}

	groups := GroupByModule(items, nil, categories)

	require.Equal(t, []string{"tasks"}, groupIDs(groups))
	assert.Equal(t, []string{"planning"}, categoryIDs(groups[0]))
}

func TestGroupByModule_InvalidModuleDefinitionsFallBack(t *testing.T) {
	items := []*model.NavigationItem{
		{Key: "a", Label: "a", Module: s("broken")},
		{Key: "b", Label: "b", Module: s("valid")},
	}
	modules := []*model.ModuleDefinition{
		nil,
		{ID: "broken", Label: "Сломанный", Order: f(math.Inf(1))},
		{ID: "  ", Label: "Пустой", Order: f(1)},
		{ID: "valid", Label: "Рабочий", Order: f(5)},
	}

	groups := GroupByModule(items, modules, nil)

	require.Equal(t, []string{"valid", "broken"}, groupIDs(groups))
	assert.Equal(t, "broken", groups[1].Label)
}

func TestGroupByModule_CategoryOrder(t *testing.T) {
	items := []*model.NavigationItem{
		{Key: "z", Label: "z", Module: s("tasks"), Category: s("undeclared-2")},
		{Key: "y", Label: "y", Module: s("tasks"), Category: s("undeclared-1")},
		{Key: "x", Label: "x", Module: s("tasks"), Category: s("second")},
		{Key: "w", Label: "w", Module: s("tasks"), Category: s("first")},
		{Key: "v", Label: "v", Module: s("tasks"), Category: s("no-order")},
	}
	categories := []*model.CategoryDefinition{
		{ID: "no-order", ModuleID: "tasks"},
		{ID: "second", ModuleID: "tasks", Order: f(20)},
		{ID: "first", ModuleID: "tasks", Order: f(10)},
	}

	groups := GroupByModule(items, []*model.ModuleDefinition{{ID: "tasks", Order: f(1)}}, categories)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"first", "second", "no-order", "undeclared-2", "undeclared-1"}, categoryIDs(groups[0]))
}

func TestGroupByModule_DoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	items = append(items, &model.NavigationItem{Key: "blank", Label: "blank", Module: s(" ")})
	before := make([]model.NavigationItem, 0, len(items))
	for _, item := range items {
		before = append(before, *item)
	}

	GroupByModule(items, sampleModules(), sampleCategories())

	for i, item := range items {
		assert.Equal(t, before[i], *item)
	}
	assert.Equal(t, " ", *items[len(items)-1].Module)
}

func TestGroupByModule_Idempotent(t *testing.T) {
	first := GroupByModule(sampleItems(), sampleModules(), sampleCategories())
	second := GroupByModule(sampleItems(), sampleModules(), sampleCategories())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("grouping is not deterministic (-first +second):\n%s", diff)
	}
}

func TestGroupByModule_NoDataLoss(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	moduleIDs := []string{"", " ", "tasks", "control", "knowledge", "habits"}
	categoryChoices := []string{"", "planning", "resources", "general", "inbox"}

	for round := 0; round < 50; round++ {
		var items []*model.NavigationItem
		want := map[string]int{}
		for i := 0; i < 40; i++ {
			if rng.IntN(8) == 0 {
				items = append(items, nil)
				continue
			}
			key := string(rune('a'+i%26)) + string(rune('0'+round%10)) + string(rune('A'+i/26))
			items = append(items, &model.NavigationItem{
				Key:      key,
				Label:    key,
				Module:   s(moduleIDs[rng.IntN(len(moduleIDs))]),
				Category: s(categoryChoices[rng.IntN(len(categoryChoices))]),
				Position: float64(rng.IntN(5)),
			})
			want[key] = 1
		}

		got := map[string]int{}
		for _, g := range GroupByModule(items, sampleModules(), sampleCategories()) {
			for _, section := range g.Categories {
				require.NotEmpty(t, section.Items)
				for _, item := range section.Items {
					got[item.Key]++
				}
			}
		}
		require.Equal(t, want, got)
	}
}

func TestGroupByModule_FallbackOrderIndependentOfInputOrder(t *testing.T) {
	modules := []*model.ModuleDefinition{
		{ID: "a", Order: f(3)},
		{ID: "b", Order: f(1)},
		{ID: "c", Order: f(2)},
	}
	base := []*model.NavigationItem{
		{Key: "1", Label: "1", Module: s("a")},
		{Key: "2", Label: "2", Module: s("b")},
		{Key: "3", Label: "3", Module: s("c")},
		{Key: "4", Label: "4", Module: s("x")},
		{Key: "5", Label: "5", Module: s("y")},
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for round := 0; round < 20; round++ {
		items := append([]*model.NavigationItem(nil), base...)
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		mods := append([]*model.ModuleDefinition(nil), modules...)
		rng.Shuffle(len(mods), func(i, j int) { mods[i], mods[j] = mods[j], mods[i] })

		ids := groupIDs(GroupByModule(items, mods, nil))
		require.Len(t, ids, 5)
		assert.Equal(t, []string{"b", "c", "a"}, ids[:3])
		assert.ElementsMatch(t, []string{"x", "y"}, ids[3:])
	}
}

func TestGroupByModule_EmptyInput(t *testing.T) {
	groups := GroupByModule(nil, nil, nil)

	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
