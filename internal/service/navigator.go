// Package service wires the navigation core to its payload source and the
// momentum tracker. HTTP handlers and CLI commands both go through Navigator.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"navd/internal/areas"
	"navd/internal/model"
	"navd/internal/momentum"
	"navd/internal/navigation"
	"navd/internal/source"
)

// ErrMomentumDisabled is returned by momentum calls when no tracker is set.
var ErrMomentumDisabled = errors.New("momentum tracking is not configured")

// Navigator serves grouped sidebar views built from the current payload.
type Navigator struct {
	source  source.Source
	tracker *momentum.Tracker
	logger  *slog.Logger
}

// NewNavigator creates a Navigator. tracker may be nil when momentum is not used.
func NewNavigator(src source.Source, tracker *momentum.Tracker, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Navigator{
		source:  src,
		tracker: tracker,
		logger:  logger,
	}
}

func (n *Navigator) payload(ctx context.Context) (*model.SidebarPayload, error) {
	if n.source == nil {
		return nil, source.ErrNoSource
	}
	payload, err := n.source.Fetch(ctx)
	if err != nil {
		n.logger.Error("Failed to fetch navigation payload", "error", err)
		return nil, fmt.Errorf("fetching navigation payload failed: %w", err)
	}
	return payload, nil
}

// Sidebar returns the grouped sidebar tree.
func (n *Navigator) Sidebar(ctx context.Context) ([]model.SidebarModuleGroup, error) {
	payload, err := n.payload(ctx)
	if err != nil {
		return nil, err
	}
	groups := navigation.GroupByModule(payload.Items, payload.Modules, payload.Categories)
	n.logger.Debug("Grouped sidebar", "items", len(payload.Items), "modules", len(groups))
	return groups, nil
}

// Tabs resolves the tab strip of moduleID for currentPath. An empty moduleID
// selects the module owning currentPath, falling back to the first module.
// The resolved module id is returned alongside the tabs.
func (n *Navigator) Tabs(ctx context.Context, moduleID, currentPath string) (string, []model.ModuleTabItem, error) {
	groups, err := n.Sidebar(ctx)
	if err != nil {
		return "", nil, err
	}

	moduleID = strings.TrimSpace(moduleID)
	if moduleID == "" {
		moduleID = ModuleForPath(groups, currentPath)
	}

	tabs := navigation.ResolveModuleTabs(moduleID, groups, currentPath)
	resolved := moduleID
	if !hasGroup(groups, moduleID) {
		resolved = ""
		if len(groups) > 0 {
			resolved = groups[0].ID
		}
		n.logger.Debug("Unknown module, using first group", "module", moduleID, "resolved", resolved)
	}
	return resolved, tabs, nil
}

// ModuleForPath returns the id of the module owning the most specific item
// href that matches currentPath, or "" when none does. Equal lengths keep the
// first module.
func ModuleForPath(groups []model.SidebarModuleGroup, currentPath string) string {
	if currentPath == "" {
		return ""
	}
	best, bestLen := "", -1
	for _, g := range groups {
		for _, section := range g.Categories {
			for _, item := range section.Items {
				href := strings.TrimSpace(item.HrefValue())
				if href == "" || len(href) <= bestLen || !navigation.IsActivePath(currentPath, href) {
					continue
				}
				best, bestLen = g.ID, len(href)
			}
		}
	}
	return best
}

func hasGroup(groups []model.SidebarModuleGroup, id string) bool {
	for _, g := range groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// AreaOptions returns the flattened area hierarchy for select inputs.
func (n *Navigator) AreaOptions(ctx context.Context) ([]model.AreaOption, error) {
	payload, err := n.payload(ctx)
	if err != nil {
		return nil, err
	}
	return areas.BuildAreaOptions(payload.Areas), nil
}

// RecordAssignment records one inbox note assignment for user.
func (n *Navigator) RecordAssignment(ctx context.Context, user string) (momentum.State, error) {
	if n.tracker == nil {
		return momentum.State{}, ErrMomentumDisabled
	}
	state, err := n.tracker.Record(ctx, user)
	if err != nil {
		n.logger.Error("Failed to record assignment", "user", user, "error", err)
		return momentum.State{}, err
	}
	n.logger.Info("Recorded assignment", "user", user, "today", state.TodayCount, "streak", state.Streak)
	return state, nil
}

// Momentum returns the current momentum of user.
func (n *Navigator) Momentum(ctx context.Context, user string) (momentum.State, error) {
	if n.tracker == nil {
		return momentum.State{}, ErrMomentumDisabled
	}
	return n.tracker.Snapshot(ctx, user)
}

// ResetMomentum clears the momentum of user.
func (n *Navigator) ResetMomentum(ctx context.Context, user string) error {
	if n.tracker == nil {
		return ErrMomentumDisabled
	}
	if err := n.tracker.Reset(ctx, user); err != nil {
		n.logger.Error("Failed to reset momentum", "user", user, "error", err)
		return err
	}
	n.logger.Info("Reset momentum", "user", user)
	return nil
}
