// Package shopper replays a shopping list against the storefront cart.
package shopper

import (
	"context"
	"fmt"
	"time"

	"shop-automation/adapters"
	"shop-automation/internal/prompt"
	"shop-automation/internal/types"
	"shop-automation/session"
	"shop-automation/utils"
)

// Reason classifies an item that did not end up in the cart
type Reason int

const (
	// ReasonNoLink means the item had neither a primary nor a backup link
	ReasonNoLink Reason = iota
	// ReasonAttemptFailed means every attempted link failed
	ReasonAttemptFailed
)

func (r Reason) String() string {
	if r == ReasonNoLink {
		return "no link"
	}
	return "attempt failed"
}

// FailedItem is a list item that was not added
type FailedItem struct {
	Name   string
	Reason Reason
	Detail string
}

// ItemResult is the outcome for one list item
type ItemResult struct {
	Item       types.ShoppingListItem
	Outcome    types.CartOutcome
	UsedBackup bool
	Attempted  bool
	Err        error
}

// Succeeded reports whether the item ended up in the cart
func (r ItemResult) Succeeded() bool {
	return r.Err == nil && r.Outcome.Succeeded()
}

// Summary is the end-of-run report. AddedCount and Failed always account for
// every list item; Cart is advisory and may be nil.
type Summary struct {
	AddedCount int
	Failed     []FailedItem
	Results    []ItemResult
	Cart       *adapters.CartSummary
	CartErr    error
}

// SessionOptions controls session setup and human handoffs
type SessionOptions struct {
	ForceLogin bool
	// Interactive pauses for delivery slot selection and checkout
	Interactive bool
}

// Shopper fills the cart from a shopping list
type Shopper struct {
	adapter  *adapters.SuperValuAdapter
	manager  *session.Manager
	prompter prompt.Prompter
	config   *types.Config
	logger   types.Logger
}

// NewShopper creates a shopper working on driver's tab
func NewShopper(config *types.Config, logger types.Logger, driver types.Driver, manager *session.Manager, prompter prompt.Prompter) *Shopper {
	return &Shopper{
		adapter:  adapters.NewSuperValuAdapter(config, logger, driver),
		manager:  manager,
		prompter: prompter,
		config:   config,
		logger:   logger,
	}
}

// Run establishes the session and adds every item in order. Per-item failures
// are collected in the summary; only session setup, a refused prompt or a
// cancelled ctx return an error.
func (s *Shopper) Run(ctx context.Context, items []types.ShoppingListItem, opts SessionOptions) (*Summary, error) {
	startTime := time.Now()

	mode := session.ModeRestore
	if opts.ForceLogin {
		mode = session.ModeForceLogin
	}
	if err := s.manager.Establish(ctx, mode); err != nil {
		return nil, err
	}

	if opts.Interactive {
		if err := s.prompter.Acknowledge(ctx, "Please select your delivery slot in the browser.\nOnce you've selected a delivery slot, press Enter here to continue..."); err != nil {
			return nil, fmt.Errorf("failed to wait for delivery slot selection: %w", err)
		}
		s.logger.Info("Starting to add items to cart...")
	}

	summary := &Summary{Results: make([]ItemResult, 0, len(items))}
	for i, item := range items {
		s.logger.Infof("[%d/%d] Processing: %s", i+1, len(items), item.Name)
		if item.Amount != "" {
			s.logger.Infof("Amount needed: %s", item.Amount)
		}

		result := s.addItem(ctx, item)
		summary.record(result)
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		// Skipped items never touched the site
		if result.Attempted && i < len(items)-1 {
			if err := utils.Sleep(ctx, s.config.ItemDelay); err != nil {
				return summary, err
			}
		}
	}

	summary.Cart, summary.CartErr = s.adapter.ReadCartSummary(ctx)
	if summary.CartErr != nil {
		s.logger.Warnf("Could not read cart summary: %v", summary.CartErr)
	}

	s.logger.Infof("Shopping run completed in %v", time.Since(startTime))

	if opts.Interactive {
		if err := s.prompter.Acknowledge(ctx, "Browser is ready for checkout.\nReview your cart and complete your purchase.\nPress Enter here when you're done to close the browser..."); err != nil {
			return summary, fmt.Errorf("failed to wait for checkout: %w", err)
		}
	}
	return summary, nil
}

// addItem tries the primary link and falls back to the backup link
func (s *Shopper) addItem(ctx context.Context, item types.ShoppingListItem) ItemResult {
	result := ItemResult{Item: item}
	if !item.HasUsableLink() {
		s.logger.Warnf("Skipping %s - no link provided", item.Name)
		return result
	}
	result.Attempted = true

	if item.PrimaryLink != "" {
		result.Outcome, result.Err = s.adapter.TryAddToCart(ctx, item.PrimaryLink)
		if result.Succeeded() {
			s.logOutcome(item, result.Outcome)
			return result
		}
		if result.Err != nil {
			s.logger.Warnf("Primary link for %s failed: %v", item.Name, result.Err)
		} else {
			s.logger.Warnf("Primary product for %s: %s", item.Name, result.Outcome)
		}
		if ctx.Err() != nil {
			return result
		}
	}

	if item.BackupLink == "" {
		return result
	}
	if item.PrimaryLink != "" {
		s.logger.Info("Primary product unavailable, trying backup...")
	}
	result.UsedBackup = true
	result.Outcome, result.Err = s.adapter.TryAddToCart(ctx, item.BackupLink)
	switch {
	case result.Err != nil:
		s.logger.Errorf("Failed to add %s: %v", item.Name, result.Err)
	case result.Succeeded():
		s.logOutcome(item, result.Outcome)
	default:
		s.logger.Warnf("Backup product for %s: %s", item.Name, result.Outcome)
	}
	return result
}

func (s *Shopper) logOutcome(item types.ShoppingListItem, outcome types.CartOutcome) {
	if outcome == types.AlreadyInCart {
		s.logger.Infof("%s already in cart", item.Name)
		return
	}
	s.logger.Infof("Added %s to cart", item.Name)
}

func (sm *Summary) record(result ItemResult) {
	sm.Results = append(sm.Results, result)
	switch {
	case !result.Attempted:
		sm.Failed = append(sm.Failed, FailedItem{Name: result.Item.Name, Reason: ReasonNoLink})
	case result.Succeeded():
		sm.AddedCount++
	default:
		detail := result.Outcome.String()
		if result.Err != nil {
			detail = result.Err.Error()
		}
		sm.Failed = append(sm.Failed, FailedItem{Name: result.Item.Name, Reason: ReasonAttemptFailed, Detail: detail})
	}
}
