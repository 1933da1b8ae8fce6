// Package services contains server-side business logic. ItemService sits
// between the HTTP handlers and the items repository: it validates input,
// delegates persistence and logs what changed.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/itemkeeper/internal/common"
	"github.com/dmitrijs2005/itemkeeper/internal/logging"
	"github.com/dmitrijs2005/itemkeeper/internal/server/models"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/items"
)

// Field limits enforced by Validate.
const (
	MaxNameLength        = 256
	MaxDescriptionLength = 4096
)

// ValidationError carries the per-field problems found in an item.
// errors.Is(err, common.ErrorValidation) holds for it.
type ValidationError struct {
	Validation []models.Validation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Validation))
	for i, v := range e.Validation {
		parts[i] = v.For + ": " + v.Message
	}
	return fmt.Sprintf("%s: %s", common.ErrorValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return common.ErrorValidation
}

// ItemService exposes item operations to transports.
type ItemService struct {
	repo items.Repository
	log  logging.Logger
}

func NewItemService(repo items.Repository, log logging.Logger) *ItemService {
	return &ItemService{repo: repo, log: log}
}

// Validate returns the problems with name and description, or an empty
// slice when there are none.
func (s *ItemService) Validate(name, description string) []models.Validation {
	out := []models.Validation{}
	switch {
	case strings.TrimSpace(name) == "":
		out = append(out, models.Validation{For: "name", Message: "Name cannot be empty"})
	case utf8.RuneCountInString(name) > MaxNameLength:
		out = append(out, models.Validation{For: "name", Message: fmt.Sprintf("Name cannot be longer than %d characters", MaxNameLength)})
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		out = append(out, models.Validation{For: "description", Message: fmt.Sprintf("Description cannot be longer than %d characters", MaxDescriptionLength)})
	}
	return out
}

func (s *ItemService) List(ctx context.Context) ([]models.Item, error) {
	list, err := s.repo.GetItems(ctx)
	if err != nil {
		s.log.Error(ctx, "list items failed", "error", err)
		return nil, err
	}
	return list, nil
}

// Get returns common.ErrorNotFound when there is no such item.
func (s *ItemService) Get(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		s.log.Error(ctx, "find item failed", "itemid", itemID, "error", err)
		return nil, err
	}
	if item == nil {
		return nil, common.ErrorNotFound
	}
	return item, nil
}

func (s *ItemService) Create(ctx context.Context, item models.NewItem) (*models.Item, error) {
	if v := s.Validate(item.Name, item.Description); len(v) > 0 {
		return nil, &ValidationError{Validation: v}
	}

	added, err := s.repo.AddItem(ctx, item)
	if err != nil {
		s.logWriteError(ctx, "add item failed", err, "name", item.Name)
		return nil, err
	}

	s.log.Info(ctx, "item added", "itemid", added.ItemID, "name", added.Name)
	return added, nil
}

func (s *ItemService) Update(ctx context.Context, item models.ItemUpdate) (*models.Item, error) {
	if v := s.Validate(item.Name, item.Description); len(v) > 0 {
		return nil, &ValidationError{Validation: v}
	}

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		s.logWriteError(ctx, "update item failed", err, "itemid", item.ItemID)
		return nil, err
	}

	s.log.Info(ctx, "item updated", "itemid", updated.ItemID, "updated", updated.Updated)
	return updated, nil
}

// logWriteError logs caller mistakes at warn and everything else at error.
func (s *ItemService) logWriteError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, common.ErrorNotFound) || common.IsConstraintViolation(err) {
		s.log.Warn(ctx, msg, args...)
		return
	}
	s.log.Error(ctx, msg, args...)
}
