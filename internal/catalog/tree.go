// Package catalog serves the read side of the storefront: the category tree,
// per-client category listings and product detail.
package catalog

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"golang.org/x/sync/singleflight"
)

type TreeSource interface {
	CategoryTree(ctx context.Context) (models.CategoryTree, error)
}

// Tree is shared by every client. The backend answer is cached; a failed
// fetch is not.
type Tree struct {
	source TreeSource
	record *cache.Record[models.CategoryTree]
	logger *slog.Logger
	group  singleflight.Group
}

func NewTree(source TreeSource, record *cache.Record[models.CategoryTree], logger *slog.Logger) *Tree {

	if logger == nil {
		logger = slog.Default()
	}

	return &Tree{source: source, record: record, logger: logger}
}

// Get never fails: an unreachable backend yields an empty tree.
func (t *Tree) Get(ctx context.Context) models.CategoryTree {

	tree, found, err := t.record.Load(ctx)
	if err != nil {
		t.logger.Warn("Failed to read cached category tree", slog.String("error", err.Error()))
	}

	if found && tree != nil {
		return tree
	}

	value, _, _ := t.group.Do("tree", func() (any, error) {

		fetched, err := t.source.CategoryTree(ctx)
		if err != nil {
			t.logger.Warn("Failed to fetch category tree", slog.String("error", err.Error()))
			return models.CategoryTree{}, nil
		}

		if fetched == nil {
			fetched = models.CategoryTree{}
		}

		if err := t.record.Save(ctx, fetched); err != nil {
			t.logger.Warn("Failed to cache category tree", slog.String("error", err.Error()))
		}

		return fetched, nil
	})

	return value.(models.CategoryTree)
}

// Path is the "Major > Mid > Leaf" label of a leaf category, or "" if unknown.
func (t *Tree) Path(ctx context.Context, leafCode string) string {
	path, _ := t.Get(ctx).Path(leafCode)

	return path
}

func (t *Tree) Invalidate(ctx context.Context) error {
	return t.record.Clear(ctx)
}
