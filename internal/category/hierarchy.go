// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category turns a web log's flat category list into the ordered
// hierarchy used by the category snapshot cache, category feeds and
// category archives.
package category

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"myweblog/internal/models"
)

// PostRef is the part of a post the hierarchy needs to count posts.
type PostRef struct {
	Status      models.PostStatus
	CategoryIDs []uuid.UUID
}

// Hierarchy orders categories by name (case-insensitively) and walks each
// root depth-first, computing full slugs, ancestor chains, and the number
// of published posts in each category or any of its descendants.
//
// A category whose parent is missing is a root. Categories caught in a
// parent cycle are reported and the cycle is broken at the first one in
// name order.
func Hierarchy(cats []models.Category, posts []PostRef) []models.DisplayCategory {
	sorted := slices.Clone(cats)
	fold := cases.Fold()
	slices.SortStableFunc(sorted, func(a, b models.Category) int {
		return strings.Compare(fold.String(a.Name), fold.String(b.Name))
	})

	index := make(map[uuid.UUID]int, len(sorted))
	for i, c := range sorted {
		index[c.ID] = i
	}

	children := make(map[uuid.UUID][]int)
	var roots []int
	for i, c := range sorted {
		if c.ParentID != nil && *c.ParentID != c.ID {
			if _, ok := index[*c.ParentID]; ok {
				children[*c.ParentID] = append(children[*c.ParentID], i)
				continue
			}
		}
		roots = append(roots, i)
	}

	result := make([]models.DisplayCategory, 0, len(sorted))
	visited := make([]bool, len(sorted))

	var walk func(i int, parentSlug string, names []string, ids []uuid.UUID)
	walk = func(i int, parentSlug string, names []string, ids []uuid.UUID) {
		c := sorted[i]
		if visited[i] {
			slog.Warn("category parent chain is cyclic", "category", c.Name, "id", c.ID)
			return
		}
		visited[i] = true

		fullSlug := c.Slug
		if parentSlug != "" {
			fullSlug = parentSlug + "/" + c.Slug
		}
		result = append(result, models.DisplayCategory{
			ID:          c.ID,
			Slug:        fullSlug,
			Name:        c.Name,
			Description: c.Description,
			ParentNames: names,
			AncestorIDs: ids,
		})

		childNames := append(slices.Clone(names), c.Name)
		childIDs := append(slices.Clone(ids), c.ID)
		for _, ch := range children[c.ID] {
			walk(ch, fullSlug, childNames, childIDs)
		}
	}

	for _, i := range roots {
		walk(i, "", []string{}, []uuid.UUID{})
	}
	for i := range sorted {
		if !visited[i] {
			slog.Warn("category unreachable from any root, treating as root",
				"category", sorted[i].Name, "id", sorted[i].ID)
			walk(i, "", []string{}, []uuid.UUID{})
		}
	}

	countPosts(result, posts)
	return result
}

// countPosts sets PostCount on every category to the number of distinct
// published posts assigned to it or to any of its descendants.
func countPosts(cats []models.DisplayCategory, posts []PostRef) {
	for i := range cats {
		ids := WithDescendants(cats, cats[i].ID)
		count := 0
		for _, p := range posts {
			if p.Status != models.PostStatusPublished {
				continue
			}
			if slices.ContainsFunc(p.CategoryIDs, func(id uuid.UUID) bool {
				return slices.Contains(ids, id)
			}) {
				count++
			}
		}
		cats[i].PostCount = count
	}
}

// WithDescendants returns id followed by the IDs of every category below
// it in the hierarchy.
func WithDescendants(cats []models.DisplayCategory, id uuid.UUID) []uuid.UUID {
	ids := []uuid.UUID{id}
	for _, c := range cats {
		if c.ID != id && slices.Contains(c.AncestorIDs, id) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// FindBySlug returns the category with the given full slug.
func FindBySlug(cats []models.DisplayCategory, slug string) (models.DisplayCategory, bool) {
	for _, c := range cats {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.DisplayCategory{}, false
}

// FindByID returns the category with the given ID.
func FindByID(cats []models.DisplayCategory, id uuid.UUID) (models.DisplayCategory, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return models.DisplayCategory{}, false
}
