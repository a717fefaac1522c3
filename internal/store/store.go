// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL data access layer. Methods that
// look up a single row return nil, nil when it does not exist.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"myweblog/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// jsonColumn scans a JSONB column into dst. SQL NULL leaves dst untouched.
type jsonColumn[T any] struct {
	dst *T
}

func fromJSON[T any](dst *T) jsonColumn[T] {
	return jsonColumn[T]{dst: dst}
}

func (j jsonColumn[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json column: unsupported type %T", src)
	}
	return json.Unmarshal(data, j.dst)
}

// toJSON encodes v for a JSONB parameter.
func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json column: %w", err)
	}
	return string(data), nil
}

// jsonList encodes a list for a JSONB array column, writing [] for nil.
func jsonList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	return toJSON(items)
}

func permalinkStrings(links []models.Permalink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = string(l)
	}
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// pageOffset converts a 1-based page number into an OFFSET.
func pageOffset(pageNbr, pageSize int) int {
	if pageNbr < 1 {
		pageNbr = 1
	}
	return (pageNbr - 1) * pageSize
}
