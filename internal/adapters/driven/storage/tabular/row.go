// Package tabular encodes issue records as flat rows.
// Nested fields become JSON text so every backend stores the same cells.
package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// TimeLayout is the timestamp format of every time cell.
const TimeLayout = time.RFC3339

// Row returns the cells of rec in domain.Columns order.
// Null values are empty cells.
func Row(rec domain.IssueRecord) ([]string, error) {
	assignees, err := Assignees(rec.Assignees)
	if err != nil {
		return nil, err
	}
	labels, err := Labels(rec.Labels)
	if err != nil {
		return nil, err
	}
	comments, err := Comments(rec.Comments)
	if err != nil {
		return nil, err
	}

	return []string{
		strconv.FormatInt(rec.ID, 10),
		string(rec.Kind),
		rec.State,
		deref(rec.StateReason),
		rec.Title,
		deref(rec.Body),
		rec.Author,
		Time(rec.CreatedAt),
		Time(rec.UpdatedAt),
		TimePtr(rec.ClosedAt),
		assignees,
		labels,
		rec.URL,
		comments,
		rec.Transcript,
	}, nil
}

// Time formats t in UTC, or "" for the zero time.
func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// TimePtr formats t, or "" for nil.
func TimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Time(*t)
}

// Assignees encodes logins as a JSON array.
func Assignees(logins []string) (string, error) {
	if logins == nil {
		logins = []string{}
	}
	return encode("assignees", logins)
}

// Labels encodes labels as a JSON array of [name, description] pairs.
func Labels(labels []domain.Label) (string, error) {
	pairs := make([][2]*string, 0, len(labels))
	for i := range labels {
		name := labels[i].Name
		pairs = append(pairs, [2]*string{&name, labels[i].Description})
	}
	return encode("labels", pairs)
}

// Comments encodes comments as a JSON array of objects.
func Comments(comments []domain.CommentRecord) (string, error) {
	if comments == nil {
		comments = []domain.CommentRecord{}
	}
	return encode("comments_list", comments)
}

func encode(column string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", column, err)
	}
	return string(b), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
