package model

import (
	"regexp"
	"time"
)

type ContentKind string

const (
	ContentKindNews     ContentKind = "news"
	ContentKindEvent    ContentKind = "event"
	ContentKindWorkshop ContentKind = "workshop"
	ContentKindSession  ContentKind = "session"
)

// Valid проверяет что вид контента известен
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindNews, ContentKindEvent, ContentKindWorkshop, ContentKindSession:
		return true
	}
	return false
}

type PublishStatus string

const (
	PublishStatusDraft     PublishStatus = "draft"
	PublishStatusPublished PublishStatus = "published"
	PublishStatusArchived  PublishStatus = "archived"
)

// Valid проверяет что статус публикации известен
func (s PublishStatus) Valid() bool {
	switch s {
	case PublishStatusDraft, PublishStatusPublished, PublishStatusArchived:
		return true
	}
	return false
}

// CanPublishTransition проверяет обычный переход draft -> published -> archived.
// Остальные переходы возможны только явным действием администратора (force).
func CanPublishTransition(from, to PublishStatus) bool {
	return (from == PublishStatusDraft && to == PublishStatusPublished) ||
		(from == PublishStatusPublished && to == PublishStatusArchived)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug проверяет формат slug
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Content новость, событие, воркшоп или сессия воркшопа
type Content struct {
	ID          int64         `json:"id"`
	Kind        ContentKind   `json:"kind"`
	Title       string        `json:"title"`
	Body        string        `json:"body"`
	Slug        *string       `json:"slug,omitempty"`
	WorkshopID  *int64        `json:"workshopId,omitempty"`
	AuthorID    int64         `json:"authorId"`
	StartsAt    *time.Time    `json:"startsAt,omitempty"`
	EndsAt      *time.Time    `json:"endsAt,omitempty"`
	Status      PublishStatus `json:"status"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Validate проверяет обязательные поля для своего вида
func (c *Content) Validate() error {
	if !c.Kind.Valid() {
		return ValidationError("unknown content kind %q", c.Kind)
	}
	if c.Title == "" {
		return ValidationError("title is required")
	}

	switch c.Kind {
	case ContentKindWorkshop:
		if c.Slug == nil || *c.Slug == "" {
			return ValidationError("workshop slug is required")
		}
		if !IsSlug(*c.Slug) {
			return ValidationError("slug must contain lowercase letters, digits and dashes")
		}
	case ContentKindSession:
		if c.WorkshopID == nil {
			return ValidationError("session workshopId is required")
		}
	}

	if c.StartsAt != nil && c.EndsAt != nil && !c.EndsAt.After(*c.StartsAt) {
		return ValidationError("end time must be after start time")
	}

	return nil
}

// ContentFilter параметры выборки контента
type ContentFilter struct {
	Kind   ContentKind
	Status PublishStatus
	Page   Page
}
