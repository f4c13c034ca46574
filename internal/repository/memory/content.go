package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
)

type ContentRepository struct {
	st *state
}

func (r *ContentRepository) slugTaken(c *model.Content) bool {
	if c.Slug == nil {
		return false
	}
	for _, existing := range r.st.content {
		if existing.ID != c.ID && existing.Kind == c.Kind && existing.Slug != nil && *existing.Slug == *c.Slug {
			return true
		}
	}
	return false
}

// Create создаёт запись, slug уникален в пределах вида
func (r *ContentRepository) Create(_ context.Context, c *model.Content) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if r.slugTaken(c) {
		return model.ErrSlugTaken
	}

	now := timeNow()
	c.ID = r.st.id()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	r.st.content[c.ID] = &cp
	return nil
}

// Update обновляет запись
func (r *ContentRepository) Update(_ context.Context, c *model.Content) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	existing, ok := r.st.content[c.ID]
	if !ok {
		return model.ErrContentNotFound
	}
	if r.slugTaken(c) {
		return model.ErrSlugTaken
	}

	c.Kind = existing.Kind
	c.AuthorID = existing.AuthorID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = timeNow()
	cp := *c
	r.st.content[c.ID] = &cp
	return nil
}

// Delete удаляет запись и сессии воркшопа
func (r *ContentRepository) Delete(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.content[id]; !ok {
		return model.ErrContentNotFound
	}
	delete(r.st.content, id)
	for childID, child := range r.st.content {
		if child.WorkshopID != nil && *child.WorkshopID == id {
			delete(r.st.content, childID)
		}
	}
	return nil
}

// GetByID получает запись по ID
func (r *ContentRepository) GetByID(_ context.Context, id int64) (*model.Content, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	c, ok := r.st.content[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// List страница записей, новые первыми
func (r *ContentRepository) List(_ context.Context, filter model.ContentFilter) ([]*model.Content, int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var items []*model.Content
	for _, c := range r.st.content {
		if filter.Kind != "" && c.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		cp := *c
		items = append(items, &cp)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return paginate(items, filter.Page), len(items), nil
}
