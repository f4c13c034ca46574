package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"go.uber.org/zap"
)

type ContentService struct {
	content ContentStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewContentService(content ContentStore, logger *zap.Logger) *ContentService {
	return &ContentService{
		content: content,
		logger:  logger,
		now:     time.Now,
	}
}

// ContentInput редактируемые поля записи
type ContentInput struct {
	Kind       model.ContentKind
	Title      string
	Body       string
	Slug       *string
	WorkshopID *int64
	StartsAt   *time.Time
	EndsAt     *time.Time
	Status     model.PublishStatus
}

// Create создаёт новость, событие, воркшоп или сессию воркшопа
func (s *ContentService) Create(ctx context.Context, authorID int64, in ContentInput) (*model.Content, error) {
	c := &model.Content{
		Kind:       in.Kind,
		AuthorID:   authorID,
		Status:     in.Status,
		WorkshopID: in.WorkshopID,
	}
	s.apply(c, in)

	if c.Status == "" {
		c.Status = model.PublishStatusDraft
	}
	if !c.Status.Valid() {
		return nil, model.ValidationError("unknown status %q", in.Status)
	}
	if c.Status == model.PublishStatusPublished {
		now := s.now()
		c.PublishedAt = &now
	}

	if err := s.validate(ctx, c); err != nil {
		return nil, err
	}

	if err := s.content.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Content created",
		zap.Int64("content_id", c.ID),
		zap.String("kind", string(c.Kind)),
		zap.String("status", string(c.Status)),
	)

	return c, nil
}

// Update меняет поля записи. Вид и статус здесь не меняются.
func (s *ContentService) Update(ctx context.Context, id int64, in ContentInput) (*model.Content, error) {
	c, err := s.getAny(ctx, id)
	if err != nil {
		return nil, err
	}

	s.apply(c, in)
	if c.Kind == model.ContentKindSession && in.WorkshopID != nil {
		c.WorkshopID = in.WorkshopID
	}

	if err := s.validate(ctx, c); err != nil {
		return nil, err
	}

	if err := s.content.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Content updated", zap.Int64("content_id", id))

	return c, nil
}

func (s *ContentService) apply(c *model.Content, in ContentInput) {
	c.Title = strings.TrimSpace(in.Title)
	c.Body = in.Body
	c.StartsAt = in.StartsAt
	c.EndsAt = in.EndsAt
	if in.Slug != nil {
		slug := strings.TrimSpace(*in.Slug)
		c.Slug = &slug
	}
}

func (s *ContentService) validate(ctx context.Context, c *model.Content) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Kind == model.ContentKindSession {
		workshop, err := s.content.GetByID(ctx, *c.WorkshopID)
		if err != nil {
			return fmt.Errorf("get workshop: %w", err)
		}
		if workshop == nil || workshop.Kind != model.ContentKindWorkshop {
			return model.ValidationError("workshop %d does not exist", *c.WorkshopID)
		}
	}

	return nil
}

// SetStatus меняет статус публикации. force разрешает любой переход.
func (s *ContentService) SetStatus(ctx context.Context, id int64, to model.PublishStatus, force bool) (*model.Content, error) {
	if !to.Valid() {
		return nil, model.ValidationError("unknown status %q", to)
	}

	c, err := s.getAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == to {
		return c, nil
	}
	if !force && !model.CanPublishTransition(c.Status, to) {
		return nil, model.ErrStatusTransition
	}

	from := c.Status
	c.Status = to
	if to == model.PublishStatusPublished && c.PublishedAt == nil {
		now := s.now()
		c.PublishedAt = &now
	}

	if err := s.content.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Content status changed",
		zap.Int64("content_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Bool("force", force),
	)

	return c, nil
}

// Delete удаляет запись. У воркшопа удаляются и его сессии.
func (s *ContentService) Delete(ctx context.Context, id int64) error {
	if err := s.content.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Content deleted", zap.Int64("content_id", id))
	return nil
}

// Get получает запись. Не-администратор видит только опубликованное.
func (s *ContentService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Content, error) {
	c, err := s.getAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && c.Status != model.PublishStatusPublished {
		return nil, model.ErrContentNotFound
	}
	return c, nil
}

// ContentPage страница выдачи контента
type ContentPage struct {
	Items      []*model.Content `json:"items"`
	Pagination model.Pagination `json:"pagination"`
}

// List получает записи по виду и статусу
func (s *ContentService) List(ctx context.Context, actor model.Actor, kind, status string, page, limit int) (*ContentPage, error) {
	p, err := model.NewPage(page, limit)
	if err != nil {
		return nil, err
	}
	filter := model.ContentFilter{
		Kind:   model.ContentKind(kind),
		Status: model.PublishStatus(status),
		Page:   p,
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, model.ValidationError("unknown content kind %q", kind)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, model.ValidationError("unknown status %q", status)
	}
	if !actor.IsAdmin() {
		filter.Status = model.PublishStatusPublished
	}

	items, total, err := s.content.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	return &ContentPage{
		Items:      items,
		Pagination: filter.Page.Paginate(total),
	}, nil
}

func (s *ContentService) getAny(ctx context.Context, id int64) (*model.Content, error) {
	c, err := s.content.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	if c == nil {
		return nil, model.ErrContentNotFound
	}
	return c, nil
}
