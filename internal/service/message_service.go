package service

import (
	"context"
	"errors"
	"time"

	"github.com/psds-microservice/contact-service/internal/errs"
	"github.com/psds-microservice/contact-service/internal/model"
	"gorm.io/gorm"
)

// MessageFilter composes the optional equality and search constraints of a
// list request. Zero values mean "no constraint".
type MessageFilter struct {
	Category string
	Priority string
	IsRead   *bool
	Replied  *bool
	Search   string
}

// MessageChanges is the admin-editable subset of a message. Booleans are
// pointers so false is applicable.
type MessageChanges struct {
	IsRead   *bool
	Replied  *bool
	Priority string
	Category string
}

// InboxStats are aggregate counts over the whole inbox, independent of any
// list filter.
type InboxStats struct {
	Total        int64 `json:"total"`
	Unread       int64 `json:"unread"`
	Unreplied    int64 `json:"unreplied"`
	HighPriority int64 `json:"highPriority"`
}

// MessageServicer is the inbox abstraction the handlers depend on.
type MessageServicer interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context, f MessageFilter, page, limit int) ([]model.Message, int64, error)
	Stats(ctx context.Context) (*InboxStats, error)
	GetByID(ctx context.Context, id uint64) (*model.Message, error)
	MarkRead(ctx context.Context, id uint64) (*model.Message, error)
	Update(ctx context.Context, id uint64, changes MessageChanges) (*model.Message, error)
	AddNote(ctx context.Context, id uint64, note model.MessageNote) (*model.Message, error)
	Delete(ctx context.Context, id uint64) error
}

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

func (s *MessageService) Create(ctx context.Context, m *model.Message) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *MessageService) List(ctx context.Context, f MessageFilter, page, limit int) ([]model.Message, int64, error) {
	var items []model.Message
	var total int64

	tx := s.db.WithContext(ctx).Model(&model.Message{})
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}
	if f.IsRead != nil {
		tx = tx.Where("is_read = ?", *f.IsRead)
	}
	if f.Replied != nil {
		tx = tx.Where("replied = ?", *f.Replied)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		tx = tx.Where("name ILIKE ? OR email ILIKE ? OR subject ILIKE ? OR message ILIKE ?",
			like, like, like, like)
	}

	// Count total before pagination
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.
		Preload("Notes", notesInOrder).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Stats counts over the whole table. The list endpoint pairs a filtered page
// with these global numbers; that mismatch is deliberate (the stats banner
// always reflects the full inbox).
func (s *MessageService) Stats(ctx context.Context) (*InboxStats, error) {
	stats := &InboxStats{}
	if err := s.db.WithContext(ctx).Model(&model.Message{}).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("is_read = ?", false).Count(&stats.Unread).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("replied = ?", false).Count(&stats.Unreplied).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("priority = ?", model.PriorityHigh).Count(&stats.HighPriority).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *MessageService) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	var m model.Message
	err := s.db.WithContext(ctx).Preload("Notes", notesInOrder).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

// MarkRead stamps the first transition to read and returns the message.
// The update is conditional at the store, so concurrent calls cannot
// overwrite an existing read_at; repeat calls are no-ops.
func (s *MessageService) MarkRead(ctx context.Context, id uint64) (*model.Message, error) {
	err := s.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *MessageService) Update(ctx context.Context, id uint64, changes MessageChanges) (*model.Message, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if changes.IsRead != nil {
		fields["is_read"] = *changes.IsRead
	}
	if changes.Replied != nil {
		fields["replied"] = *changes.Replied
	}
	if changes.Priority != "" {
		fields["priority"] = changes.Priority
	}
	if changes.Category != "" {
		fields["category"] = changes.Category
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&model.Message{}).
			Where("id = ?", id).
			Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	// First-transition timestamps: set once, conditional at the store,
	// never cleared when the flag later reverts.
	now := time.Now()
	if changes.IsRead != nil && *changes.IsRead {
		if err := s.db.WithContext(ctx).
			Model(&model.Message{}).
			Where("id = ? AND read_at IS NULL", id).
			Update("read_at", now).Error; err != nil {
			return nil, err
		}
	}
	if changes.Replied != nil && *changes.Replied {
		if err := s.db.WithContext(ctx).
			Model(&model.Message{}).
			Where("id = ? AND replied_at IS NULL", id).
			Update("replied_at", now).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}

func (s *MessageService) AddNote(ctx context.Context, id uint64, note model.MessageNote) (*model.Message, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	note.MessageID = id
	if note.AddedAt.IsZero() {
		note.AddedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete verifies existence first so an unknown id reports NotFound instead
// of a silent no-op. Notes go with the message (ON DELETE CASCADE).
func (s *MessageService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&model.Message{}, id).Error
}

func notesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("added_at ASC")
}
