package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/psds-microservice/contact-service/internal/errs"
	"github.com/psds-microservice/contact-service/internal/model"
	"github.com/psds-microservice/contact-service/internal/registry"
	"github.com/psds-microservice/contact-service/internal/service"
	"github.com/stretchr/testify/require"
)

type fakeMessageService struct {
	createFunc   func(ctx context.Context, m *model.Message) error
	listFunc     func(ctx context.Context, f service.MessageFilter, page, limit int) ([]model.Message, int64, error)
	statsFunc    func(ctx context.Context) (*service.InboxStats, error)
	getFunc      func(ctx context.Context, id uint64) (*model.Message, error)
	markReadFunc func(ctx context.Context, id uint64) (*model.Message, error)
	updateFunc   func(ctx context.Context, id uint64, changes service.MessageChanges) (*model.Message, error)
	addNoteFunc  func(ctx context.Context, id uint64, note model.MessageNote) (*model.Message, error)
	deleteFunc   func(ctx context.Context, id uint64) error
}

func (f *fakeMessageService) Create(ctx context.Context, m *model.Message) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, m)
	}
	m.ID = 1
	m.CreatedAt = time.Now()
	return nil
}

func (f *fakeMessageService) List(ctx context.Context, fl service.MessageFilter, page, limit int) ([]model.Message, int64, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, fl, page, limit)
	}
	return nil, 0, nil
}

func (f *fakeMessageService) Stats(ctx context.Context) (*service.InboxStats, error) {
	if f.statsFunc != nil {
		return f.statsFunc(ctx)
	}
	return &service.InboxStats{}, nil
}

func (f *fakeMessageService) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, id)
	}
	return nil, errs.ErrMessageNotFound
}

func (f *fakeMessageService) MarkRead(ctx context.Context, id uint64) (*model.Message, error) {
	if f.markReadFunc != nil {
		return f.markReadFunc(ctx, id)
	}
	return nil, errs.ErrMessageNotFound
}

func (f *fakeMessageService) Update(ctx context.Context, id uint64, changes service.MessageChanges) (*model.Message, error) {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, id, changes)
	}
	return nil, errs.ErrMessageNotFound
}

func (f *fakeMessageService) AddNote(ctx context.Context, id uint64, note model.MessageNote) (*model.Message, error) {
	if f.addNoteFunc != nil {
		return f.addNoteFunc(ctx, id, note)
	}
	return nil, errs.ErrMessageNotFound
}

func (f *fakeMessageService) Delete(ctx context.Context, id uint64) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return errs.ErrMessageNotFound
}

func TestMessages_Create_MinimalProjection(t *testing.T) {
	req := require.New(t)
	var captured *model.Message
	fake := &fakeMessageService{
		createFunc: func(ctx context.Context, m *model.Message) error {
			captured = m
			m.ID = 12
			m.CreatedAt = time.Now()
			return nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodPost, "/messages", "",
		`{"name":"A","email":"A@X.com","subject":"General question","message":"hello"}`)

	req.Equal(http.StatusCreated, rec.Code)
	req.NotNil(captured)
	req.Equal("a@x.com", captured.Email)
	req.Equal(model.MessagePriority(""), captured.Priority)

	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	req.Equal(float64(12), data["id"])
	req.Equal("A", data["name"])
	req.Equal("General question", data["subject"])
	req.Contains(data, "createdAt")
	// The submitted email and body are never echoed back.
	req.NotContains(data, "email")
	req.NotContains(data, "message")
}

func TestMessages_Create_UrgentKeywordHighPriority(t *testing.T) {
	req := require.New(t)
	var captured *model.Message
	fake := &fakeMessageService{
		createFunc: func(ctx context.Context, m *model.Message) error {
			captured = m
			m.ID = 1
			return nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodPost, "/messages", "",
		`{"name":"A","email":"a@x.com","subject":"URGENT help","message":"hi","category":"general"}`)

	req.Equal(http.StatusCreated, rec.Code)
	req.Equal(model.PriorityHigh, captured.Priority)
}

func TestMessages_Create_ComplaintCategoryHighPriority(t *testing.T) {
	req := require.New(t)
	var captured *model.Message
	fake := &fakeMessageService{
		createFunc: func(ctx context.Context, m *model.Message) error {
			captured = m
			return nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodPost, "/messages", "",
		`{"name":"A","email":"a@x.com","subject":"Complaint about service","message":"bad","category":"complaint"}`)

	req.Equal(http.StatusCreated, rec.Code)
	req.Equal(model.PriorityHigh, captured.Priority)
}

func TestMessages_Create_ValidationListsEveryField(t *testing.T) {
	req := require.New(t)
	h := newTestRouter(t, registry.New(), &fakeMessageService{})

	rec := doJSON(t, h, http.MethodPost, "/messages", "", `{"email":"nope","category":"bogus"}`)

	req.Equal(http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	req.Equal(false, env["success"])
	req.Len(env["errors"], 5) // name, email, subject, message, category
}

func TestMessages_List_PaginationAndGlobalStats(t *testing.T) {
	req := require.New(t)
	var gotFilter service.MessageFilter
	fake := &fakeMessageService{
		listFunc: func(ctx context.Context, f service.MessageFilter, page, limit int) ([]model.Message, int64, error) {
			gotFilter = f
			return []model.Message{{ID: 1}, {ID: 2}}, 45, nil
		},
		statsFunc: func(ctx context.Context) (*service.InboxStats, error) {
			return &service.InboxStats{Total: 100, Unread: 40, Unreplied: 60, HighPriority: 5}, nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodGet, "/messages?category=support&isRead=false&search=hello", adminToken(t), "")

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("support", gotFilter.Category)
	req.NotNil(gotFilter.IsRead)
	req.False(*gotFilter.IsRead)
	req.Equal("hello", gotFilter.Search)

	env := decodeEnvelope(t, rec)
	p := env["pagination"].(map[string]interface{})
	req.Equal(float64(1), p["page"])
	req.Equal(float64(20), p["limit"])
	req.Equal(float64(45), p["total"])
	req.Equal(float64(3), p["pages"]) // ceil(45/20)

	// Stats reflect the whole inbox, not the filtered page.
	s := env["stats"].(map[string]interface{})
	req.Equal(float64(100), s["total"])
	req.Equal(float64(40), s["unread"])
	req.Equal(float64(60), s["unreplied"])
	req.Equal(float64(5), s["highPriority"])
}

func TestMessages_List_ValidatesQuery(t *testing.T) {
	req := require.New(t)
	h := newTestRouter(t, registry.New(), &fakeMessageService{})

	rec := doJSON(t, h, http.MethodGet, "/messages?page=0&limit=500&priority=bogus", adminToken(t), "")

	req.Equal(http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	req.Len(env["errors"], 3)
}

func TestMessages_List_RequiresAdmin(t *testing.T) {
	req := require.New(t)
	h := newTestRouter(t, registry.New(), &fakeMessageService{})

	rec := doJSON(t, h, http.MethodGet, "/messages", "", "")
	req.Equal(http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/messages", userToken(t), "")
	req.Equal(http.StatusForbidden, rec.Code)
}

func TestMessages_Get_MarksReadAsSideEffect(t *testing.T) {
	req := require.New(t)
	readAt := time.Now()
	var markedID uint64
	fake := &fakeMessageService{
		markReadFunc: func(ctx context.Context, id uint64) (*model.Message, error) {
			markedID = id
			return &model.Message{ID: id, IsRead: true, ReadAt: &readAt}, nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodGet, "/messages/7", adminToken(t), "")

	req.Equal(http.StatusOK, rec.Code)
	req.Equal(uint64(7), markedID)
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	req.Equal(true, data["isRead"])
	req.Contains(data, "readAt")
}

func TestMessages_Get_MalformedIDVsNotFound(t *testing.T) {
	req := require.New(t)
	h := newTestRouter(t, registry.New(), &fakeMessageService{})

	rec := doJSON(t, h, http.MethodGet, "/messages/not-a-number", adminToken(t), "")
	req.Equal(http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/messages/424242", adminToken(t), "")
	req.Equal(http.StatusNotFound, rec.Code)
}

func TestMessages_Update_ForwardsChanges(t *testing.T) {
	req := require.New(t)
	var gotChanges service.MessageChanges
	fake := &fakeMessageService{
		updateFunc: func(ctx context.Context, id uint64, changes service.MessageChanges) (*model.Message, error) {
			gotChanges = changes
			return &model.Message{ID: id, Replied: true}, nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodPut, "/messages/3", adminToken(t),
		`{"replied":true,"priority":"low"}`)

	req.Equal(http.StatusOK, rec.Code)
	req.NotNil(gotChanges.Replied)
	req.True(*gotChanges.Replied)
	req.Equal("low", gotChanges.Priority)
	req.Nil(gotChanges.IsRead)
}

func TestMessages_Update_ValidatesEnums(t *testing.T) {
	req := require.New(t)
	h := newTestRouter(t, registry.New(), &fakeMessageService{})

	rec := doJSON(t, h, http.MethodPut, "/messages/3", adminToken(t),
		`{"priority":"extreme","category":"spam"}`)

	req.Equal(http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	req.Len(env["errors"], 2)
}

func TestMessages_AddNote_UsesActingAdmin(t *testing.T) {
	req := require.New(t)
	var gotNote model.MessageNote
	fake := &fakeMessageService{
		addNoteFunc: func(ctx context.Context, id uint64, note model.MessageNote) (*model.Message, error) {
			gotNote = note
			return &model.Message{ID: id, Notes: []model.MessageNote{note}}, nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodPost, "/messages/5/notes", adminToken(t),
		`{"content":"called them back"}`)

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("called them back", gotNote.Content)
	req.Equal("admin@example.com", gotNote.AddedBy.Email)
	req.Equal("admin-1", gotNote.AddedBy.ID)
	req.False(gotNote.AddedAt.IsZero())

	// Note authors are projected down to an email only.
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	notes := data["notes"].([]interface{})
	author := notes[0].(map[string]interface{})["addedBy"].(map[string]interface{})
	req.Equal("admin@example.com", author["email"])
	req.Len(author, 1)
}

func TestMessages_AddNote_ValidatesContent(t *testing.T) {
	req := require.New(t)
	h := newTestRouter(t, registry.New(), &fakeMessageService{})

	rec := doJSON(t, h, http.MethodPost, "/messages/5/notes", adminToken(t), `{"content":""}`)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestMessages_Delete(t *testing.T) {
	req := require.New(t)
	deleted := map[uint64]bool{3: false}
	fake := &fakeMessageService{
		deleteFunc: func(ctx context.Context, id uint64) error {
			if _, ok := deleted[id]; !ok {
				return errs.ErrMessageNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodDelete, "/messages/3", adminToken(t), "")
	req.Equal(http.StatusOK, rec.Code)
	req.True(deleted[3])

	rec = doJSON(t, h, http.MethodDelete, "/messages/99", adminToken(t), "")
	req.Equal(http.StatusNotFound, rec.Code)
}

func TestMessages_MarkRead_Explicit(t *testing.T) {
	req := require.New(t)
	calls := 0
	readAt := time.Now()
	fake := &fakeMessageService{
		markReadFunc: func(ctx context.Context, id uint64) (*model.Message, error) {
			calls++
			return &model.Message{ID: id, IsRead: true, ReadAt: &readAt}, nil
		},
	}
	h := newTestRouter(t, registry.New(), fake)

	rec := doJSON(t, h, http.MethodPut, "/messages/9/mark-read", adminToken(t), "")
	req.Equal(http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	req.Equal("Message marked as read", env["message"])
	req.Equal(1, calls)
}
