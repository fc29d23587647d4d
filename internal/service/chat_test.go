package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestChatService_ListChats(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	summaries := []domain.ChatSummary{
		{ID: 2, UserID: 7, Title: strPtr("newer"), MessageCount: 4},
		{ID: 1, UserID: 7, Title: strPtr("older"), MessageCount: 2},
	}
	store.chats.On("ListSummariesByOwner", mock.Anything, int64(7)).Return(summaries, nil)

	got, err := svc.ListChats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, summaries, got)
}

func TestChatService_GetChat(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	chat := &domain.Chat{ID: 3, UserID: 7, Title: strPtr("t")}
	messages := []domain.Message{
		{ID: 1, ChatID: 3, Sender: domain.SenderUser, Content: "hi"},
		{ID: 2, ChatID: 3, Sender: domain.SenderBot, Content: "hello"},
	}
	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(7)).Return(chat, nil)
	store.messages.On("ListByChat", mock.Anything, int64(3)).Return(messages, nil)

	detail, err := svc.GetChat(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, *chat, detail.Chat)
	assert.Equal(t, messages, detail.Messages)
}

func TestChatService_GetChat_NotOwned(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(8)).Return(nil, domain.ErrNotFound)

	_, err := svc.GetChat(context.Background(), 3, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	store.messages.AssertNotCalled(t, "ListByChat", mock.Anything, mock.Anything)
}

func TestChatService_PaginateHistory(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	chat := &domain.Chat{ID: 3, UserID: 7}
	window := []domain.Message{
		{ID: 2, ChatID: 3, Content: "b"},
		{ID: 3, ChatID: 3, Content: "c"},
	}
	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(7)).Return(chat, nil)
	store.messages.On("ListPage", mock.Anything, int64(3), 2, 1).Return(window, nil)
	store.messages.On("CountByChat", mock.Anything, int64(3)).Return(int64(5), nil)

	page, err := svc.PaginateHistory(context.Background(), 3, 7, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.ChatID)
	assert.Equal(t, window, page.Messages)
	assert.Equal(t, 2, page.Pagination.Limit)
	assert.Equal(t, 1, page.Pagination.Offset)
	assert.Equal(t, int64(5), page.Pagination.Total)
}

func TestChatService_PaginateHistory_ClampsWindow(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(7)).
		Return(&domain.Chat{ID: 3, UserID: 7}, nil)
	store.messages.On("ListPage", mock.Anything, int64(3), domain.MaxPageLimit, 0).
		Return([]domain.Message{}, nil)
	store.messages.On("CountByChat", mock.Anything, int64(3)).Return(int64(0), nil)

	page, err := svc.PaginateHistory(context.Background(), 3, 7, 9999, -4)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageLimit, page.Pagination.Limit)
	assert.Equal(t, 0, page.Pagination.Offset)
}

func TestChatService_UpdateTitle(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(7)).
		Return(&domain.Chat{ID: 3, UserID: 7, Title: strPtr("old")}, nil)
	store.chats.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Chat) bool {
		return c.ID == 3 && c.Title != nil && *c.Title == "new title"
	})).Return(nil)

	updated, err := svc.UpdateTitle(context.Background(), 3, 7, "  new title  ")
	require.NoError(t, err)
	assert.Equal(t, "new title", *updated.Title)
	assert.Equal(t, 1, store.commits)
}

func TestChatService_UpdateTitle_Invalid(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	_, err := svc.UpdateTitle(context.Background(), 3, 7, "   ")
	assert.Error(t, err)

	_, err = svc.UpdateTitle(context.Background(), 3, 7, strings.Repeat("x", 256))
	assert.Error(t, err)

	store.chats.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChatService_DeleteChat(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	var order []string
	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(7)).
		Return(&domain.Chat{ID: 3, UserID: 7}, nil)
	store.messages.On("DeleteByChat", mock.Anything, int64(3)).
		Run(func(mock.Arguments) { order = append(order, "messages") }).Return(nil)
	store.chats.On("Delete", mock.Anything, int64(3)).
		Run(func(mock.Arguments) { order = append(order, "chat") }).Return(nil)

	err := svc.DeleteChat(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"messages", "chat"}, order)
	assert.Equal(t, 1, store.commits)
}

func TestChatService_DeleteChat_NotOwned(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	store.chats.On("GetOwnedBy", mock.Anything, int64(3), int64(8)).Return(nil, domain.ErrNotFound)

	err := svc.DeleteChat(context.Background(), 3, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	store.messages.AssertNotCalled(t, "DeleteByChat", mock.Anything, mock.Anything)
	assert.Equal(t, 1, store.rollbacks)
}

func TestChatService_ListChats_Empty(t *testing.T) {
	store := newFakeStore()
	svc := NewChatService(store)

	store.chats.On("ListSummariesByOwner", mock.Anything, int64(7)).
		Return([]domain.ChatSummary{}, nil)

	got, err := svc.ListChats(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}
