package service

import (
	"context"
	"time"

	"github.com/jejomarc/askjejo/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockChatRepo struct {
	mock.Mock
}

func (m *mockChatRepo) Create(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *mockChatRepo) GetOwnedBy(ctx context.Context, id, userID int64) (*domain.Chat, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *mockChatRepo) ListSummariesByOwner(ctx context.Context, userID int64) ([]domain.ChatSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatSummary), args.Error(1)
}

func (m *mockChatRepo) Update(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *mockChatRepo) Touch(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockChatRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageRepo) ListByChat(ctx context.Context, chatID int64) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockMessageRepo) ListPage(ctx context.Context, chatID int64, limit, offset int) ([]domain.Message, error) {
	args := m.Called(ctx, chatID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockMessageRepo) CountByChat(ctx context.Context, chatID int64) (int64, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) DeleteByChat(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// fakeStore is an in-test TxStore backed by the mocks above. WithTx runs
// fn against the same repositories and records whether the transaction
// would have committed or rolled back.
type fakeStore struct {
	users    *mockUserRepo
	chats    *mockChatRepo
	messages *mockMessageRepo

	commits   int
	rollbacks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    new(mockUserRepo),
		chats:    new(mockChatRepo),
		messages: new(mockMessageRepo),
	}
}

func (s *fakeStore) Users() domain.UserRepository       { return s.users }
func (s *fakeStore) Chats() domain.ChatRepository       { return s.chats }
func (s *fakeStore) Messages() domain.MessageRepository { return s.messages }

func (s *fakeStore) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	defer func() {
		if r := recover(); r != nil {
			s.rollbacks++
			panic(r)
		}
	}()
	if err := fn(s); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}
