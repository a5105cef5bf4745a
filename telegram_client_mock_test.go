// telegram_client_mock_test.go
package main

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/mock"
)

// MockTelegramClient is a mock implementation of TelegramClient for testing.
// A non-nil Func field takes precedence over the testify expectations.
type MockTelegramClient struct {
	mock.Mock
	SendMessageFunc    func(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhotoFunc      func(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendMediaGroupFunc func(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error)
	DeleteMessageFunc  func(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	StartFunc          func(ctx context.Context)
}

func (m *MockTelegramClient) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTelegramClient) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	if m.SendPhotoFunc != nil {
		return m.SendPhotoFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTelegramClient) SendMediaGroup(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error) {
	if m.SendMediaGroupFunc != nil {
		return m.SendMediaGroupFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msgs, ok := args.Get(0).([]*models.Message); ok {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTelegramClient) DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error) {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

func (m *MockTelegramClient) Start(ctx context.Context) {
	if m.StartFunc != nil {
		m.StartFunc(ctx)
		return
	}
	m.Called(ctx)
}

// sentLog records everything a recordingClient was asked to send.
type sentLog struct {
	mu       sync.Mutex
	texts    []string
	photos   []*bot.SendPhotoParams
	groups   []*bot.SendMediaGroupParams
	deleted  []int
	nextID   int
	sendErrs map[string]error
}

func (s *sentLog) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

// recordingClient returns a MockTelegramClient that accepts every call and
// records it in the returned log.
func recordingClient() (*MockTelegramClient, *sentLog) {
	sent := &sentLog{nextID: 100, sendErrs: make(map[string]error)}
	client := &MockTelegramClient{
		SendMessageFunc: func(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			sent.texts = append(sent.texts, params.Text)
			sent.nextID++
			chatID, _ := params.ChatID.(int64)
			return &models.Message{ID: sent.nextID, Chat: models.Chat{ID: chatID}, Text: params.Text}, nil
		},
		SendPhotoFunc: func(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			if err := sent.sendErrs["photo"]; err != nil {
				return nil, err
			}
			sent.photos = append(sent.photos, params)
			sent.nextID++
			return &models.Message{ID: sent.nextID}, nil
		},
		SendMediaGroupFunc: func(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error) {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			if err := sent.sendErrs["group"]; err != nil {
				return nil, err
			}
			sent.groups = append(sent.groups, params)
			msgs := make([]*models.Message, len(params.Media))
			for i := range msgs {
				sent.nextID++
				msgs[i] = &models.Message{ID: sent.nextID}
			}
			return msgs, nil
		},
		DeleteMessageFunc: func(ctx context.Context, params *bot.DeleteMessageParams) (bool, error) {
			sent.mu.Lock()
			defer sent.mu.Unlock()
			sent.deleted = append(sent.deleted, params.MessageID)
			return true, nil
		},
	}
	return client, sent
}
