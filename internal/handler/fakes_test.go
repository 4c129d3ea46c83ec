package handler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/config"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/backend"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/domain"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/geocoder"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/order"
	"github.com/uschernetskii/bot-tg-vk-taxomet-client-driver/internal/repository"
)

type rendered struct {
	Text      string
	Markup    models.ReplyMarkup
	MessageID int
	Edited    bool
}

type fakeMessenger struct {
	mu       sync.Mutex
	nextID   int
	rendered []rendered
	deleted  []int
	answered []string
	editErr  error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 1000}
}

func (m *fakeMessenger) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rendered = append(m.rendered, rendered{Text: params.Text, Markup: params.ReplyMarkup, MessageID: m.nextID})
	return &models.Message{ID: m.nextID}, nil
}

func (m *fakeMessenger) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.editErr != nil {
		return nil, m.editErr
	}
	m.rendered = append(m.rendered, rendered{Text: params.Text, Markup: params.ReplyMarkup, MessageID: params.MessageID, Edited: true})
	return &models.Message{ID: params.MessageID}, nil
}

func (m *fakeMessenger) DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, params.MessageID)
	return true, nil
}

func (m *fakeMessenger) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, params.CallbackQueryID)
	return true, nil
}

func (m *fakeMessenger) last() rendered {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rendered) == 0 {
		return rendered{}
	}
	return m.rendered[len(m.rendered)-1]
}

func (m *fakeMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rendered)
}

// fakeBackend keeps users in memory and records every write.
type fakeBackend struct {
	mu        sync.Mutex
	users     map[int64]*domain.UserRecord
	getErr    error
	phoneErr  error
	orderErr  error
	orderID   string
	geo       map[string][]backend.GeoResult
	geoCalls  []string
	getCalls  int
	orders    []backend.CreateOrderRequest
	locations []domain.DriverLocation
	phones    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:   make(map[int64]*domain.UserRecord),
		geo:     make(map[string][]backend.GeoResult),
		orderID: "777",
	}
}

func (f *fakeBackend) addUser(id int64, phone string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id] = &domain.UserRecord{TelegramID: &id, Phone: phone, Role: role, FullName: "Иван"}
}

func (f *fakeBackend) GetUser(ctx context.Context, platform domain.Platform, id int64) (*domain.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeBackend) SetPhone(ctx context.Context, platform domain.Platform, id int64, phone, fullName string) (*domain.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, phone)
	if f.phoneErr != nil {
		return nil, f.phoneErr
	}
	u, ok := f.users[id]
	if !ok {
		uid := id
		u = &domain.UserRecord{TelegramID: &uid}
		f.users[id] = u
	}
	normalized, _ := domain.NormalizeRUPhone(phone)
	u.Phone = normalized
	if fullName != "" {
		u.FullName = fullName
	}
	cp := *u
	return &cp, nil
}

func (f *fakeBackend) SetRole(ctx context.Context, platform domain.Platform, id int64, role domain.Role) (*domain.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

func (f *fakeBackend) SetUIMessage(ctx context.Context, platform domain.Platform, id int64, ptr domain.UIPointer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return backend.ErrNotFound
	}
	chatID, messageID := ptr.ChatID, ptr.MessageID
	u.UIChatID = &chatID
	u.UIMessageID = &messageID
	return nil
}

func (f *fakeBackend) SubmitDriverLocation(ctx context.Context, loc domain.DriverLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations = append(f.locations, loc)
	return nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.CreateOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, req)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &backend.CreateOrderResponse{OrderID: json.Number(f.orderID), Status: "new"}, nil
}

func (f *fakeBackend) Geocode(ctx context.Context, query string, limit int) ([]backend.GeoResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geoCalls = append(f.geoCalls, query)
	if res, ok := f.geo[query]; ok {
		return res, nil
	}
	return nil, errors.New("geocoder unavailable")
}

type testEnv struct {
	h         *Handler
	backend   *fakeBackend
	messenger *fakeMessenger
	awaits    *repository.MemoryAwaitStore
	cfg       *config.Config
	nextMsgID int
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		BaseURL:           "https://taxi.example.org",
		VPNBotLink:        "https://t.me/vpn_bot",
		DriverRegLink:     "https://example.org/drivers",
		ErrorTextLimit:    1200,
		GeoRegionSuffix:   "Вилючинск, Камчатка",
		GeoRegionKeywords: []string{"камчат", "вилючин", "петропав"},
		MiniAppDir:        ".",
	}
	fb := newFakeBackend()
	awaits := repository.NewMemoryAwaitStore(0)
	logger := zap.NewNop()

	h := NewHandler(cfg, logger, fb, awaits,
		geocoder.NewResolver(fb, cfg.GeoRegionSuffix, cfg.GeoRegionKeywords, logger),
		order.NewSubmitter(fb, logger),
		NewLiveFeed(logger))

	return &testEnv{h: h, backend: fb, messenger: newFakeMessenger(), awaits: awaits, cfg: cfg, nextMsgID: 1}
}

func (e *testEnv) message(userID int64) *models.Message {
	e.nextMsgID++
	return &models.Message{
		ID:   e.nextMsgID,
		From: &models.User{ID: userID, FirstName: "Иван", LastName: "Петров"},
		Chat: models.Chat{ID: userID},
	}
}

func (e *testEnv) sendText(userID int64, text string) {
	msg := e.message(userID)
	msg.Text = text
	e.h.Handle(context.Background(), e.messenger, &models.Update{Message: msg})
}

func (e *testEnv) sendContact(userID, ownerID int64, phone string) {
	msg := e.message(userID)
	msg.Contact = &models.Contact{PhoneNumber: phone, UserID: ownerID}
	e.h.Handle(context.Background(), e.messenger, &models.Update{Message: msg})
}

func (e *testEnv) sendLocation(userID int64, lat, lon float64) {
	msg := e.message(userID)
	msg.Location = &models.Location{Latitude: lat, Longitude: lon}
	e.h.Handle(context.Background(), e.messenger, &models.Update{Message: msg})
}

func (e *testEnv) sendMiniApp(userID int64, data string) {
	msg := e.message(userID)
	msg.WebAppData = &models.WebAppData{Data: data}
	e.h.Handle(context.Background(), e.messenger, &models.Update{Message: msg})
}

func (e *testEnv) press(userID int64, data string) {
	e.nextMsgID++
	e.h.Handle(context.Background(), e.messenger, &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-" + data,
			From: models.User{ID: userID, FirstName: "Иван"},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: 1, Chat: models.Chat{ID: userID}},
			},
		},
	})
}

func (e *testEnv) await(userID int64) domain.Await {
	a, _ := e.awaits.Get(context.Background(), repository.AwaitKey{Platform: domain.PlatformTelegram, UserID: userID})
	return a
}

type panickingResolver struct{}

func (panickingResolver) ResolveAll(ctx context.Context, labels []string) []domain.RouteStop {
	panic("geocoder exploded")
}
