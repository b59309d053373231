package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/domain/repository"
	"github.com/vendora/realtime/infrastructure/logger"
)

type fakeSession struct {
	id model.Identity

	mu     sync.Mutex
	events []*Event
}

func (f *fakeSession) Identity() model.Identity { return f.id }

func (f *fakeSession) Deliver(event *Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeSession) eventsNamed(name string) []*Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*Event
	for _, e := range f.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeTenantRepo struct {
	byID   map[string]*model.Tenant
	bySlug map[string]*model.Tenant
}

func newFakeTenantRepo(tenants ...*model.Tenant) *fakeTenantRepo {
	r := &fakeTenantRepo{
		byID:   make(map[string]*model.Tenant),
		bySlug: make(map[string]*model.Tenant),
	}
	for _, t := range tenants {
		r.byID[t.ID] = t
		r.bySlug[t.Slug] = t
	}
	return r
}

func (r *fakeTenantRepo) GetByID(_ context.Context, id string) (*model.Tenant, error) {
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeTenantRepo) GetBySlug(_ context.Context, slug string) (*model.Tenant, error) {
	if t, ok := r.bySlug[slug]; ok {
		return t, nil
	}
	return nil, repository.ErrNotFound
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type fakeMessageRepo struct {
	mu      sync.Mutex
	err     error
	created []*model.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMessageRepo) createCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

type fixture struct {
	uc       ChatUseCase
	rooms    *RoomRegistry
	tenants  *fakeTenantRepo
	messages *fakeMessageRepo
}

func newFixture(t *testing.T, tenants ...*model.Tenant) *fixture {
	t.Helper()
	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)

	rooms := NewRoomRegistry()
	tenantRepo := newFakeTenantRepo(tenants...)
	messageRepo := &fakeMessageRepo{}
	userRepo := &fakeUserRepo{users: map[string]*model.User{
		"user-a": {ID: "user-a", FirstName: "Ada", LastName: "Admin", Email: "ada@example.com"},
		"user-b": {ID: "user-b", FirstName: "Bob", LastName: "Admin", Email: "bob@example.com"},
		"user-x": {ID: "user-x", FirstName: "Cleo", LastName: "Customer", Email: "cleo@example.com"},
	}}

	return &fixture{
		uc:       NewChatUseCase(rooms, tenantRepo, userRepo, messageRepo, log),
		rooms:    rooms,
		tenants:  tenantRepo,
		messages: messageRepo,
	}
}

func tenantT() *model.Tenant {
	return &model.Tenant{ID: "tenant-1", Slug: "acme", Status: "active"}
}

func adminSession(userID, tenantID string) *fakeSession {
	return &fakeSession{id: model.Identity{UserID: userID, Role: model.RoleAdmin, TenantID: tenantID}}
}

func TestConnect_PersonalRoomForAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := adminSession("user-a", "tenant-1")
	super := &fakeSession{id: model.Identity{UserID: "user-s", Role: model.RoleSuperAdmin}}
	staff := &fakeSession{id: model.Identity{UserID: "user-st", Role: model.RoleStaff, TenantID: "tenant-1"}}
	customer := &fakeSession{id: model.Identity{UserID: "user-x", CustomerID: "cust-x", Role: model.RoleCustomer, TenantID: "tenant-1"}}

	f.uc.Connect(ctx, admin)
	f.uc.Connect(ctx, super)
	f.uc.Connect(ctx, staff)
	f.uc.Connect(ctx, customer)

	assert.True(t, f.rooms.IsMember(userRoom("user-a"), admin))
	assert.True(t, f.rooms.IsMember(userRoom("user-s"), super))
	assert.False(t, f.rooms.IsMember(userRoom("user-st"), staff))
	assert.False(t, f.rooms.IsMember(userRoom("user-x"), customer))
}

func TestJoinTenantRoom_AdminCannotWidenAccess(t *testing.T) {
	f := newFixture(t, tenantT(), &model.Tenant{ID: "tenant-2", Slug: "globex"})
	ctx := context.Background()

	admin := adminSession("user-a", "tenant-1")
	f.uc.JoinTenantRoom(ctx, admin, "globex")

	assert.True(t, f.rooms.IsMember(tenantRoom("acme"), admin))
	assert.False(t, f.rooms.IsMember(tenantRoom("globex"), admin))

	joined := admin.eventsNamed(EventJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, JoinedPayload{Room: tenantRoom("acme")}, joined[0].Data)
}

func TestJoinTenantRoom_SuperAdminJoinsRequestedSlug(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	super := &fakeSession{id: model.Identity{UserID: "user-s", Role: model.RoleSuperAdmin}}
	f.uc.JoinTenantRoom(ctx, super, "acme")

	assert.True(t, f.rooms.IsMember(tenantRoom("acme"), super))
}

func TestJoinTenantRoom_UnknownTenantIsNoOp(t *testing.T) {
	f := newFixture(t) // no tenants at all
	ctx := context.Background()

	admin := adminSession("user-a", "tenant-missing")
	f.uc.JoinTenantRoom(ctx, admin, "")

	assert.Equal(t, 0, f.rooms.MemberCount(tenantRoom("acme")))
	require.Len(t, admin.eventsNamed(EventError), 1)
	assert.Empty(t, admin.eventsNamed(EventJoined))
}

func TestSendMessage_DeliveredExactlyOnceToEachMember(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	a := adminSession("user-a", "tenant-1")
	b := adminSession("user-b", "tenant-1")
	f.uc.JoinTenantRoom(ctx, a, "")
	f.uc.JoinTenantRoom(ctx, b, "")

	f.uc.SendMessage(ctx, a, SendMessageInput{Text: "hello"})

	aMsgs := a.eventsNamed(EventMessage)
	bMsgs := b.eventsNamed(EventMessage)
	require.Len(t, aMsgs, 1)
	require.Len(t, bMsgs, 1)

	got := bMsgs[0].Data.(MessagePayload)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "user-a", got.SenderID)
	assert.Equal(t, "admin", got.SenderType)
	assert.Equal(t, got, aMsgs[0].Data.(MessagePayload))
}

func TestSendMessage_SenderEchoWithoutJoin(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	// The sender never joined the room; it still sees its own message once.
	a := adminSession("user-a", "tenant-1")
	f.uc.SendMessage(ctx, a, SendMessageInput{Text: "hello"})

	assert.Len(t, a.eventsNamed(EventMessage), 1)
}

func TestSendMessage_EmptyTextRejected(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	a := adminSession("user-a", "tenant-1")
	b := adminSession("user-b", "tenant-1")
	f.uc.JoinTenantRoom(ctx, a, "")
	f.uc.JoinTenantRoom(ctx, b, "")

	f.uc.SendMessage(ctx, a, SendMessageInput{Text: "   \t\n"})

	assert.Empty(t, a.eventsNamed(EventMessage))
	assert.Empty(t, b.eventsNamed(EventMessage))
	assert.Len(t, a.eventsNamed(EventError), 1)
	assert.Equal(t, 0, f.messages.createCount())
}

func TestSendMessage_SuperAdminUnresolvableSlug(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	member := adminSession("user-b", "tenant-1")
	f.uc.JoinTenantRoom(ctx, member, "")

	super := &fakeSession{id: model.Identity{UserID: "user-s", Role: model.RoleSuperAdmin}}
	f.uc.SendMessage(ctx, super, SendMessageInput{Text: "hi", TenantSlug: "no-such-store"})

	assert.Empty(t, member.eventsNamed(EventMessage))
	assert.Empty(t, super.eventsNamed(EventMessage))
	assert.Len(t, super.eventsNamed(EventError), 1)
}

func TestSendMessage_SuperAdminRequiresExplicitTenant(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	super := &fakeSession{id: model.Identity{UserID: "user-s", Role: model.RoleSuperAdmin}}
	f.uc.SendMessage(ctx, super, SendMessageInput{Text: "hi"})

	assert.Empty(t, super.eventsNamed(EventMessage))
	assert.Len(t, super.eventsNamed(EventError), 1)
}

func TestSendMessage_CustomerThreadCannotBeOverridden(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	customer := &fakeSession{id: model.Identity{
		UserID: "user-x", CustomerID: "cust-x", Role: model.RoleCustomer, TenantID: "tenant-1",
	}}
	f.uc.SendMessage(ctx, customer, SendMessageInput{Text: "help", CustomerID: "cust-other"})

	msgs := customer.eventsNamed(EventMessage)
	require.Len(t, msgs, 1)
	payload := msgs[0].Data.(MessagePayload)
	require.NotNil(t, payload.CustomerID)
	assert.Equal(t, "cust-x", *payload.CustomerID)
	assert.Equal(t, "customer", payload.SenderType)
	// senderId is the resolved user id, never the customer id
	assert.Equal(t, "user-x", payload.SenderID)
}

func TestSendMessage_StaffUnaddressedMessage(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	staff := &fakeSession{id: model.Identity{UserID: "user-a", Role: model.RoleStaff, TenantID: "tenant-1"}}
	f.uc.SendMessage(ctx, staff, SendMessageInput{Text: "ping"})

	msgs := staff.eventsNamed(EventMessage)
	require.Len(t, msgs, 1)
	payload := msgs[0].Data.(MessagePayload)
	assert.Nil(t, payload.CustomerID)
	assert.Equal(t, "staff", payload.SenderType)
}

func TestSendMessage_SchemaMissingDegrades(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()
	f.messages.err = repository.ErrSchemaMissing

	a := adminSession("user-a", "tenant-1")
	b := adminSession("user-b", "tenant-1")
	f.uc.JoinTenantRoom(ctx, a, "")
	f.uc.JoinTenantRoom(ctx, b, "")

	f.uc.SendMessage(ctx, a, SendMessageInput{Text: "hello"})

	msgs := b.eventsNamed(EventMessage)
	require.Len(t, msgs, 1)
	payload := msgs[0].Data.(MessagePayload)
	assert.Contains(t, payload.ID, "tmp-")
	assert.NotEmpty(t, payload.CreatedAt)
	assert.Equal(t, "Ada", payload.Sender.FirstName)
	assert.Empty(t, a.eventsNamed(EventError))
}

func TestSendMessage_DatabaseErrorAbortsBroadcast(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()
	f.messages.err = assert.AnError

	a := adminSession("user-a", "tenant-1")
	b := adminSession("user-b", "tenant-1")
	f.uc.JoinTenantRoom(ctx, a, "")
	f.uc.JoinTenantRoom(ctx, b, "")

	f.uc.SendMessage(ctx, a, SendMessageInput{Text: "hello"})

	assert.Empty(t, a.eventsNamed(EventMessage))
	assert.Empty(t, b.eventsNamed(EventMessage))
	assert.Len(t, a.eventsNamed(EventError), 1)
	assert.Empty(t, b.eventsNamed(EventError))
}

func TestSendMessage_AdminToCustomerThreadEndToEnd(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	customer := &fakeSession{id: model.Identity{
		UserID: "user-x", CustomerID: "cust-x", Role: model.RoleCustomer, TenantID: "tenant-1",
	}}
	admin := adminSession("user-a", "tenant-1")
	f.uc.Connect(ctx, customer)
	f.uc.Connect(ctx, admin)
	f.uc.JoinTenantRoom(ctx, customer, "")
	f.uc.JoinTenantRoom(ctx, admin, "")

	f.uc.SendMessage(ctx, admin, SendMessageInput{Text: "Hello", CustomerID: "cust-x"})

	for _, sess := range []*fakeSession{customer, admin} {
		msgs := sess.eventsNamed(EventMessage)
		require.Len(t, msgs, 1)
		payload := msgs[0].Data.(MessagePayload)
		assert.Equal(t, "Hello", payload.Text)
		assert.Equal(t, "admin", payload.SenderType)
		require.NotNil(t, payload.CustomerID)
		assert.Equal(t, "cust-x", *payload.CustomerID)
	}
}

func TestTyping_ExcludesSender(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	a := adminSession("user-a", "tenant-1")
	b := adminSession("user-b", "tenant-1")
	f.uc.JoinTenantRoom(ctx, a, "")
	f.uc.JoinTenantRoom(ctx, b, "")

	f.uc.Typing(ctx, a, "", true)

	assert.Empty(t, a.eventsNamed(EventTyping))
	typing := b.eventsNamed(EventTyping)
	require.Len(t, typing, 1)
	assert.Equal(t, TypingPayload{UserID: "user-a", IsTyping: true}, typing[0].Data)
}

func TestTyping_UnresolvableTenantIsDropped(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	super := &fakeSession{id: model.Identity{UserID: "user-s", Role: model.RoleSuperAdmin}}
	f.uc.Typing(ctx, super, "no-such-store", true)
	f.uc.Typing(ctx, super, "", true)

	assert.Empty(t, super.events)
}

func TestDisconnect_LeavesEveryRoom(t *testing.T) {
	f := newFixture(t, tenantT())
	ctx := context.Background()

	admin := adminSession("user-a", "tenant-1")
	f.uc.Connect(ctx, admin)
	f.uc.JoinTenantRoom(ctx, admin, "")

	require.True(t, f.rooms.IsMember(tenantRoom("acme"), admin))
	require.True(t, f.rooms.IsMember(userRoom("user-a"), admin))

	f.uc.Disconnect(admin)

	assert.False(t, f.rooms.IsMember(tenantRoom("acme"), admin))
	assert.False(t, f.rooms.IsMember(userRoom("user-a"), admin))
}
