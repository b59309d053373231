package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/domain/repository"
	"github.com/vendora/realtime/infrastructure/logger"
	"github.com/vendora/realtime/infrastructure/metrics"
	"go.uber.org/zap"
)

const maxMessageLength = 2000

var (
	ErrEmptyText     = errors.New("message text is required")
	ErrMissingTenant = errors.New("tenant could not be resolved")
)

// Room keys. Tenant rooms are keyed by slug so the realtime layer and the
// REST layer agree on naming; personal rooms are keyed by user id.
func tenantRoom(slug string) string { return "tenant:" + slug }
func userRoom(userID string) string { return "user:" + userID }

type SendMessageInput struct {
	Text string

	// TenantSlug targets a tenant room. Only super admins may use it; for
	// every other role it is ignored and the connection's own tenant wins.
	TenantSlug string

	// CustomerID addresses the message to a customer thread. Ignored for
	// customer senders, whose own thread always wins.
	CustomerID string
}

type ChatUseCase interface {
	// Connect runs the implicit post-handshake joins: admins and super
	// admins get a personal notification room keyed by their own user id.
	Connect(ctx context.Context, sess Session)

	// Disconnect tears down every room membership of the session.
	Disconnect(sess Session)

	// JoinTenantRoom joins the session to a tenant broadcast room. The
	// requested identifier only matters for super admins; everyone else is
	// pinned to their own tenant regardless of what they ask for.
	JoinTenantRoom(ctx context.Context, sess Session, requestedSlug string)

	// SendMessage validates, persists, and broadcasts a chat message.
	SendMessage(ctx context.Context, sess Session, input SendMessageInput)

	// Typing broadcasts a best-effort typing indicator to the other members
	// of the resolved room.
	Typing(ctx context.Context, sess Session, tenantIdentifier string, isTyping bool)
}

type chatUseCase struct {
	rooms    *RoomRegistry
	tenants  repository.TenantRepository
	users    repository.UserRepository
	messages repository.MessageRepository
	logger   *logger.Logger
}

func NewChatUseCase(
	rooms *RoomRegistry,
	tenants repository.TenantRepository,
	users repository.UserRepository,
	messages repository.MessageRepository,
	logger *logger.Logger,
) ChatUseCase {
	return &chatUseCase{
		rooms:    rooms,
		tenants:  tenants,
		users:    users,
		messages: messages,
		logger:   logger,
	}
}

func (uc *chatUseCase) Connect(ctx context.Context, sess Session) {
	id := sess.Identity()

	switch id.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		uc.rooms.Join(userRoom(id.UserID), sess)
	case model.RoleStaff, model.RoleCustomer:
		// no personal room
	}
}

func (uc *chatUseCase) Disconnect(sess Session) {
	uc.rooms.Remove(sess)
}

func (uc *chatUseCase) JoinTenantRoom(ctx context.Context, sess Session, requestedSlug string) {
	id := sess.Identity()

	var slug string
	switch id.Role {
	case model.RoleSuperAdmin:
		// The only role with cross-tenant reach; the slug is taken as given.
		if requestedSlug == "" {
			sess.Deliver(NewErrorEvent("tenant is required"))
			return
		}
		slug = requestedSlug

	case model.RoleAdmin, model.RoleStaff, model.RoleCustomer:
		// The requested identifier is ignored: a client cannot widen its own
		// access by naming a different tenant.
		tenant, err := uc.tenants.GetByID(ctx, id.TenantID)
		if err != nil {
			uc.logger.Warn("tenant room join failed",
				zap.String("tenantID", id.TenantID),
				zap.String("userID", id.UserID),
				zap.Error(err),
			)
			sess.Deliver(NewErrorEvent("tenant not found"))
			return
		}
		slug = tenant.Slug
	}

	room := tenantRoom(slug)
	uc.rooms.Join(room, sess)
	sess.Deliver(NewJoinedEvent(room))
}

func (uc *chatUseCase) SendMessage(ctx context.Context, sess Session, input SendMessageInput) {
	id := sess.Identity()

	text := strings.TrimSpace(input.Text)
	if text == "" {
		metrics.MessagesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		sess.Deliver(NewErrorEvent("message text is required"))
		return
	}
	if len(text) > maxMessageLength {
		metrics.MessagesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		sess.Deliver(NewErrorEvent("message text is too long"))
		return
	}

	tenant, err := uc.resolveTargetTenant(ctx, id, input.TenantSlug)
	if err != nil {
		metrics.MessagesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		if errors.Is(err, ErrMissingTenant) {
			sess.Deliver(NewErrorEvent("tenant is required"))
		} else {
			uc.logger.Error("tenant resolution failed",
				zap.String("userID", id.UserID),
				zap.Error(err),
			)
			sess.Deliver(NewErrorEvent("failed to send message"))
		}
		return
	}

	var customerID *string
	switch {
	case id.Role == model.RoleCustomer:
		// A customer always writes into its own thread.
		c := id.CustomerID
		customerID = &c
	case input.CustomerID != "":
		c := input.CustomerID
		customerID = &c
	}

	msg := &model.Message{
		TenantID:   tenant.ID,
		CustomerID: customerID,
		SenderID:   id.UserID,
		SenderType: id.Role.SenderType(),
		Text:       text,
	}

	outcome := metrics.OutcomePersisted
	if err := uc.messages.Create(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrSchemaMissing) {
			// Pre-migration environment: synthesize a transient record so the
			// conversation keeps flowing. It is delivered once and then lost.
			msg.ID = provisionalID()
			msg.CreatedAt = time.Now().UTC()
			outcome = metrics.OutcomeDegraded
			uc.logger.Warn("messages table missing, delivering transient message",
				zap.String("tenantID", tenant.ID),
			)
		} else {
			metrics.MessagesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			uc.logger.Error("failed to persist message",
				zap.String("tenantID", tenant.ID),
				zap.String("senderID", id.UserID),
				zap.Error(err),
			)
			sess.Deliver(NewErrorEvent("failed to send message"))
			return
		}
	}

	event := NewMessageEvent(msg, uc.senderProfile(ctx, id.UserID))

	room := tenantRoom(tenant.Slug)
	uc.rooms.BroadcastExcept(room, event, sess)
	// The sender sees its own message even if its join has not propagated.
	sess.Deliver(event)

	metrics.MessagesTotal.WithLabelValues(outcome).Inc()
}

func (uc *chatUseCase) Typing(ctx context.Context, sess Session, tenantIdentifier string, isTyping bool) {
	id := sess.Identity()

	var (
		tenant *model.Tenant
		err    error
	)
	if id.Role == model.RoleSuperAdmin {
		if tenantIdentifier == "" {
			return
		}
		tenant, err = uc.tenants.GetBySlug(ctx, tenantIdentifier)
		if err != nil {
			tenant, err = uc.tenants.GetByID(ctx, tenantIdentifier)
		}
	} else {
		tenant, err = uc.tenants.GetByID(ctx, id.TenantID)
	}
	if err != nil {
		// Typing is best effort; an unresolvable tenant just drops it.
		return
	}

	metrics.TypingEventsTotal.Inc()
	uc.rooms.BroadcastExcept(tenantRoom(tenant.Slug), NewTypingEvent(id.UserID, isTyping), sess)
}

func (uc *chatUseCase) resolveTargetTenant(ctx context.Context, id model.Identity, requestedSlug string) (*model.Tenant, error) {
	if id.Role == model.RoleSuperAdmin {
		// No implicit tenant: an explicit, resolvable slug is required.
		if requestedSlug == "" {
			return nil, ErrMissingTenant
		}
		tenant, err := uc.tenants.GetBySlug(ctx, requestedSlug)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrMissingTenant
			}
			return nil, err
		}
		return tenant, nil
	}

	// Any client-supplied tenant is ignored; the connection's own tenant wins.
	tenant, err := uc.tenants.GetByID(ctx, id.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMissingTenant
		}
		return nil, err
	}
	return tenant, nil
}

// senderProfile enriches outbound messages with sender identity. A failed
// lookup is not fatal: the message still carries the sender id.
func (uc *chatUseCase) senderProfile(ctx context.Context, userID string) SenderPayload {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Warn("sender profile lookup failed",
			zap.String("userID", userID),
			zap.Error(err),
		)
		return SenderPayload{ID: userID}
	}
	return SenderPayload{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Avatar:    user.Avatar,
	}
}

func provisionalID() string {
	return "tmp-" + uuid.NewString()
}
