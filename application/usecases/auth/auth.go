package auth

import (
	"context"
	"errors"

	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/domain/repository"
	infraAuth "github.com/vendora/realtime/infrastructure/auth"
	"github.com/vendora/realtime/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrCustomerNotFound reports a customer token whose customer record cannot
// be resolved; the handshake is refused.
var ErrCustomerNotFound = errors.New("customer not found")

type AuthUseCase interface {
	// Authenticate verifies the handshake credential and resolves the
	// connection identity. There is no partially-authenticated state: any
	// failure refuses the connection.
	Authenticate(ctx context.Context, credential string) (model.Identity, error)
}

type authUseCase struct {
	tokens    *infraAuth.TokenVerifier
	customers repository.CustomerRepository
	logger    *logger.Logger
}

func NewAuthUseCase(
	tokens *infraAuth.TokenVerifier,
	customers repository.CustomerRepository,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		tokens:    tokens,
		customers: customers,
		logger:    logger,
	}
}

func (uc *authUseCase) Authenticate(ctx context.Context, credential string) (model.Identity, error) {
	claims, err := uc.tokens.VerifyAccessToken(credential)
	if err != nil {
		return model.Identity{}, err
	}

	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return model.Identity{}, infraAuth.ErrTokenInvalid
	}

	identity := model.Identity{
		Role:     role,
		TenantID: claims.TenantID,
	}

	if role == model.RoleCustomer {
		// The token subject is a customer record id; messages are attributed
		// to the underlying platform user.
		customer, err := uc.customers.GetByID(ctx, claims.Subject)
		if err != nil {
			uc.logger.Warn("customer lookup failed during handshake",
				zap.String("customerID", claims.Subject),
				zap.Error(err),
			)
			return model.Identity{}, ErrCustomerNotFound
		}
		identity.UserID = customer.UserID
		identity.CustomerID = customer.ID
	} else {
		identity.UserID = claims.Subject
	}

	return identity, nil
}
