package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reqdesk/reqdesk/internal/adapter"
	"github.com/reqdesk/reqdesk/internal/config"
	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/store"
	"github.com/reqdesk/reqdesk/internal/utils"
	"github.com/reqdesk/reqdesk/models"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, digital-signature
// login and the JWT token lifecycle using a UserRepository for persistence
// and argon2id for password hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// edsVerifier validates signed XML documents through NCANode and
	// extracts the signer's IIN.
	edsVerifier adapter.EDSVerifier

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and EDS verifier, populated with security parameters
// from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, edsVerifier adapter.EDSVerifier, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		edsVerifier:    edsVerifier,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// RegisterUser creates a new active user account from email credentials.
//
// It validates that email, password and full name are non-empty, hashes the
// password with argon2id, generates a pseudo-IIN for the account, and
// delegates persistence to the UserRepository. The very first registered
// account becomes the administrator; every later registration is an employee.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if email, password or full name is empty.
//   - A wrapped storage error if the repository call fails (e.g. email already
//     taken — see store.ErrEmailAlreadyExists).
func (a *authService) RegisterUser(ctx context.Context, user models.User, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email == "" || password == "" || user.FullName == "" {
		log.Error().Str("email", user.Email).Msg("invalid registration data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	count, err := a.userRepository.CountUsers(ctx)
	if err != nil {
		log.Err(err).Msg("user count failed")
		return models.User{}, fmt.Errorf("user count failed: %w", err)
	}

	user.PasswordHash = hash
	user.Active = true
	user.Status = models.UserStatusActive
	// admin-created accounts may carry an explicit role
	if !user.Role.Valid() {
		user.Role = models.RoleEmployee
	}
	if count == 0 {
		user.Role = models.RoleAdministrator
	}
	if user.IIN == "" {
		user.IIN = pseudoIIN()
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user by email and password.
//
// Returns the authenticated user record or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - ErrUserInactive if the account is deactivated.
//   - ErrWrongPassword if the email is unknown or the password does not
//     verify against the stored argon2id hash.
func (a *authService) Login(ctx context.Context, email string, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		log.Error().Str("email", email).Msg("invalid login data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		// an unknown email is indistinguishable from a wrong password, so
		// accounts cannot be enumerated through the login endpoint
		if errors.Is(err, store.ErrNoUserWasFound) {
			log.Warn().Str("email", email).Msg("login attempt with unknown email")
			return models.User{}, ErrWrongPassword
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !foundUser.Active || foundUser.Status == models.UserStatusInactive {
		log.Warn().Int64("id", foundUser.UserID).Msg("inactive user login attempt")
		return models.User{}, ErrUserInactive
	}

	// pending EDS accounts have no password hash yet
	ok, err := utils.VerifyPassword(password, foundUser.PasswordHash)
	if err != nil || !ok {
		log.Warn().Int64("id", foundUser.UserID).Str("email", email).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return foundUser, nil
}

// EDSLogin authenticates a user via Kazakhstan eGov digital signature.
//
// The signed XML document is verified through NCANode (including an OCSP
// revocation check) and the signer's IIN is extracted from the certificate.
// On first login a pending employee account is created for the IIN; its
// profile is filled in later via CompleteRegistration. The bool result is
// true when the account was just created.
//
// Returns:
//   - ErrInvalidDataProvided if signedXML is empty.
//   - adapter.ErrInvalidSignature / adapter.ErrVerifierUnavailable from the
//     verification step.
//   - ErrUserInactive if the account is deactivated.
func (a *authService) EDSLogin(ctx context.Context, signedXML string) (models.User, bool, error) {
	log := logger.FromContext(ctx)

	if signedXML == "" {
		log.Error().Msg("empty signed xml provided")
		return models.User{}, false, ErrInvalidDataProvided
	}

	iin, err := a.edsVerifier.Verify(ctx, signedXML)
	if err != nil {
		log.Err(err).Msg("signature verification failed")
		return models.User{}, false, err
	}

	foundUser, err := a.userRepository.FindUserByIIN(ctx, iin)
	if err == nil {
		if !foundUser.Active || foundUser.Status == models.UserStatusInactive {
			log.Warn().Int64("id", foundUser.UserID).Msg("inactive user eds login attempt")
			return models.User{}, false, ErrUserInactive
		}
		return foundUser, false, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Msg("user search by iin failed")
		return models.User{}, false, fmt.Errorf("user search by iin failed: %w", err)
	}

	newUser, err := a.userRepository.CreateUser(ctx, models.User{
		IIN:    iin,
		Active: true,
		Status: models.UserStatusPending,
		Role:   models.RoleEmployee,
	})
	if err != nil {
		log.Err(err).Msg("pending user creation failed")
		return models.User{}, false, fmt.Errorf("pending user creation failed: %w", err)
	}

	log.Info().Int64("id", newUser.UserID).Msg("pending user created from eds login")
	return newUser, true, nil
}

// CompleteRegistration fills in the profile of a pending EDS account and
// activates it. A supplied password is hashed before storage.
//
// Returns:
//   - ErrRegistrationNotPending if the account's status is not pending.
//   - A wrapped storage error on lookup or update failure.
func (a *authService) CompleteRegistration(ctx context.Context, userID int64, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("user lookup failed")
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if user.Status != models.UserStatusPending {
		log.Warn().Int64("user_id", userID).Str("status", string(user.Status)).Msg("completion attempt on non-pending account")
		return models.User{}, ErrRegistrationNotPending
	}

	if update.Password != nil {
		hash, hashErr := utils.HashPassword(*update.Password)
		if hashErr != nil {
			log.Err(hashErr).Msg("password hashing failed")
			return models.User{}, fmt.Errorf("password hashing failed: %w", hashErr)
		}
		update.Password = &hash
	}

	active := models.UserStatusActive
	update.Status = &active

	updatedUser, err := a.userRepository.UpdateUser(ctx, userID, update)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("registration completion failed")
		return models.User{}, fmt.Errorf("registration completion failed: %w", err)
	}

	return updatedUser, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim and the user's role as a custom claim, and
// expires after tokenDuration.
//
// Returns the token model on success or a wrapped error if JWT generation fails.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
//
// Returns the decoded token model on success or ErrTokenIsExpiredOrInvalid on
// any validation failure.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// pseudoIIN builds a synthetic identifier for accounts registered by email,
// so the unique iin column stays populated. Real IINs are 12 digits; the
// leading "E" guarantees no collision with them.
func pseudoIIN() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "E" + raw[:11]
}
