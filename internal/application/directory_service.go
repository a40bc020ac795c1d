package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"

	"github.com/example/campus-events/internal/backend"
	"github.com/example/campus-events/internal/domain"
	"github.com/example/campus-events/internal/session"
)

// DirectoryBackend exposes the user and speaker endpoints of the backend.
type DirectoryBackend interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user backend.NewUser) error
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, userID string) error
	ListSpeakers(ctx context.Context) ([]domain.Speaker, error)
	CreateSpeaker(ctx context.Context, speaker domain.Speaker) error
	UpdateSpeaker(ctx context.Context, speaker domain.Speaker) error
	DeleteSpeaker(ctx context.Context, speakerID string) error
}

const minPasswordLength = 8

// DirectoryService manages accounts and speakers.
type DirectoryService struct {
	directory DirectoryBackend
	logger    *slog.Logger
}

// NewDirectoryService constructs a directory service.
func NewDirectoryService(directory DirectoryBackend) *DirectoryService {
	return NewDirectoryServiceWithLogger(directory, nil)
}

// NewDirectoryServiceWithLogger constructs a directory service with a specified logger.
func NewDirectoryServiceWithLogger(directory DirectoryBackend, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{directory: directory, logger: defaultLogger(logger)}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

func (s *DirectoryService) ready() error {
	if s == nil || s.directory == nil {
		return fmt.Errorf("DirectoryService is not configured")
	}
	return nil
}

// ListUsers returns accounts matching filter in name order. Administrators only.
func (s *DirectoryService) ListUsers(ctx context.Context, principal Principal, filter UserFilter) ([]domain.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !principal.Is(session.RoleAdmin) {
		return nil, ErrUnauthorized
	}
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		err = mapBackendError(err)
		s.loggerWith(ctx, "ListUsers", "principal_id", principal.UserID).
			ErrorContext(ctx, "failed to list users", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]domain.User, 0, len(users))
	for _, user := range users {
		if filter.Role.Valid() && session.ParseRole(user.RoleName) != filter.Role {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(user.Name+"\n"+user.Email), query) {
			continue
		}
		out = append(out, user)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func validateUserInput(input UserInput, requirePassword bool) (UserInput, *ValidationError) {
	normalized := UserInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: input.Password,
		RoleName: session.ParseRole(input.RoleName).String(),
		Phone:    strings.TrimSpace(input.Phone),
	}
	vErr := &ValidationError{}
	if normalized.Name == "" {
		vErr.add("name", "Name is required.")
	}
	if normalized.Email == "" {
		vErr.add("email", "Email is required.")
	} else if _, err := mail.ParseAddress(normalized.Email); err != nil {
		vErr.add("email", "Enter a valid email address.")
	}
	if normalized.RoleName == "" {
		vErr.add("role", "Choose Admin, Organizer, Staff or Student.")
	}
	if requirePassword && len(normalized.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}
	return normalized, vErr
}

// CreateUser validates and creates an account. Administrators only.
func (s *DirectoryService) CreateUser(ctx context.Context, principal Principal, input UserInput) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "CreateUser", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user created")
	}()

	if !principal.Is(session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	normalized, vErr := validateUserInput(input, true)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	return mapBackendError(s.directory.CreateUser(ctx, backend.NewUser{
		Name:     normalized.Name,
		Email:    normalized.Email,
		Password: normalized.Password,
		RoleName: normalized.RoleName,
		Phone:    normalized.Phone,
	}))
}

// UpdateUser replaces an account's profile. Administrators only.
func (s *DirectoryService) UpdateUser(ctx context.Context, principal Principal, userID string, input UserInput) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "UpdateUser", "principal_id", principal.UserID, "user_id", userID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated")
	}()

	if !principal.Is(session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		err = ErrNotFound
		return
	}
	normalized, vErr := validateUserInput(input, false)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	return mapBackendError(s.directory.UpdateUser(ctx, domain.User{
		ID:       userID,
		Name:     normalized.Name,
		Email:    normalized.Email,
		RoleName: normalized.RoleName,
		Phone:    normalized.Phone,
	}))
}

// DeleteUser removes an account other than the principal's own.
func (s *DirectoryService) DeleteUser(ctx context.Context, principal Principal, userID string) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	logger := s.loggerWith(ctx, "DeleteUser", "principal_id", principal.UserID, "user_id", userID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	if !principal.Is(session.RoleAdmin) {
		err = ErrUnauthorized
		return
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		err = ErrNotFound
		return
	}
	if userID == principal.UserID {
		err = &ValidationError{FieldErrors: map[string]string{"user_id": "You cannot delete your own account."}}
		return
	}
	return mapBackendError(s.directory.DeleteUser(ctx, userID))
}

// ListSpeakers returns every speaker in name order.
func (s *DirectoryService) ListSpeakers(ctx context.Context, principal Principal) ([]domain.Speaker, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !principal.Role.Valid() {
		return nil, ErrUnauthorized
	}
	speakers, err := s.directory.ListSpeakers(ctx)
	if err != nil {
		return nil, mapBackendError(err)
	}
	sort.SliceStable(speakers, func(i, j int) bool {
		return strings.ToLower(speakers[i].Name) < strings.ToLower(speakers[j].Name)
	})
	return speakers, nil
}

func validateSpeakerInput(input SpeakerInput) (domain.Speaker, *ValidationError) {
	speaker := domain.Speaker{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
		Bio:   strings.TrimSpace(input.Bio),
	}
	vErr := &ValidationError{}
	if speaker.Name == "" {
		vErr.add("name", "Name is required.")
	}
	if speaker.Email != "" {
		if _, err := mail.ParseAddress(speaker.Email); err != nil {
			vErr.add("email", "Enter a valid email address.")
		}
	}
	return speaker, vErr
}

// SaveSpeaker creates a speaker, or updates it when speakerID is set.
// Administrators and organizers only.
func (s *DirectoryService) SaveSpeaker(ctx context.Context, principal Principal, speakerID string, input SpeakerInput) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	speakerID = strings.TrimSpace(speakerID)
	logger := s.loggerWith(ctx, "SaveSpeaker", "principal_id", principal.UserID, "speaker_id", speakerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to save speaker", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "speaker saved")
	}()

	if !principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		err = ErrUnauthorized
		return
	}
	speaker, vErr := validateSpeakerInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if speakerID == "" {
		return mapBackendError(s.directory.CreateSpeaker(ctx, speaker))
	}
	speaker.ID = speakerID
	return mapBackendError(s.directory.UpdateSpeaker(ctx, speaker))
}

// DeleteSpeaker removes a speaker. Administrators and organizers only.
func (s *DirectoryService) DeleteSpeaker(ctx context.Context, principal Principal, speakerID string) (err error) {
	if err = s.ready(); err != nil {
		return
	}
	if !principal.Is(session.RoleAdmin, session.RoleOrganizer) {
		return ErrUnauthorized
	}
	speakerID = strings.TrimSpace(speakerID)
	if speakerID == "" {
		return ErrNotFound
	}
	if err = mapBackendError(s.directory.DeleteSpeaker(ctx, speakerID)); err != nil {
		s.loggerWith(ctx, "DeleteSpeaker", "principal_id", principal.UserID, "speaker_id", speakerID).
			ErrorContext(ctx, "failed to delete speaker", "error", err, "error_kind", ErrorKind(err))
	}
	return err
}
