package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/identity"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/labqueue/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService manages staff accounts
type UserService struct {
	userRepo    identity.UserRepository
	roleRepo    identity.RoleRepository
	stationRepo queueing.StationRepository
	blacklist   auth.TokenBlacklist
	jwtService  *auth.JWTService
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	stationRepo queueing.StationRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		stationRepo: stationRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Create registers a new staff account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	}

	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password, req.FullName, role.ID)
	if err != nil {
		return nil, err
	}

	if req.StationID != nil {
		if _, err := s.stationRepo.FindByID(ctx, *req.StationID); err != nil {
			return nil, err
		}
		user.AssignStation(req.StationID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("username", user.Username),
		zap.String("role", role.Name))

	resp := ToUserResponse(user, role.Name)
	return &resp, nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, s.roleName(ctx, user.RoleID))
	return &resp, nil
}

// List returns users matching the filter with the total count
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = identity.UserStatus(filter.Status)
	}
	if filter.RoleID != nil {
		domainFilter.Filters["role_id"] = *filter.RoleID
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	roleNames := s.roleNames(ctx)
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i], roleNames[users[i].RoleID])
	}
	return responses, total, nil
}

// Search finds users by username, name or email substring
func (s *UserService) Search(ctx context.Context, term string, page, pageSize int) ([]UserResponse, error) {
	if term == "" {
		return []UserResponse{}, nil
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	users, err := s.userRepo.Search(ctx, term, filter)
	if err != nil {
		return nil, err
	}

	roleNames := s.roleNames(ctx)
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i], roleNames[users[i].RoleID])
	}
	return responses, nil
}

// Update modifies a user's mutable fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
		}
	}

	if err := user.Update(req.Email, req.FullName); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user, s.roleName(ctx, user.RoleID))
	return &resp, nil
}

// AssignStation binds a user to a workstation; a nil station unbinds
func (s *UserService) AssignStation(ctx context.Context, id uuid.UUID, req AssignStationRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StationID != nil {
		station, err := s.stationRepo.FindByID(ctx, *req.StationID)
		if err != nil {
			return nil, err
		}
		if !station.IsActive {
			return nil, shared.NewDomainError("INVALID_STATE", "Station is not active")
		}
	}

	user.AssignStation(req.StationID)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user, s.roleName(ctx, user.RoleID))
	return &resp, nil
}

// AssignRole replaces a user's role. Their tokens are invalidated so the
// old permissions stop working immediately.
func (s *UserService) AssignRole(ctx context.Context, id uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	if err := user.AssignRole(role.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.invalidateTokens(ctx, user.ID)

	resp := ToUserResponse(user, role.Name)
	return &resp, nil
}

// ResetPassword sets a user's password without the old one (admin reset)
// and invalidates their outstanding tokens.
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.invalidateTokens(ctx, user.ID)
	s.logger.Info("password reset", zap.String("username", user.Username))
	return nil
}

// Unlock clears an account lock before its timeout expires
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Unlock()
	return s.userRepo.Save(ctx, user)
}

// Deactivate disables an account and invalidates its tokens
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.invalidateTokens(ctx, user.ID)
	return nil
}

// Stats summarizes accounts by status and role
func (s *UserService) Stats(ctx context.Context) (*UserStatsResponse, error) {
	total, err := s.userRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	countByStatus := func(status identity.UserStatus) (int64, error) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = status
		return s.userRepo.Count(ctx, filter)
	}

	active, err := countByStatus(identity.UserStatusActive)
	if err != nil {
		return nil, err
	}
	locked, err := countByStatus(identity.UserStatusLocked)
	if err != nil {
		return nil, err
	}
	deactivated, err := countByStatus(identity.UserStatusDeactivated)
	if err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byRole := make(map[string]int64, len(roles))
	for i := range roles {
		count, err := s.userRepo.CountByRole(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		byRole[roles[i].Name] = count
	}

	return &UserStatsResponse{
		Total:       total,
		Active:      active,
		Locked:      locked,
		Deactivated: deactivated,
		ByRole:      byRole,
	}, nil
}

// ListRoles returns all roles
func (s *UserService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToRoleResponses(roles), nil
}

func (s *UserService) invalidateTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil || s.jwtService == nil {
		return
	}
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Warn("failed to invalidate user tokens", zap.Error(err))
	}
}

func (s *UserService) roleName(ctx context.Context, roleID uuid.UUID) string {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return ""
	}
	return role.Name
}

func (s *UserService) roleNames(ctx context.Context) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return names
	}
	for i := range roles {
		names[roles[i].ID] = roles[i].Name
	}
	return names
}
