package services

import (
	"context"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// UserListOptions filters the admin user list
type UserListOptions struct {
	Page       int
	PageSize   int
	SearchTerm string
	Banned     *bool
}

type UserService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewUserService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *UserService {
	return &UserService{logger: logger, db: db, cacheService: cacheService}
}

func (us *UserService) ListUsers(ctx context.Context, opts *UserListOptions) (*database.PaginationResult[tables.User], error) {
	query := database.Query[tables.User](us.db).OrderBy("created_at", database.DESC)
	if opts.Banned != nil {
		query = query.Where("banned", *opts.Banned)
	}
	if term := lib.SanitizeString(opts.SearchTerm, true, false); term != "" {
		pattern := "%" + lib.EscapeLike(term) + "%"
		query = query.WhereRaw("(username ILIKE ? OR email ILIKE ?)", pattern, pattern)
	}

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		us.logger.Error("Failed to list users", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	return result, nil
}

func (us *UserService) getUser(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	user, err := database.Query[tables.User](us.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	return user, nil
}

// checkBan rejects banning yourself or any admin
func checkBan(actorID uuid.UUID, target *tables.User) error {
	if actorID == target.Id || target.IsAdmin() {
		return lib.ErrCannotModerateAdmin
	}
	return nil
}

// BanUser blocks a user from logging in and from every authenticated route. Admins cannot be banned.
func (us *UserService) BanUser(ctx context.Context, actorID, targetID uuid.UUID, reason string) (*tables.User, error) {
	if actorID == targetID {
		return nil, lib.ErrCannotModerateAdmin
	}
	user, err := us.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := checkBan(actorID, user); err != nil {
		return nil, err
	}

	now := time.Now()
	reason = lib.SanitizeString(reason, true, false)
	if _, err := database.Query[tables.User](us.db).
		Where("id", targetID).
		Update(ctx, map[string]any{"banned": true, "banned_reason": reason, "banned_at": now}); err != nil {
		us.logger.Error("Failed to ban user", gecho.Field("error", err), gecho.Field("user_id", targetID))
		return nil, lib.MapPgError(err)
	}

	us.syncCache(ctx, targetID, true)
	us.logger.Info("User banned", gecho.Field("user_id", targetID), gecho.Field("by", actorID))

	user.Banned = true
	user.BannedReason = reason
	user.BannedAt = &now
	return user, nil
}

func (us *UserService) UnbanUser(ctx context.Context, targetID uuid.UUID) (*tables.User, error) {
	user, err := us.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if _, err := database.Query[tables.User](us.db).
		Where("id", targetID).
		Update(ctx, map[string]any{"banned": false, "banned_reason": "", "banned_at": nil}); err != nil {
		us.logger.Error("Failed to unban user", gecho.Field("error", err), gecho.Field("user_id", targetID))
		return nil, lib.MapPgError(err)
	}

	us.syncCache(ctx, targetID, false)
	us.logger.Info("User unbanned", gecho.Field("user_id", targetID))

	user.Banned = false
	user.BannedReason = ""
	user.BannedAt = nil
	return user, nil
}

func (us *UserService) syncCache(ctx context.Context, userID uuid.UUID, banned bool) {
	if err := us.cacheService.SetBanFlag(ctx, userID, banned); err != nil {
		us.logger.Warn("Failed to update ban flag", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
	if err := us.cacheService.InvalidateUser(ctx, userID); err != nil {
		us.logger.Warn("Failed to invalidate user cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
}
