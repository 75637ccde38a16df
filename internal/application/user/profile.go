package user

import (
	"context"

	"golang.org/x/sync/errgroup"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/favorite"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/review"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/domain/user"
)

// ProfileStats 个人主页统计
type ProfileStats struct {
	Favorites  int64 `json:"favorites"`
	Reviews    int64 `json:"reviews"` // 含回复
	Searches   int64 `json:"searches"`
	Activities int64 `json:"activities"`
}

// ProfileResponse 个人资料 + 统计
type ProfileResponse struct {
	User  UserInfo     `json:"user"`
	Stats ProfileStats `json:"stats"`
}

// GetProfileUseCase 个人主页，各项统计并发查询
type GetProfileUseCase struct {
	userService user.Service
	favorites   favorite.Repository
	reviews     review.Service
	audits      audit.Repository
}

func NewGetProfileUseCase(userService user.Service, favorites favorite.Repository, reviews review.Service, audits audit.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService, favorites: favorites, reviews: reviews, audits: audits}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, actor *identity.Principal) (*ProfileResponse, error) {
	userID, err := identity.RequireUser(actor)
	if err != nil {
		return nil, err
	}
	u, err := uc.userService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var stats ProfileStats
	first := shared.Page{Page: 1, PageSize: 1}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Favorites, err = uc.favorites.CountByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		_, stats.Reviews, err = uc.reviews.ListByUser(gctx, userID, first)
		return err
	})
	g.Go(func() error {
		var err error
		_, stats.Searches, err = uc.audits.SearchesByUser(gctx, userID, first)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Activities, err = uc.audits.CountActivities(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ProfileResponse{User: NewUserInfo(u), Stats: stats}, nil
}

// UpdateProfileUseCase 修改姓名、邮箱（空值不修改）
type UpdateProfileUseCase struct {
	userService user.Service
	recorder    *appaudit.Recorder
}

func NewUpdateProfileUseCase(userService user.Service, recorder *appaudit.Recorder) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService, recorder: recorder}
}

type UpdateProfileRequest struct {
	FullName string
	Email    string
	Actor    *identity.Principal
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, req UpdateProfileRequest) (*UserInfo, error) {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return nil, err
	}
	u, err := uc.userService.UpdateProfile(ctx, userID, req.FullName, req.Email)
	if err != nil {
		return nil, err
	}
	uc.recorder.Activity(ctx, userID, audit.ActivityProfileUpdate, "")
	info := NewUserInfo(u)
	return &info, nil
}

// ChangePasswordUseCase 修改密码，需要验证当前密码
type ChangePasswordUseCase struct {
	userService user.Service
	recorder    *appaudit.Recorder
}

func NewChangePasswordUseCase(userService user.Service, recorder *appaudit.Recorder) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{userService: userService, recorder: recorder}
}

type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
	Actor           *identity.Principal
}

func (uc *ChangePasswordUseCase) Execute(ctx context.Context, req ChangePasswordRequest) error {
	userID, err := identity.RequireUser(req.Actor)
	if err != nil {
		return err
	}
	if err := uc.userService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	uc.recorder.Activity(ctx, userID, audit.ActivityPasswordChange, "")
	return nil
}
