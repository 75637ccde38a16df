package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecodeclub/ekit/slice"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	appuser "github.com/xiebiao/sbooks/internal/application/user"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	"github.com/xiebiao/sbooks/internal/domain/user"
	"github.com/xiebiao/sbooks/internal/infrastructure/config"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// ErrSelfOperation 管理员不能停用或删除自己
var ErrSelfOperation = apperrors.Invalid("不能对当前登录账号执行该操作")

// ManageUserUseCase 用户管理：列表、启用/停用、分配角色、删除
type ManageUserUseCase struct {
	users    user.Service
	recorder *appaudit.Recorder
	cfg      config.CatalogConfig
}

func NewManageUserUseCase(users user.Service, recorder *appaudit.Recorder, cfg config.CatalogConfig) *ManageUserUseCase {
	return &ManageUserUseCase{users: users, recorder: recorder, cfg: cfg}
}

type ListUsersRequest struct {
	Keyword  string // 用户名或邮箱，模糊匹配
	Page     int
	PageSize int
}

func (uc *ManageUserUseCase) List(ctx context.Context, actor *identity.Principal, req ListUsersRequest) (*shared.Result[appuser.UserInfo], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	page := shared.Normalize(req.Page, req.PageSize, uc.cfg.DefaultPageSize, uc.cfg.MaxPageSize)
	rows, total, err := uc.users.List(ctx, req.Keyword, page)
	if err != nil {
		return nil, err
	}
	items := slice.Map(rows, func(_ int, u *user.User) appuser.UserInfo { return appuser.NewUserInfo(u) })
	return shared.NewResult(items, total, page), nil
}

func (uc *ManageUserUseCase) SetActive(ctx context.Context, actor *identity.Principal, id uint, active bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID && !active {
		return ErrSelfOperation
	}
	if err := uc.users.SetActive(ctx, id, active); err != nil {
		return err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("set user %d active=%t", id, active))
	return nil
}

func (uc *ManageUserUseCase) AssignRoles(ctx context.Context, actor *identity.Principal, id uint, roles []string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := uc.users.AssignRoles(ctx, id, roles); err != nil {
		return err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("assign user %d roles=%s", id, strings.Join(roles, ",")))
	return nil
}

// Delete 用户拥有图书、评论或收藏时拒绝删除，搜索和活动日志随用户删除
func (uc *ManageUserUseCase) Delete(ctx context.Context, actor *identity.Principal, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return ErrSelfOperation
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("delete user %d", id))
	return nil
}
