// Package admin 管理后台用例，每个操作都要求Admin角色
package admin

import (
	"context"
	"fmt"

	appaudit "github.com/xiebiao/sbooks/internal/application/audit"
	appcatalog "github.com/xiebiao/sbooks/internal/application/catalog"
	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/internal/domain/author"
	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/publisher"
)

func requireAdmin(actor *identity.Principal) error {
	return identity.RequireRole(actor, identity.RoleAdmin)
}

// ManageAuthorUseCase 作者维护，有图书引用时拒绝删除
type ManageAuthorUseCase struct {
	authors  author.Service
	recorder *appaudit.Recorder
}

func NewManageAuthorUseCase(authors author.Service, recorder *appaudit.Recorder) *ManageAuthorUseCase {
	return &ManageAuthorUseCase{authors: authors, recorder: recorder}
}

type AuthorRequest struct {
	Name string
	Bio  string
}

func (uc *ManageAuthorUseCase) Create(ctx context.Context, actor *identity.Principal, req AuthorRequest) (*appcatalog.AuthorItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	a, err := uc.authors.Create(ctx, req.Name, req.Bio)
	if err != nil {
		return nil, err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("create author %d", a.ID))
	return &appcatalog.AuthorItem{ID: a.ID, Name: a.Name, Bio: a.Bio}, nil
}

func (uc *ManageAuthorUseCase) Update(ctx context.Context, actor *identity.Principal, id uint, req AuthorRequest) (*appcatalog.AuthorItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	a, err := uc.authors.Update(ctx, id, req.Name, req.Bio)
	if err != nil {
		return nil, err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("update author %d", id))
	return &appcatalog.AuthorItem{ID: a.ID, Name: a.Name, Bio: a.Bio}, nil
}

func (uc *ManageAuthorUseCase) Delete(ctx context.Context, actor *identity.Principal, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := uc.authors.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("delete author %d", id))
	return nil
}

// ManagePublisherUseCase 出版社维护，有图书引用时拒绝删除
type ManagePublisherUseCase struct {
	publishers publisher.Service
	recorder   *appaudit.Recorder
}

func NewManagePublisherUseCase(publishers publisher.Service, recorder *appaudit.Recorder) *ManagePublisherUseCase {
	return &ManagePublisherUseCase{publishers: publishers, recorder: recorder}
}

type PublisherRequest struct {
	Name    string
	Website string
}

func (uc *ManagePublisherUseCase) Create(ctx context.Context, actor *identity.Principal, req PublisherRequest) (*appcatalog.PublisherItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p, err := uc.publishers.Create(ctx, req.Name, req.Website)
	if err != nil {
		return nil, err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("create publisher %d", p.ID))
	return &appcatalog.PublisherItem{ID: p.ID, Name: p.Name, Website: p.Website}, nil
}

func (uc *ManagePublisherUseCase) Update(ctx context.Context, actor *identity.Principal, id uint, req PublisherRequest) (*appcatalog.PublisherItem, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p, err := uc.publishers.Update(ctx, id, req.Name, req.Website)
	if err != nil {
		return nil, err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("update publisher %d", id))
	return &appcatalog.PublisherItem{ID: p.ID, Name: p.Name, Website: p.Website}, nil
}

func (uc *ManagePublisherUseCase) Delete(ctx context.Context, actor *identity.Principal, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := uc.publishers.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Activity(ctx, actor.UserID, audit.ActivityAdmin, fmt.Sprintf("delete publisher %d", id))
	return nil
}
