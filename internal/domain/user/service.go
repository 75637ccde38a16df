package user

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/sbooks/internal/domain/identity"
	"github.com/xiebiao/sbooks/internal/domain/shared"
	apperrors "github.com/xiebiao/sbooks/pkg/errors"
)

// HashCost bcrypt开销参数，测试中可调低
var HashCost = 12

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Service 用户领域服务
type Service interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)

	// Authenticate 按邮箱或用户名登录，停用账号返回ErrUserDisabled
	Authenticate(ctx context.Context, login, password string) (*User, error)

	Get(ctx context.Context, id uint) (*User, error)

	ChangePassword(ctx context.Context, id uint, current, next string) error

	UpdateProfile(ctx context.Context, id uint, fullName, email string) (*User, error)

	SetActive(ctx context.Context, id uint, active bool) error

	AssignRoles(ctx context.Context, id uint, roles []string) error

	// Delete 用户拥有图书、评论或收藏时返回ErrDependencyExists，不做任何修改
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, keyword string, page shared.Page) ([]*User, int64, error)
}

type service struct {
	repo Repository
	tx   shared.Transactor
}

// NewService 创建用户服务
func NewService(repo Repository, tx shared.Transactor) Service {
	return &service{repo: repo, tx: tx}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if !usernamePattern.MatchString(in.Username) {
		return nil, apperrors.Invalid("用户名需为3-50位字母、数字或下划线")
	}
	if !isValidEmail(in.Email) {
		return nil, apperrors.Invalid("邮箱格式不正确")
	}
	if err := validatePasswordStrength(in.Password); err != nil {
		return nil, err
	}
	if len([]rune(in.FullName)) > 100 {
		return nil, apperrors.Invalid("姓名不能超过100个字符")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := NewUser(in.Username, in.Email, hash, in.FullName)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, login, password string) (*User, error) {
	u, err := s.repo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// 不区分账号不存在和密码错误
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperrors.ErrUserDisabled
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ChangePassword(ctx context.Context, id uint, current, next string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := verifyPassword(u.PasswordHash, current); err != nil {
		return err
	}
	if err := validatePasswordStrength(next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.repo.Update(ctx, u)
}

func (s *service) UpdateProfile(ctx context.Context, id uint, fullName, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email != "" && !isValidEmail(email) {
		return nil, apperrors.Invalid("邮箱格式不正确")
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.UpdateProfile(strings.TrimSpace(fullName), email)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) SetActive(ctx context.Context, id uint, active bool) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.IsActive = active
	return s.repo.Update(ctx, u)
}

func (s *service) AssignRoles(ctx context.Context, id uint, roles []string) error {
	if len(roles) == 0 {
		return apperrors.Invalid("至少需要一个角色")
	}
	for _, r := range roles {
		if !slices.Contains(identity.KnownRoles, r) {
			return apperrors.Invalid("未知角色: " + r)
		}
	}
	slices.Sort(roles)
	roles = slices.Compact(roles)

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		return s.repo.SetRoles(ctx, id, roles)
	})
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		deps, err := s.repo.CountDependents(ctx, id)
		if err != nil {
			return err
		}
		if deps.Any() {
			return apperrors.ErrDependencyExists
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *service) List(ctx context.Context, keyword string, page shared.Page) ([]*User, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, strings.TrimSpace(keyword), page)
}

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validatePasswordStrength 8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hash), nil
}

func verifyPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrInvalidPassword
	}
	return apperrors.Wrap(err, "密码验证失败")
}
