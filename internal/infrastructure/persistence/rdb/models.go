package rdb

import (
	"time"
)

// 以下为infrastructure层的GORM模型，领域实体不带任何ORM tag，由仓储负责转换
// 关联关系不用GORM association表达，级联删除由仓储在事务内显式完成

// UserModel 用户
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Email        string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码（bcrypt哈希）"`
	FullName     string    `gorm:"size:100;not null;comment:姓名"`
	IsActive     bool      `gorm:"not null;comment:是否启用"`
	CreatedAt    time.Time `gorm:"comment:注册时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// RoleModel 角色
type RoleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:20;not null;comment:角色名"`
}

func (RoleModel) TableName() string {
	return "roles"
}

// UserRoleModel 用户-角色多对多
type UserRoleModel struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
	RoleID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (UserRoleModel) TableName() string {
	return "user_roles"
}

// AuthorModel 作者
type AuthorModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"index;size:100;not null;comment:作者名"`
	Bio       string    `gorm:"type:text;comment:简介"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// PublisherModel 出版社
type PublisherModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"index;size:100;not null;comment:出版社名称"`
	Website   string    `gorm:"size:255;comment:网站"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (PublisherModel) TableName() string {
	return "publishers"
}

// BookModel 图书
// 价格以"分"为单位；作者、出版社、创建人可为空
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"index;size:200;not null;comment:书名"`
	Description   string    `gorm:"type:text;comment:简介"`
	PublishedYear int       `gorm:"index;comment:出版年份"`
	Genre         string    `gorm:"index;size:50;not null;default:'';comment:分类"`
	Price         int64     `gorm:"index;not null;default:0;comment:价格(分)"`
	ViewCount     int64     `gorm:"index;not null;default:0;comment:浏览次数"`
	ImageURL      string    `gorm:"size:500;comment:封面图片URL"`
	AuthorID      *uint     `gorm:"index;comment:作者ID"`
	PublisherID   *uint     `gorm:"index;comment:出版社ID"`
	CreatedBy     *uint     `gorm:"index;comment:创建人用户ID"`
	CreatedAt     time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

func (BookModel) TableName() string {
	return "books"
}

// ReviewModel 评论
// TopLevelKey 顶层评论为"<book_id>:<user_id>"，回复为NULL；
// 唯一索引允许多个NULL，从而只约束顶层评论
type ReviewModel struct {
	ID             uint      `gorm:"primaryKey"`
	BookID         uint      `gorm:"index;not null;comment:图书ID"`
	UserID         uint      `gorm:"index;not null;comment:评论人ID"`
	ParentReviewID *uint     `gorm:"index;comment:父评论ID（顶层评论为空）"`
	TopLevelKey    *string   `gorm:"uniqueIndex;size:64;comment:顶层评论唯一键"`
	Comment        string    `gorm:"type:text;comment:评论内容"`
	Rating         *int      `gorm:"comment:评分1-5（回复为空）"`
	LikeCount      int64     `gorm:"not null;default:0;comment:点赞数"`
	DislikeCount   int64     `gorm:"not null;default:0;comment:点踩数"`
	CreatedAt      time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// ReviewVoteModel 评论投票，(user_id, review_id)为主键
type ReviewVoteModel struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	ReviewID  uint      `gorm:"primaryKey;autoIncrement:false;index"`
	VoteType  int8      `gorm:"not null;comment:1点赞 -1点踩"`
	CreatedAt time.Time `gorm:"comment:投票时间"`
}

func (ReviewVoteModel) TableName() string {
	return "review_votes"
}

// FavoriteModel 收藏，(user_id, book_id)为主键
type FavoriteModel struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	BookID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"index;comment:收藏时间"`
}

func (FavoriteModel) TableName() string {
	return "favorites"
}

// SearchLogModel 搜索日志（只追加）
type SearchLogModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"index;comment:用户ID（匿名为空）"`
	Query     string    `gorm:"size:255;not null;comment:搜索词"`
	CreatedAt time.Time `gorm:"index;comment:搜索时间"`
}

func (SearchLogModel) TableName() string {
	return "search_logs"
}

// ActivityLogModel 用户活动日志（只追加）
type ActivityLogModel struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null;comment:用户ID"`
	ActivityType string    `gorm:"index;size:32;not null;comment:活动类型"`
	Detail       string    `gorm:"size:500;comment:详情"`
	CreatedAt    time.Time `gorm:"index;comment:发生时间"`
}

func (ActivityLogModel) TableName() string {
	return "activity_logs"
}
