// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"gorm.io/gorm"
)

// PostRepository 接口定义了生成帖子的持久化操作。
type PostRepository interface {
	// CreateBatch 在一个事务中写入一批帖子；任何一条失败则整批回滚。
	CreateBatch(posts []model.GeneratedPost) error
	FindByProjectID(projectID uint) ([]model.GeneratedPost, error)
}

// postRepository 是 PostRepository 接口的 GORM 实现。
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建一个新的 PostRepository 实例。
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreateBatch 把同一次请求产出的帖子整批写库。
func (r *postRepository) CreateBatch(posts []model.GeneratedPost) error {
	if len(posts) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&posts).Error
	})
}

// FindByProjectID 按 post_number 升序检索一个项目下的所有帖子。
func (r *postRepository) FindByProjectID(projectID uint) ([]model.GeneratedPost, error) {
	var posts []model.GeneratedPost
	err := r.db.Where("project_id = ?", projectID).Order("post_number asc").Find(&posts).Error
	return posts, err
}
