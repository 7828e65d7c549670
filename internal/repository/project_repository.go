// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"github.com/AmitMalivad/social-media-post-generator-tool/internal/model"
	"gorm.io/gorm"
)

// ProjectRepository 接口定义了项目记录的持久化操作。
// 项目记录只增不改，不提供更新和删除。
type ProjectRepository interface {
	Create(project *model.Project) error
	FindByID(projectID uint) (*model.Project, error)
	FindAll() ([]model.Project, error)
}

// projectRepository 是 ProjectRepository 接口的 GORM 实现。
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建一个新的 ProjectRepository 实例。
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create 在数据库中创建一条新的项目记录，ID 由数据库回填。
func (r *projectRepository) Create(project *model.Project) error {
	return r.db.Create(project).Error
}

// FindByID 根据 ID 从数据库中查找一条项目记录。
func (r *projectRepository) FindByID(projectID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.First(&project, projectID).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindAll 按创建时间倒序检索所有项目记录。
func (r *projectRepository) FindAll() ([]model.Project, error) {
	var projects []model.Project
	err := r.db.Order("created_at desc").Find(&projects).Error
	return projects, err
}
