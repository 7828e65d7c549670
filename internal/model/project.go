// Package model 定义了与数据库表对应的 Go 结构体。
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Project 对应于数据库中的 'projects' 表。
// 每次生成请求都会落一条项目记录，只增不改。
type Project struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessName string    `gorm:"type:varchar(255);not null" json:"businessName"`
	Industry     string    `gorm:"type:varchar(255);not null" json:"industry"`
	Goal         string    `gorm:"type:varchar(100);not null" json:"goal"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Project) TableName() string {
	return "projects"
}

// GeneratedPost 对应于数据库中的 'generated_posts' 表。
// 一条记录是一个项目下的一篇已归一化的帖子草稿。
type GeneratedPost struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID        uint       `gorm:"index;not null" json:"projectId"`
	PostNumber       int        `gorm:"not null" json:"postNumber"`
	Caption          string     `gorm:"type:varchar(2000);not null" json:"caption"`
	InstagramVersion string     `gorm:"type:varchar(2000);not null" json:"instagramVersion"`
	LinkedinVersion  string     `gorm:"type:varchar(2000);not null" json:"linkedinVersion"`
	FacebookVersion  string     `gorm:"type:varchar(2000);not null" json:"facebookVersion"`
	Hashtags         StringList `gorm:"type:json;not null" json:"hashtags"`
	CTA              string     `gorm:"type:varchar(500);not null" json:"cta"`
	ImagePrompt      string     `gorm:"type:varchar(2000);not null" json:"imagePrompt"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (GeneratedPost) TableName() string {
	return "generated_posts"
}

// StringList 把有序的字符串列表以 JSON 形式存入单列。
type StringList []string

// Value 实现 driver.Valuer 接口，序列化为 JSON 写库。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner 接口，从 JSON 列还原列表。
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	return json.Unmarshal(data, l)
}
