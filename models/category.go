package models

import (
	"time"
)

// Category 消费类别，归属单个用户，(name, user_id) 唯一
// name 使用二进制排序规则，唯一性区分大小写
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin;not null;uniqueIndex:unique_category_user,priority:1"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:unique_category_user,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryTotal 单个类别的支出合计
type CategoryTotal struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Total Amount `json:"total"`
}
