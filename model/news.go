package model

import (
	"github.com/Laisky/errors/v2"

	"github.com/widgetly/chat-api/common/helper"
)

const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
	NewsStatusArchived  = "archived"
)

// News is announcement content shown to customers. A draft with a PublishAt
// instant gets promoted by the scheduled publish sweep.
type News struct {
	Id      int    `json:"id"`
	Title   string `json:"title" gorm:"index"`
	Content string `json:"content" gorm:"type:text"`
	Status  string `json:"status" gorm:"type:varchar(16);default:'draft';index"`
	// PublishAt is a Unix second; nil means the draft is published by hand only.
	PublishAt *int64 `json:"publish_at" gorm:"bigint"`
	CreatedBy int    `json:"created_by" gorm:"index"`
	CreatedAt int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (n *News) Insert() error {
	if n.Status == "" {
		n.Status = NewsStatusDraft
	}
	return errors.Wrap(DB.Create(n).Error, "create news")
}

func (n *News) Update() error {
	err := DB.Model(n).Select("title", "content", "status", "publish_at").Updates(n).Error
	return errors.Wrapf(err, "update news %d", n.Id)
}

func (n *News) Delete() error {
	if n.Id == 0 {
		return errors.New("news id is empty")
	}
	return errors.Wrapf(DB.Delete(n).Error, "delete news %d", n.Id)
}

func GetNewsById(id int) (*News, error) {
	if id == 0 {
		return nil, errors.New("news id is empty")
	}
	var news News
	if err := DB.First(&news, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get news by id %d", id)
	}
	return &news, nil
}

func GetAllNews(startIdx int, num int) ([]*News, error) {
	var news []*News
	err := DB.Order("id desc").Limit(num).Offset(startIdx).Find(&news).Error
	return news, errors.Wrap(err, "list news")
}

// GetPublishedNews is the public listing consumed by widgets and customer
// dashboards.
func GetPublishedNews(startIdx int, num int) ([]*News, error) {
	var news []*News
	err := DB.Where("status = ?", NewsStatusPublished).
		Order("id desc").Limit(num).Offset(startIdx).Find(&news).Error
	return news, errors.Wrap(err, "list published news")
}

// PublishScheduledNews promotes every draft whose scheduled publish instant
// has arrived, in one bulk update. Idempotent and self-healing: the predicate
// persists until satisfied, so a failed or missed run is covered by the next
// tick.
func PublishScheduledNews() (int64, error) {
	result := DB.Model(&News{}).
		Where("status = ? AND publish_at IS NOT NULL AND publish_at <= ?", NewsStatusDraft, helper.GetTimestamp()).
		Update("status", NewsStatusPublished)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "publish scheduled news")
	}
	return result.RowsAffected, nil
}
