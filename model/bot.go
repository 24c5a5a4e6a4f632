package model

import (
	"github.com/Laisky/errors/v2"
)

// Bot holds the per-customer chat assistant configuration rendered into the
// embedded widget: model settings plus visual customization.
type Bot struct {
	Id          int     `json:"id"`
	UserId      int     `json:"user_id" gorm:"index"`
	Name        string  `json:"name" gorm:"index"`
	Model       string  `json:"model" gorm:"default:''"`
	Prompt      string  `json:"prompt" gorm:"type:text"`
	Greeting    string  `json:"greeting" gorm:"type:text"`
	Temperature float64 `json:"temperature" gorm:"default:0.7"`
	// Customization is an opaque JSON blob (colors, avatar, position) the
	// widget frontend interprets; the backend only stores it.
	Customization string `json:"customization" gorm:"type:text"`
	CreatedAt     int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt     int64  `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (b *Bot) Insert() error {
	return errors.Wrap(DB.Create(b).Error, "create bot")
}

func (b *Bot) Update() error {
	err := DB.Model(b).Select("name", "model", "prompt", "greeting", "temperature", "customization").Updates(b).Error
	return errors.Wrapf(err, "update bot %d", b.Id)
}

func (b *Bot) Delete() error {
	if b.Id == 0 {
		return errors.New("bot id is empty")
	}
	return errors.Wrapf(DB.Delete(b).Error, "delete bot %d", b.Id)
}

func GetBotById(id int) (*Bot, error) {
	if id == 0 {
		return nil, errors.New("bot id is empty")
	}
	var bot Bot
	if err := DB.First(&bot, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get bot by id %d", id)
	}
	return &bot, nil
}

func GetAllBots(userId int, startIdx int, num int) ([]*Bot, error) {
	var bots []*Bot
	query := DB.Order("id desc")
	if userId != 0 {
		query = query.Where("user_id = ?", userId)
	}
	err := query.Limit(num).Offset(startIdx).Find(&bots).Error
	return bots, errors.Wrap(err, "list bots")
}

func GetBotCount(userId int) (int64, error) {
	var count int64
	query := DB.Model(&Bot{})
	if userId != 0 {
		query = query.Where("user_id = ?", userId)
	}
	err := query.Count(&count).Error
	return count, errors.Wrap(err, "count bots")
}
