package model

import (
	"github.com/Laisky/errors/v2"

	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/common/random"
)

const (
	ChatStatusOpen   = 1 // don't use 0, 0 is the default value!
	ChatStatusClosed = 2
)

// Chat is one end-user conversation inside a widget, scoped to the API key
// that embeds it. Uses an opaque string id so widget clients cannot walk
// other keys' conversations.
type Chat struct {
	Id       string `json:"id" gorm:"type:char(32);primaryKey"`
	ApiKeyId string `json:"api_key_id" gorm:"type:varchar(64);index"`
	Status   int    `json:"status" gorm:"type:int;default:1"`
	// StartedAt/ClosedAt are Unix seconds; their difference is the completed
	// chat duration fed into the statistics extrema.
	StartedAt int64 `json:"started_at" gorm:"bigint"`
	ClosedAt  int64 `json:"closed_at" gorm:"bigint;default:0"`
	CreatedAt int64 `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt int64 `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (c *Chat) Insert() error {
	if c.Id == "" {
		c.Id = random.GetUUID()
	}
	if c.StartedAt == 0 {
		c.StartedAt = helper.GetTimestamp()
	}
	if c.Status == 0 {
		c.Status = ChatStatusOpen
	}
	return errors.Wrap(DB.Create(c).Error, "create chat")
}

func GetChatById(id string, apiKeyId string) (*Chat, error) {
	if id == "" {
		return nil, errors.New("chat id is empty")
	}
	var chat Chat
	err := DB.First(&chat, "id = ? AND api_key_id = ?", id, apiKeyId).Error
	if err != nil {
		return nil, errors.Wrapf(err, "get chat %s", id)
	}
	return &chat, nil
}

func GetAllChats(apiKeyId string, startIdx int, num int) ([]*Chat, error) {
	var chats []*Chat
	err := DB.Where("api_key_id = ?", apiKeyId).
		Order("started_at desc").Limit(num).Offset(startIdx).Find(&chats).Error
	return chats, errors.Wrap(err, "list chats")
}

// Close marks the chat completed and returns its duration in seconds.
// The update is conditional on the row still being open, so of any number of
// concurrent or duplicate closes exactly one succeeds and the completion
// event enters the statistics exactly once.
func (c *Chat) Close() (int64, error) {
	now := helper.GetTimestamp()
	result := DB.Model(c).
		Where("status = ?", ChatStatusOpen).
		Updates(map[string]any{
			"status":    ChatStatusClosed,
			"closed_at": now,
		})
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "close chat %s", c.Id)
	}
	if result.RowsAffected == 0 {
		return 0, errors.Errorf("chat %s is already closed", c.Id)
	}
	c.Status = ChatStatusClosed
	c.ClosedAt = now
	duration := now - c.StartedAt
	if duration < 0 {
		duration = 0
	}
	return duration, nil
}

func (c *Chat) Delete() error {
	if c.Id == "" {
		return errors.New("chat id is empty")
	}
	if err := DB.Where("chat_id = ?", c.Id).Delete(&Message{}).Error; err != nil {
		return errors.Wrapf(err, "delete messages of chat %s", c.Id)
	}
	return errors.Wrapf(DB.Delete(c).Error, "delete chat %s", c.Id)
}
