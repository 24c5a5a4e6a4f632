package model

import (
	"github.com/Laisky/errors/v2"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleOperator  = "operator"
)

// Message is one utterance inside a chat. Role mirrors the statistics
// message origins: end user, assistant (bot), or human operator.
type Message struct {
	Id        int    `json:"id"`
	ChatId    string `json:"chat_id" gorm:"type:char(32);index"`
	Role      string `json:"role" gorm:"type:varchar(16)"`
	Content   string `json:"content" gorm:"type:text"`
	Tokens    int64  `json:"tokens" gorm:"bigint;default:0"`
	CreatedAt int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
}

func (m *Message) Insert() error {
	return errors.Wrap(DB.Create(m).Error, "create message")
}

func GetChatMessages(chatId string, startIdx int, num int) ([]*Message, error) {
	var messages []*Message
	err := DB.Where("chat_id = ?", chatId).
		Order("id asc").Limit(num).Offset(startIdx).Find(&messages).Error
	return messages, errors.Wrapf(err, "list messages of chat %s", chatId)
}

// GetRecentChatMessages returns the latest num messages in chronological
// order, for building the completion context window.
func GetRecentChatMessages(chatId string, num int) ([]*Message, error) {
	var messages []*Message
	err := DB.Where("chat_id = ?", chatId).
		Order("id desc").Limit(num).Find(&messages).Error
	if err != nil {
		return nil, errors.Wrapf(err, "load recent messages of chat %s", chatId)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
