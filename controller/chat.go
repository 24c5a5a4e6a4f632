package controller

import (
	"time"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/model"
	"github.com/widgetly/chat-api/monitor"
	"github.com/widgetly/chat-api/stats"
)

// completionHistoryLimit bounds how many recent messages feed the upstream
// context window.
const completionHistoryLimit = 20

// recordStatEvent pushes one event into the statistics engine. Recording
// failures are logged and surfaced in metrics but never fail the chat request
// itself; losing a statistic beats losing a customer conversation.
func recordStatEvent(c *gin.Context, apiKeyId string, delta stats.EventDelta) {
	if err := statsService.Record(c.Request.Context(), apiKeyId, delta); err != nil {
		monitor.ObserveStatEvent("error")
		gmw.GetLogger(c).Error("failed to record usage event",
			zap.String("key_id", apiKeyId), zap.Error(err))
		return
	}
	monitor.ObserveStatEvent("ok")
}

// GetWidgetConfig returns what the embedded widget needs to render itself.
// The bot's prompt stays server-side.
func GetWidgetConfig(c *gin.Context) {
	bot, err := model.GetBotById(c.GetInt(ctxkey.BotId))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, gin.H{
		"name":          bot.Name,
		"greeting":      bot.Greeting,
		"customization": bot.Customization,
	})
}

// CreateChat opens a conversation for the widget's key and counts it as a
// started chat. The greeting is canned content, not a generated message, so
// it does not enter the message statistics.
func CreateChat(c *gin.Context) {
	chat := model.Chat{ApiKeyId: c.GetString(ctxkey.ApiKey)}
	if err := chat.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}

	bot, err := model.GetBotById(c.GetInt(ctxkey.BotId))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	if bot.Greeting != "" {
		greeting := model.Message{
			ChatId:  chat.Id,
			Role:    model.MessageRoleAssistant,
			Content: bot.Greeting,
		}
		if err := greeting.Insert(); err != nil {
			helper.RespondError(c, err)
			return
		}
	}

	recordStatEvent(c, chat.ApiKeyId, stats.EventDelta{ChatStarted: true})
	helper.RespondData(c, chat)
}

// getWidgetChat loads the chat from :chat_id scoped to the authenticated key,
// so one widget cannot address another key's conversations.
func getWidgetChat(c *gin.Context) (*model.Chat, bool) {
	chat, err := model.GetChatById(c.Param("chat_id"), c.GetString(ctxkey.ApiKey))
	if err != nil {
		helper.RespondError(c, err)
		return nil, false
	}
	return chat, true
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostMessage stores the end user's message and generates the assistant
// reply. Three statistics events come out of one round trip: the user
// message, then the bot message with its token usage and response latency.
func PostMessage(c *gin.Context) {
	chat, ok := getWidgetChat(c)
	if !ok {
		return
	}
	if chat.Status != model.ChatStatusOpen {
		helper.RespondBadRequest(c, "chat %s is closed", chat.Id)
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondBadRequest(c, "invalid message payload: %s", err.Error())
		return
	}

	userMessage := model.Message{
		ChatId:  chat.Id,
		Role:    model.MessageRoleUser,
		Content: req.Content,
	}
	if err := userMessage.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	recordStatEvent(c, chat.ApiKeyId, stats.EventDelta{Origin: stats.OriginUser})

	bot, err := model.GetBotById(c.GetInt(ctxkey.BotId))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	history, err := model.GetRecentChatMessages(chat.Id, completionHistoryLimit)
	if err != nil {
		helper.RespondError(c, err)
		return
	}

	start := time.Now()
	answer, err := answerGen.Generate(c.Request.Context(), bot, history)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	elapsed := helper.CalcElapsedTime(start)

	botMessage := model.Message{
		ChatId:  chat.Id,
		Role:    model.MessageRoleAssistant,
		Content: answer.Content,
		Tokens:  answer.Tokens,
	}
	if err := botMessage.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	recordStatEvent(c, chat.ApiKeyId, stats.EventDelta{
		Origin:       stats.OriginBot,
		Tokens:       answer.Tokens,
		ResponseTime: stats.Int64(elapsed),
	})

	helper.RespondData(c, gin.H{
		"message":       botMessage,
		"response_time": elapsed,
	})
}

// GetWidgetChatMessages pages through the conversation transcript.
func GetWidgetChatMessages(c *gin.Context) {
	chat, ok := getWidgetChat(c)
	if !ok {
		return
	}
	startIdx, num := paginationParams(c)
	messages, err := model.GetChatMessages(chat.Id, startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, messages)
}

// CloseChat completes the conversation and records the completion with its
// duration, which feeds the lifetime extrema. Close rejects double closing,
// so the completion event cannot be recorded twice.
func CloseChat(c *gin.Context) {
	chat, ok := getWidgetChat(c)
	if !ok {
		return
	}
	duration, err := chat.Close()
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	recordStatEvent(c, chat.ApiKeyId, stats.EventDelta{
		ChatCompleted: true,
		ChatDuration:  stats.Int64(duration),
	})
	helper.RespondData(c, gin.H{"duration": duration})
}

// GetApiKeyChats lists a key's conversations for the dashboard.
func GetApiKeyChats(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	startIdx, num := paginationParams(c)
	chats, err := model.GetAllChats(apiKey.Key, startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, chats)
}

// PostOperatorMessage lets a human operator answer inside a customer's chat
// from the dashboard; counted as an operator message, no generation involved.
func PostOperatorMessage(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	chat, err := model.GetChatById(c.Param("chat_id"), apiKey.Key)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	if chat.Status != model.ChatStatusOpen {
		helper.RespondBadRequest(c, "chat %s is closed", chat.Id)
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helper.RespondBadRequest(c, "invalid message payload: %s", err.Error())
		return
	}
	message := model.Message{
		ChatId:  chat.Id,
		Role:    model.MessageRoleOperator,
		Content: req.Content,
	}
	if err := message.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	recordStatEvent(c, chat.ApiKeyId, stats.EventDelta{Origin: stats.OriginOperator})
	helper.RespondData(c, message)
}
