package relay

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/widgetly/chat-api/common/config"
	"github.com/widgetly/chat-api/model"
)

// AnswerGenerator produces assistant replies through an OpenAI-compatible
// upstream. The rest of the service treats it as a black box that returns
// text plus the token usage billed into the statistics.
type AnswerGenerator struct {
	client *openai.Client
}

// Answer is one generated reply and the tokens it cost.
type Answer struct {
	Content string
	Tokens  int64
}

func NewAnswerGenerator() *AnswerGenerator {
	cfg := openai.DefaultConfig(config.OpenAIAPIKey)
	if config.OpenAIBaseURL != "" {
		cfg.BaseURL = config.OpenAIBaseURL
	}
	return &AnswerGenerator{client: openai.NewClientWithConfig(cfg)}
}

// Generate asks the upstream for the next assistant message given the bot
// configuration and the recent conversation. The bot's system prompt leads,
// then history in order; operator messages ride along as user turns so the
// model keeps the full conversational context.
func (g *AnswerGenerator) Generate(ctx context.Context, bot *model.Bot, history []*model.Message) (*Answer, error) {
	chatModel := bot.Model
	if chatModel == "" {
		chatModel = config.ChatModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if bot.Prompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: bot.Prompt,
		})
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.Role == model.MessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(config.ChatCompletionTimeout)*time.Second)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: float32(bot.Temperature),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "chat completion: model=%s", chatModel)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return &Answer{
		Content: resp.Choices[0].Message.Content,
		Tokens:  int64(resp.Usage.TotalTokens),
	}, nil
}
