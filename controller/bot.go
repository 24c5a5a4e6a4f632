package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/model"
)

func getScopedBot(c *gin.Context) (*model.Bot, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid bot id")
		return nil, false
	}
	bot, err := model.GetBotById(id)
	if err != nil {
		helper.RespondError(c, err)
		return nil, false
	}
	role := c.GetInt(ctxkey.Role)
	if role < model.RoleManagerUser && bot.UserId != c.GetInt(ctxkey.Id) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "no permission to access this bot",
		})
		return nil, false
	}
	return bot, true
}

func GetAllBots(c *gin.Context) {
	startIdx, num := paginationParams(c)
	userId := listScopeUserId(c)
	bots, err := model.GetAllBots(userId, startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	total, err := model.GetBotCount(userId)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    bots,
		"total":   total,
	})
}

func GetBot(c *gin.Context) {
	bot, ok := getScopedBot(c)
	if !ok {
		return
	}
	helper.RespondData(c, bot)
}

func AddBot(c *gin.Context) {
	var bot model.Bot
	if err := c.ShouldBindJSON(&bot); err != nil {
		helper.RespondBadRequest(c, "invalid bot payload: %s", err.Error())
		return
	}
	if bot.Name == "" {
		helper.RespondBadRequest(c, "bot name is required")
		return
	}
	bot.Id = 0
	bot.UserId = c.GetInt(ctxkey.Id)
	if err := bot.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, bot)
}

func UpdateBot(c *gin.Context) {
	bot, ok := getScopedBot(c)
	if !ok {
		return
	}
	var payload model.Bot
	if err := c.ShouldBindJSON(&payload); err != nil {
		helper.RespondBadRequest(c, "invalid bot payload: %s", err.Error())
		return
	}
	payload.Id = bot.Id
	if err := payload.Update(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, payload)
}

func DeleteBot(c *gin.Context) {
	bot, ok := getScopedBot(c)
	if !ok {
		return
	}
	if err := bot.Delete(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, nil)
}
