package controller

import (
	"net/http"
	"strconv"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/model"
)

// getScopedApiKey loads the key from the :id path param and enforces
// ownership: business users only reach their own keys, managers and admins
// reach everything.
func getScopedApiKey(c *gin.Context) (*model.ApiKey, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid api key id")
		return nil, false
	}
	apiKey, err := model.GetApiKeyById(id)
	if err != nil {
		helper.RespondError(c, err)
		return nil, false
	}
	role := c.GetInt(ctxkey.Role)
	if role < model.RoleManagerUser && apiKey.UserId != c.GetInt(ctxkey.Id) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "no permission to access this api key",
		})
		return nil, false
	}
	return apiKey, true
}

// listScopeUserId narrows list queries to the caller's own rows unless the
// caller is at least a manager.
func listScopeUserId(c *gin.Context) int {
	if c.GetInt(ctxkey.Role) >= model.RoleManagerUser {
		return 0
	}
	return c.GetInt(ctxkey.Id)
}

func GetAllApiKeys(c *gin.Context) {
	startIdx, num := paginationParams(c)
	userId := listScopeUserId(c)
	keys, err := model.GetAllApiKeys(userId, startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	total, err := model.GetApiKeyCount(userId)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    keys,
		"total":   total,
	})
}

func GetApiKey(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	helper.RespondData(c, apiKey)
}

func AddApiKey(c *gin.Context) {
	var apiKey model.ApiKey
	if err := c.ShouldBindJSON(&apiKey); err != nil {
		helper.RespondBadRequest(c, "invalid api key payload: %s", err.Error())
		return
	}
	if apiKey.BotId == 0 {
		helper.RespondBadRequest(c, "bot_id is required")
		return
	}
	if _, err := model.GetBotById(apiKey.BotId); err != nil {
		helper.RespondError(c, err)
		return
	}
	apiKey.Id = 0
	apiKey.Key = ""
	apiKey.IsActive = true
	apiKey.UserId = c.GetInt(ctxkey.Id)
	if apiKey.ExpiredAt == 0 {
		apiKey.ExpiredAt = -1
	}
	if err := apiKey.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, apiKey)
}

func UpdateApiKey(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	var payload model.ApiKey
	if err := c.ShouldBindJSON(&payload); err != nil {
		helper.RespondBadRequest(c, "invalid api key payload: %s", err.Error())
		return
	}
	apiKey.Name = payload.Name
	if payload.BotId != 0 {
		apiKey.BotId = payload.BotId
	}
	apiKey.IsActive = payload.IsActive
	if payload.ExpiredAt != 0 {
		apiKey.ExpiredAt = payload.ExpiredAt
	}
	if err := apiKey.Update(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, apiKey)
}

// DeleteApiKey removes the key and cascades into the statistics stores: the
// lifetime summary and every usage bucket go with it.
func DeleteApiKey(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	if err := apiKey.Delete(); err != nil {
		helper.RespondError(c, err)
		return
	}
	if err := statsService.DeleteKey(c.Request.Context(), apiKey.Key); err != nil {
		// Key row is already gone; orphaned statistics rows are harmless but
		// worth an error-level trace.
		gmw.GetLogger(c).Error("failed to delete statistics of removed api key",
			zap.String("key_id", apiKey.Key), zap.Error(err))
	}
	helper.RespondData(c, nil)
}
