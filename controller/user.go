package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/ctxkey"
	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/model"
)

func GetAllUsers(c *gin.Context) {
	startIdx, num := paginationParams(c)
	users, err := model.GetAllUsers(startIdx, num)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	total, err := model.GetUserCount()
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    users,
		"total":   total,
	})
}

func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid user id")
		return
	}
	user, err := model.GetUserById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, user)
}

// GetSelf returns the calling user's own profile.
func GetSelf(c *gin.Context) {
	user, err := model.GetUserById(c.GetInt(ctxkey.Id))
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, user)
}

func AddUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		helper.RespondBadRequest(c, "invalid user payload: %s", err.Error())
		return
	}
	if user.Username == "" || user.Password == "" {
		helper.RespondBadRequest(c, "username and password are required")
		return
	}
	// Managers may not mint accounts above their own role.
	if user.Role >= c.GetInt(ctxkey.Role) {
		helper.RespondBadRequest(c, "cannot create a user with a role not lower than yours")
		return
	}
	user.Id = 0
	if err := user.Insert(); err != nil {
		helper.RespondError(c, err)
		return
	}
	user.Password = ""
	helper.RespondData(c, user)
}

func UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid user id")
		return
	}
	target, err := model.GetUserById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	callerRole := c.GetInt(ctxkey.Role)
	if target.Role >= callerRole && target.Id != c.GetInt(ctxkey.Id) {
		helper.RespondBadRequest(c, "cannot modify a user with a role not lower than yours")
		return
	}
	var payload model.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		helper.RespondBadRequest(c, "invalid user payload: %s", err.Error())
		return
	}
	if payload.Role >= callerRole && target.Id != c.GetInt(ctxkey.Id) {
		helper.RespondBadRequest(c, "cannot promote a user to a role not lower than yours")
		return
	}
	payload.Id = target.Id
	if err := payload.Update(payload.Password != ""); err != nil {
		helper.RespondError(c, err)
		return
	}
	payload.Password = ""
	helper.RespondData(c, payload)
}

func DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid user id")
		return
	}
	target, err := model.GetUserById(id)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	if target.Role >= c.GetInt(ctxkey.Role) {
		helper.RespondBadRequest(c, "cannot delete a user with a role not lower than yours")
		return
	}
	if err := target.Delete(); err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, nil)
}
