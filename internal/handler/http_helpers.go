package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// respondStatus 输出固定两键的 JSON 信封: {"status": ..., "msg": ...}
func respondSuccess(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "msg": msg})
}

func respondFail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"status": "fail", "msg": msg})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// currentUserID 从会话取出登录用户 id，未登录返回 0
func currentUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	switch id := session.Get("user_id").(type) {
	case uint:
		return id
	case int:
		if id > 0 {
			return uint(id)
		}
	}
	return 0
}
