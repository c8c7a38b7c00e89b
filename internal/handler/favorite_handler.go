package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lighten/internal/service"
)

// AddFavorite 收藏/取消收藏开关，返回 JSON 信封。
// msg 与原始站点一致：收藏成功为"已收藏"，取消后回到"收藏"。
func (a *API) AddFavorite(c *gin.Context) {
	favID := uint(parsePositiveInt(c.PostForm("fav_id"), 0))
	favType := parsePositiveInt(c.PostForm("fav_type"), 0)

	result, err := a.favorites.Toggle(currentUserID(c), favID, favType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			respondFail(c, "用户未登录")
		case errors.Is(err, service.ErrInvalidTarget):
			respondFail(c, "收藏类型无效")
		case errors.Is(err, service.ErrNotFound):
			respondFail(c, "收藏对象不存在")
		default:
			respondFail(c, "收藏失败")
		}
		return
	}

	if result == service.FavoriteRemoved {
		respondSuccess(c, "收藏")
		return
	}
	respondSuccess(c, "已收藏")
}
