package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

// respondServiceError memetakan error bertipe dari layer service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	var (
		vErr *services.ValidationError
		cErr *services.ConflictError
		sErr *services.InvalidStateError
		tErr *services.IllegalTransitionError
	)

	switch {
	case errors.As(err, &vErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &cErr):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.As(err, &sErr), errors.As(err, &tErr):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrPromotionInactive),
		errors.Is(err, services.ErrPromotionNotStarted),
		errors.Is(err, services.ErrPromotionExpired),
		errors.Is(err, services.ErrPromotionUsageLimit),
		errors.Is(err, services.ErrPromotionMinOrder):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("parameter "+name+" tidak valid"))
		return 0, false
	}
	return uint(id), true
}

// actorName mengambil nama user dari context (diset AuthMiddleware).
func actorName(c *gin.Context) string {
	if name, ok := c.Get("userName"); ok {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}
	return "system"
}
