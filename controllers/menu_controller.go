package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-service/models"
	"restaurant-service/repository"
)

type MenuController struct {
	Menu    repository.Collection[models.MenuItem]
	Reviews repository.Collection[models.Review]
}

func NewMenuController(store *repository.Store) *MenuController {
	return &MenuController{Menu: store.Menu, Reviews: store.Reviews}
}

func (mc *MenuController) GetMenu(c *gin.Context) {
	items, err := mc.Menu.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if !bindJSON(c, &item) {
		return
	}
	res, err := mc.Menu.InsertOne(c.Request.Context(), &item)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteMenuItem reports deletedCount 0 for an id that no longer exists.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := mc.Menu.DeleteOne(c.Request.Context(), repository.ByID(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (mc *MenuController) GetReviews(c *gin.Context) {
	reviews, err := mc.Reviews.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
