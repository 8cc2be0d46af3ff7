package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant-service/apperrors"
	"restaurant-service/middleware"
	"restaurant-service/models"
	"restaurant-service/repository"
)

type CartController struct {
	Carts repository.Collection[models.CartEntry]
}

func NewCartController(store *repository.Store) *CartController {
	return &CartController{Carts: store.Carts}
}

func (cc *CartController) AddToCart(c *gin.Context) {
	var entry models.CartEntry
	if !bindJSON(c, &entry) {
		return
	}
	res, err := cc.Carts.InsertOne(c.Request.Context(), &entry)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetCarts lists the caller's own cart. Without an email query the answer
// is an empty list; asking for someone else's cart is forbidden.
func (cc *CartController) GetCarts(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusOK, []models.CartEntry{})
		return
	}
	if email != middleware.GetEmail(c) {
		apperrors.Abort(c, apperrors.New(http.StatusForbidden, apperrors.MsgForeignCart, nil))
		return
	}

	entries, err := cc.Carts.Find(c.Request.Context(), repository.ByEmail(email))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (cc *CartController) DeleteCartEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := cc.Carts.DeleteOne(c.Request.Context(), repository.ByID(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
