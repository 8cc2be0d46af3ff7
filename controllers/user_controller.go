package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"restaurant-service/middleware"
	"restaurant-service/models"
	"restaurant-service/repository"
)

type UserController struct {
	Users repository.Collection[models.User]
}

func NewUserController(store *repository.Store) *UserController {
	return &UserController{Users: store.Users}
}

// CreateUser inserts the user unless the email is already registered. The
// check and the insert are two separate store calls.
func (uc *UserController) CreateUser(c *gin.Context) {
	var user models.User
	if !bindJSON(c, &user) {
		return
	}

	existing, err := uc.Users.FindOne(c.Request.Context(), repository.ByEmail(user.Email))
	if err != nil {
		fail(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{"message": "user already existing"})
		return
	}

	res, err := uc.Users.InsertOne(c.Request.Context(), &user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Users.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) MakeAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	update := bson.M{"$set": bson.M{"role": models.RoleAdmin}}
	res, err := uc.Users.UpdateOne(c.Request.Context(), repository.ByID(id), update)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := uc.Users.DeleteOne(c.Request.Context(), repository.ByID(id))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CheckAdmin answers {admin: bool} for the caller's own email only; asking
// about anyone else yields admin=false without a lookup.
func (uc *UserController) CheckAdmin(c *gin.Context) {
	email := c.Param("email")
	if middleware.GetEmail(c) != email {
		c.JSON(http.StatusOK, gin.H{"admin": false})
		return
	}

	user, err := uc.Users.FindOne(c.Request.Context(), repository.ByEmail(email))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}
