package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurant-service/apperrors"
	"restaurant-service/repository"
)

// pathID parses the :id path parameter. On failure it writes a 400 and
// returns false.
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := repository.ParseID(c.Param("id"))
	if err != nil {
		apperrors.Abort(c, apperrors.ErrMalformedIdentifier)
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes the request body into obj, writing a 400 on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.Abort(c, apperrors.New(apperrors.ErrBadRequest.Code, err.Error(), err))
		return false
	}
	return true
}

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
