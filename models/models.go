package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleAdmin is the only role value the service recognises.
const RoleAdmin = "admin"

type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name" json:"name" binding:"required"`
	Recipe   string             `bson:"recipe,omitempty" json:"recipe,omitempty"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Category string             `bson:"category,omitempty" json:"category,omitempty"`
	Price    float64            `bson:"price" json:"price"`
}

type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name    string             `bson:"name" json:"name"`
	Details string             `bson:"details" json:"details"`
	Rating  float64            `bson:"rating" json:"rating"`
}

// CartEntry is a pending order line owned by the user with Email.
type CartEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	MenuItemID string             `bson:"menuItemId,omitempty" json:"menuItemId,omitempty"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Price      float64            `bson:"price" json:"price"`
	Email      string             `bson:"email" json:"email" binding:"required"`
}

type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email" binding:"required"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PaymentRecord captures a completed charge and the cart entries it settles.
type PaymentRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email" binding:"required"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Date          string             `bson:"date,omitempty" json:"date,omitempty"`
	CartItems     []string           `bson:"cartsItems" json:"cartsItems" binding:"required"`
	MenuItems     []string           `bson:"menuItems,omitempty" json:"menuItems,omitempty"`
	ItemNames     []string           `bson:"itemNames,omitempty" json:"itemNames,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
}
