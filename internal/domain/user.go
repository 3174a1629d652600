package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an authenticated account that can manage the catalog. Products
// reference their creating user through Product.Creator.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
}
