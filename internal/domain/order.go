package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultOrderState is assigned to newly created orders.
const DefaultOrderState = "pending"

// Order is a customer order. Price is a snapshot computed from the referenced
// products at creation time and is never recomputed afterwards. The
// "userAdress" spelling is part of the established wire format.
type Order struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserName        string               `json:"userName" bson:"userName"`
	UserEmail       string               `json:"userEmail" bson:"userEmail"`
	UserPhoneNumber string               `json:"userPhoneNumber" bson:"userPhoneNumber"`
	UserAdress      string               `json:"userAdress" bson:"userAdress"`
	ProductsIds     []primitive.ObjectID `json:"productsIds" bson:"productsIds"`
	Price           float64              `json:"price" bson:"price"`
	OrderState      string               `json:"orderState" bson:"orderState"`
}
