package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the format used for product creation dates. Values in this
// layout sort lexicographically in chronological order, which the "new
// products" query relies on.
const DateLayout = "2006-01-02"

// Product represents a product in the catalog. Field names mirror the wire
// format used by the storefront, including the historical "bestDesplay"
// spelling that existing clients depend on.
type Product struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductName     string             `json:"productName" bson:"productName"`
	ProductCategory string             `json:"productCategory" bson:"productCategory"`
	Description     string             `json:"description" bson:"description"`
	Price           float64            `json:"price" bson:"price"`
	OnStock         int                `json:"onStock" bson:"onStock"`
	Size            string             `json:"size" bson:"size"`
	BestDesplay     bool               `json:"bestDesplay" bson:"bestDesplay"`
	CreationDate    string             `json:"creationDate" bson:"creationDate"`
	Image           string             `json:"image" bson:"image"`
	Creator         primitive.ObjectID `json:"creator" bson:"creator,omitempty"`
}

// Category groups products under a unique name. The products slice keeps
// insertion order; every referenced product declares this category's name in
// its own productCategory field.
type Category struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	CategoryName string               `json:"categoryName" bson:"categoryName"`
	Products     []primitive.ObjectID `json:"products" bson:"products"`
}

// FormatDate renders t in the catalog date layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
