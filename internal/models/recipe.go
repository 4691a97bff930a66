package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Description struct {
	Language string `bson:"language" json:"language"`
	Text     string `bson:"text" json:"text"`
}

// Compound is a single ingredient line.
type Compound struct {
	Name   string  `bson:"name" json:"name"`
	Amount float64 `bson:"amount" json:"amount"`
	Unit   string  `bson:"unit" json:"unit"`
}

// MetricUnits are the accepted ingredient units.
var MetricUnits = map[string]struct{}{
	"g": {}, "kg": {}, "ml": {}, "l": {}, "tsp": {}, "tbsp": {}, "cup": {}, "pcs": {},
}

type Recipe struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Descriptions []Description      `bson:"descriptions" json:"descriptions"`
	ImageURL     string             `bson:"imageUrl" json:"imageUrl"`
	CookingTime  int                `bson:"cookingTime" json:"cookingTime"`
	Calories     int                `bson:"calories,omitempty" json:"calories,omitempty"`
	IsVegan      bool               `bson:"isVegan" json:"isVegan"`
	IsVegetarian bool               `bson:"isVegetarian" json:"isVegetarian"`
	Difficulty   int                `bson:"difficulty" json:"difficulty"`
	Compounds    []Compound         `bson:"compounds" json:"compounds"`
	Tags         []string           `bson:"tags" json:"tags"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Category     string             `bson:"category" json:"category"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	Region       string             `bson:"region,omitempty" json:"region,omitempty"`
	AuthorCity   string             `bson:"authorCity,omitempty" json:"authorCity,omitempty"`
	Author       primitive.ObjectID `bson:"author" json:"author"`
	Meal         string             `bson:"meal,omitempty" json:"meal,omitempty"`
	Cooking      []string           `bson:"cooking" json:"cooking"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
