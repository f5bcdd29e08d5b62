package models

import "time"

// BlogPost is a long-form markdown article, addressable by numeric id or
// by its unique slug.
type BlogPost struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"`
	Tags       Tags      `gorm:"serializer:json;type:jsonb;not null" json:"tags"`
	ImageURL   string    `json:"imageUrl"`
	References string    `gorm:"type:text" json:"references"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"-"`
}
