package models

import "time"

// Tags is an ordered list of free-text labels. It is persisted as a jsonb
// array so ordering survives the round trip; an absent value is always
// the empty list, never null.
type Tags []string

// Project represents a portfolio entry. Higher Priority sorts first in
// listings; ties fall back to insertion order.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	ProjectURL  string    `json:"projectUrl"`
	GithubURL   string    `json:"githubUrl"`
	Tags        Tags      `gorm:"serializer:json;type:jsonb;not null" json:"tags"`
	Featured    bool      `gorm:"default:false" json:"featured"`
	Priority    int       `gorm:"default:0" json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
