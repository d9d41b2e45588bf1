// model/book.go
package model

import "time"

type Book struct {
	ID              int64     `json:"id"`
	BookName        string    `json:"bookName"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	RentPerDay      float64   `json:"rentPerDay"`
	OneTimePrice    *float64  `json:"oneTimePrice,omitempty"`
	PublicationYear int       `json:"publicationYear"`
	Cover           *string   `json:"cover,omitempty"`
	Slug            string    `json:"slug"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
