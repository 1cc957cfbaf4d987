package entities

import (
	"time"
)

// Author is a catalog author. Authors own their books: deleting an author
// cascades to every book referencing it, enforced by the database itself.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Books     []Book    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"index" json:"author_id"`
	Title       string    `gorm:"index;size:512" json:"title"`
	ISBN        string    `gorm:"index;size:20" json:"isbn,omitempty"`
	PublishedOn time.Time `gorm:"type:date" json:"published_on"`
	Author      Author    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}
