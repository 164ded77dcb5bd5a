// Package domain contains the core data types for the MyShelf server.
package domain

import "time"

// CheckoutRecord is one row of a library checkout export.
// It exists only during parsing; everything downstream works on BookEntry.
type CheckoutRecord struct {
	ID                 string
	BookID             string
	CheckoutDate       time.Time
	ReturnDate         time.Time
	Location           string
	ClassificationCode string
	TitleAuthor        string // raw "Title / Author" string
}
