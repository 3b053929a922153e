package models

// Category is an expense tag such as "Food" or "Rent".
type Category struct {
	ID   int64
	Name string
}
