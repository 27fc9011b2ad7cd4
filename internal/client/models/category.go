package models

// Category is the top level of the taxonomy. Subcategories is filled when
// the API is asked for the nested listing.
type Category struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id,omitempty"`
}

// CategoryInput is the create/update payload of a category.
type CategoryInput struct {
	Name string `json:"name"`
}

// SubcategoryInput is the create/update payload of a subcategory.
type SubcategoryInput struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id"`
}

// Subcategory returns the nested subcategory with the given id.
func (c Category) Subcategory(id int64) (Subcategory, bool) {
	for _, s := range c.Subcategories {
		if s.ID == id {
			return s, true
		}
	}
	return Subcategory{}, false
}

// FirstSubcategoryID returns the id of the first nested subcategory, or 0.
func (c Category) FirstSubcategoryID() int64 {
	if len(c.Subcategories) == 0 {
		return 0
	}
	return c.Subcategories[0].ID
}

// User is the authenticated account as returned by /users/me.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
