package domain

// DefaultBaselineCategoryID identifies the balanced ("平和质") constitution.
const DefaultBaselineCategoryID = "pinghe"

// Category is a constitution type a respondent can be scored against.
type Category struct {
	ID             string   `json:"id"             validate:"required"`
	Name           string   `json:"name"           validate:"required"`
	Description    string   `json:"description"    validate:"required"`
	Recommendation string   `json:"recommendation" validate:"required"`
	Tags           []string `json:"tags"           validate:"dive,required"`
	SortOrder      int      `json:"sort_order"`
}

// Validate checks the required fields of the category.
func (c *Category) Validate() error {
	if c.ID == "" {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}
	if c.Description == "" {
		return NewValidationError("description", "cannot be empty", ErrEmptyContent)
	}
	if c.Recommendation == "" {
		return NewValidationError("recommendation", "cannot be empty", ErrEmptyContent)
	}
	for _, tag := range c.Tags {
		if tag == "" {
			return NewValidationError("tags", "contains an empty tag", ErrEmptyContent)
		}
	}
	return nil
}
