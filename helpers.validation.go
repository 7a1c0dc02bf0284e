package main

// Validator accumulates field-level validation failures. An empty
// Errors map means the checked payload is valid.
type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message. The first
// failure recorded for a field is the one reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error for key with message only when ok is false.
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// ValidateBookPayload checks the presence of every required book field.
// Numeric fields (pageCount, price) have no meaningful required-check:
// a zero value decodes the same way as an absent one, so zeros pass.
func ValidateBookPayload(book *Book) *Validator {
	v := NewValidator()
	v.Check(len(book.Title) > 0, "title", "must be provided")
	v.Check(len(book.Author) > 0, "author", "must be provided")
	v.Check(len(book.Publisher) > 0, "publisher", "must be provided")
	v.Check(len(book.ISBN) > 0, "isbn", "must be provided")
	v.Check(len(book.Classification) > 0, "classification", "must be provided")
	v.Check(len(book.Category) > 0, "category", "must be provided")
	return v
}
