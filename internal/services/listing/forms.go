package listing

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldSpec describes one input of a form: its validation rule and how the
// presentation layer should draw it.
type FieldSpec struct {
	Name     string `json:"name"               validate:"required"`
	Label    string `json:"label"              validate:"required"`
	Widget   string `json:"widget"             validate:"oneof=text textarea number select url"`
	Required bool   `json:"required"`
	MaxLen   int    `json:"max_len,omitempty"  validate:"gte=0"`
	Rows     int    `json:"rows,omitempty"     validate:"gte=0"`
	Cols     int    `json:"cols,omitempty"     validate:"gte=0"`
	CSSClass string `json:"css_class,omitempty"`
}

type Form struct {
	Name   string      `json:"name"   validate:"required"`
	Fields []FieldSpec `json:"fields" validate:"required,min=1,dive"`
}

var ListingForm = Form{
	Name: "listing",
	Fields: []FieldSpec{
		{Name: "title", Label: "Title", Widget: "text", Required: true, MaxLen: 64, CSSClass: "descriptionTextBox"},
		{Name: "description", Label: "Description", Widget: "textarea", MaxLen: 500, Rows: 3, Cols: 100, CSSClass: "descriptionTextBox"},
		{Name: "category_id", Label: "Category", Widget: "select", Required: true, CSSClass: "dropdownCategory"},
		{Name: "start_bid", Label: "Starting bid", Widget: "number", Required: true, CSSClass: "descriptionTextBox"},
		{Name: "image_url", Label: "Image URL", Widget: "url", MaxLen: 500, CSSClass: "descriptionTextBox"},
	},
}

var BidForm = Form{
	Name: "bid",
	Fields: []FieldSpec{
		{Name: "price", Label: "Price", Widget: "number", Required: true},
	},
}

var CommentForm = Form{
	Name: "comment",
	Fields: []FieldSpec{
		{Name: "text", Label: "Comment", Widget: "textarea", Required: true, MaxLen: maxCommentLen, Rows: 3, Cols: 100, CSSClass: "commentBox"},
	},
}

// Forms indexes every form by name.
var Forms = map[string]Form{
	ListingForm.Name: ListingForm,
	BidForm.Name:     BidForm,
	CommentForm.Name: CommentForm,
}

// ValidateForms checks the form tables once, at startup.
func ValidateForms() error {
	v := validator.New()
	for key, form := range Forms {
		if key != form.Name {
			return fmt.Errorf("form %q registered under %q", form.Name, key)
		}
		if err := v.Struct(form); err != nil {
			return fmt.Errorf("form %q: %w", form.Name, err)
		}
		seen := make(map[string]bool, len(form.Fields))
		for _, fld := range form.Fields {
			if seen[fld.Name] {
				return fmt.Errorf("form %q: duplicate field %q", form.Name, fld.Name)
			}
			seen[fld.Name] = true
		}
	}
	return nil
}
