// Package dresscode implements the dress-code compliance rules.
//
// Everything in this package is a pure function over detected clothing
// class names: gender inference, the required-item lookup and the
// compliance check. No I/O happens here, which keeps every rule
// independently testable.
package dresscode

import "strconv"

// Gender is the inferred gender of a subject.
type Gender string

// Inferred genders.
const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Model class ids for the trained clothing detector.
var classNames = map[int]string{
	0: "blouse",
	1: "doll_shoes",
	2: "id_student",
	3: "pants",
	4: "polo_shirt",
	5: "shoes",
	6: "skirt",
}

// Human-readable names shown to staff. Note doll_shoes displays as
// plain "Shoes".
var displayNames = map[string]string{
	"blouse":     "Blouse",
	"doll_shoes": "Shoes",
	"id_student": "Student ID",
	"pants":      "Black Pants",
	"polo_shirt": "Polo Shirt",
	"shoes":      "Shoes",
	"skirt":      "Skirt",
}

// Required items per gender, in canonical order. Missing-item reports
// always follow this order.
var requirements = map[Gender][]string{
	Male:   {"polo_shirt", "pants", "shoes"},
	Female: {"blouse", "skirt", "shoes"},
}

// ClassName returns the model class name for a class id, or
// "class_<id>" for ids outside the trained set.
func ClassName(id int) string {
	if name, ok := classNames[id]; ok {
		return name
	}
	return "class_" + strconv.Itoa(id)
}

// DisplayName returns the human-readable name for a class name.
// Unknown classes display as themselves.
func DisplayName(class string) string {
	if name, ok := displayNames[class]; ok {
		return name
	}
	return class
}

// Required returns the required class names for a gender, in canonical
// order. The returned slice is a copy.
func Required(g Gender) []string {
	req := requirements[g]
	out := make([]string, len(req))
	copy(out, req)
	return out
}
