package locations

import "strings"

// Category is the kind of place selling the product.
type Category string

// Known categories.
const (
	CategoryClinic           Category = "clinic"
	CategoryHospital         Category = "hospital"
	CategoryPharmacy         Category = "pharmacy"
	CategoryMedicalAesthetic Category = "medical_aesthetic"
)

// Categories lists the known categories in display order.
var Categories = []Category{
	CategoryClinic,
	CategoryHospital,
	CategoryPharmacy,
	CategoryMedicalAesthetic,
}

var categoryLabels = map[Category]string{
	CategoryClinic:           "診所",
	CategoryHospital:         "醫院",
	CategoryPharmacy:         "藥局",
	CategoryMedicalAesthetic: "醫美",
}

// NormalizeCategory trims and lower-cases s. Blank input means clinic.
// Unknown values are kept so that the filter can still match them.
func NormalizeCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryClinic
	}
	return Category(s)
}

// Normalized returns the normalized form of c.
func (c Category) Normalized() Category {
	return NormalizeCategory(string(c))
}

// Known reports whether c is one of the four known categories.
func (c Category) Known() bool {
	_, ok := categoryLabels[c.Normalized()]
	return ok
}

// Label returns the Chinese label, falling back to 診所 like the report form does.
func (c Category) Label() string {
	if label, ok := categoryLabels[c.Normalized()]; ok {
		return label
	}
	return categoryLabels[CategoryClinic]
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
