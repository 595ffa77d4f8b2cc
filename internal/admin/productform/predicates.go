package productform

import (
	"net/url"
	"strings"
)

// DefaultImagePath is shown wherever an image field has no value.
const DefaultImagePath = "/public/static/default-input-image.svg"

// IsIdle reports whether a new entry may be added to the collection.
// Descriptions, variations and features are idle when nothing is being edited;
// images are idle when no entry is still missing its image.
func IsIdle(state State, t FormType) bool {
	entries := state.Collection(t)
	if t == FormImages {
		for _, entry := range entries {
			if entry.Data.Get(FieldImage).IsNull() {
				return false
			}
		}
		return true
	}
	return !hasEditing(entries)
}

// ResolveImage converts an image field into a displayable URL. Text values are
// URLs already and pass through; null yields DefaultImagePath; file handles are
// resolved through fileURL.
func ResolveImage(v Value, fileURL func(File) string) string {
	if v.IsText() {
		return v.String()
	}
	f, ok := v.File()
	if !ok {
		return DefaultImagePath
	}
	if fileURL != nil {
		if resolved := fileURL(f); resolved != "" && resolved != DefaultImagePath {
			return resolved
		}
	}
	return "uploads/" + url.PathEscape(f.Key)
}

// DescriptionFilled reports whether a description sub-form can be applied.
func DescriptionFilled(imageURL, descriptionUz, descriptionRu string) bool {
	return imageURL != DefaultImagePath && filled(descriptionUz) && filled(descriptionRu)
}

// VariationFilled reports whether a variation sub-form can be applied.
func VariationFilled(nameRu, nameUz, color, imageURL string) bool {
	return imageURL != DefaultImagePath && filled(nameRu) && filled(nameUz) && filled(color)
}

// FeatureFilled reports whether a feature sub-form can be applied.
func FeatureFilled(featureID, featureName string) bool {
	return filled(featureID) && filled(featureName)
}

// IsFilled evaluates the completion predicate of an entry's data.
func IsFilled(t FormType, data Fields, fileURL func(File) string) bool {
	switch t {
	case FormDescription:
		return DescriptionFilled(
			ResolveImage(data.Get(FieldDescriptionImage), fileURL),
			data.Text(FieldDescriptionUZ),
			data.Text(FieldDescriptionRU),
		)
	case FormVariations:
		return VariationFilled(
			data.Text(FieldNameRU),
			data.Text(FieldNameUZ),
			data.Text(FieldVariationColor),
			ResolveImage(data.Get(FieldVariationImage), fileURL),
		)
	case FormFeatures:
		return FeatureFilled(data.Text(FieldFeatureID), data.Text(FieldFeatureName))
	case FormImages:
		return !data.Get(FieldImage).IsNull()
	default:
		return false
	}
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}
