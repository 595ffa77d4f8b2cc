package productform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormType indicates the requested collection does not exist.
var ErrUnknownFormType = errors.New("productform: unknown form type")

// FormType names one of the four sub-form collections.
type FormType string

const (
	FormDescription FormType = "descriptionForm"
	FormVariations  FormType = "variations"
	FormFeatures    FormType = "features"
	FormImages      FormType = "images"
)

// FormTypes lists the collections in render order.
var FormTypes = []FormType{FormDescription, FormVariations, FormFeatures, FormImages}

// Field names posted by the sub-forms.
const (
	FieldDescriptionRU    = "description_ru"
	FieldDescriptionUZ    = "description_uz"
	FieldDescriptionImage = "description_image"
	FieldNameRU           = "name_ru"
	FieldNameUZ           = "name_uz"
	FieldVariationColor   = "variation_color"
	FieldVariationImage   = "variation_image"
	FieldFeatureID        = "feature_id"
	FieldFeatureName      = "feature_name"
	FieldImage            = "image"
)

// ParseFormType validates a raw collection name.
func ParseFormType(raw string) (FormType, error) {
	t := FormType(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormType, raw)
	}
	return t, nil
}

// Valid reports whether t names a known collection.
func (t FormType) Valid() bool {
	switch t {
	case FormDescription, FormVariations, FormFeatures, FormImages:
		return true
	default:
		return false
	}
}

// FieldNames returns the fields a sub-form of this type defines.
func (t FormType) FieldNames() []string {
	switch t {
	case FormDescription:
		return []string{FieldDescriptionRU, FieldDescriptionUZ, FieldDescriptionImage}
	case FormVariations:
		return []string{FieldNameRU, FieldNameUZ, FieldVariationColor, FieldVariationImage}
	case FormFeatures:
		return []string{FieldFeatureID, FieldFeatureName}
	case FormImages:
		return []string{FieldImage}
	default:
		return nil
	}
}

// ImageField returns the file field of the collection, or "" when it has none.
func (t FormType) ImageField() string {
	switch t {
	case FormDescription:
		return FieldDescriptionImage
	case FormVariations:
		return FieldVariationImage
	case FormImages:
		return FieldImage
	default:
		return ""
	}
}

func defaultFields(t FormType) Fields {
	switch t {
	case FormDescription:
		return Fields{
			FieldDescriptionRU:    Text(""),
			FieldDescriptionUZ:    Text(""),
			FieldDescriptionImage: Null(),
		}
	case FormVariations:
		return Fields{
			FieldNameRU:         Text(""),
			FieldNameUZ:         Text(""),
			FieldVariationColor: Text(""),
			FieldVariationImage: Null(),
		}
	case FormFeatures:
		return Fields{
			FieldFeatureID:   Text(""),
			FieldFeatureName: Text(""),
		}
	case FormImages:
		return Fields{
			FieldImage: Null(),
		}
	default:
		return Fields{}
	}
}

// Entry is the state of one editable sub-form.
type Entry struct {
	ID        int64
	Data      Fields
	IsEditing bool
}

// State is the aggregate of all four collections. Treat it as immutable:
// the reducer always builds new slices and maps.
type State struct {
	DescriptionForm []Entry
	Variations      []Entry
	Features        []Entry
	Images          []Entry
}

// Collection returns the entries of the given type; nil for unknown types.
func (s State) Collection(t FormType) []Entry {
	switch t {
	case FormDescription:
		return s.DescriptionForm
	case FormVariations:
		return s.Variations
	case FormFeatures:
		return s.Features
	case FormImages:
		return s.Images
	default:
		return nil
	}
}

// Find locates an entry by collection and id.
func (s State) Find(t FormType, id int64) (Entry, bool) {
	for _, entry := range s.Collection(t) {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

func (s State) withCollection(t FormType, entries []Entry) State {
	switch t {
	case FormDescription:
		s.DescriptionForm = entries
	case FormVariations:
		s.Variations = entries
	case FormFeatures:
		s.Features = entries
	case FormImages:
		s.Images = entries
	}
	return s
}

func (s State) maxID() int64 {
	var max int64
	for _, t := range FormTypes {
		for _, entry := range s.Collection(t) {
			if entry.ID > max {
				max = entry.ID
			}
		}
	}
	return max
}

// Seed lists the sub-forms that already exist server side, keyed by collection.
// Each record maps field names to their stored values.
type Seed map[FormType][]map[string]string

// SeedState builds the initial state from existing records. Empty values become
// null and seeded entries start in display mode.
func SeedState(seed Seed, ids *Sequence) State {
	if ids == nil {
		ids = NewSequence(nil)
	}
	var state State
	for _, t := range FormTypes {
		records := seed[t]
		if len(records) == 0 {
			continue
		}
		entries := make([]Entry, 0, len(records))
		for _, record := range records {
			data := make(Fields, len(record))
			for name, value := range record {
				if value == "" {
					data[name] = Null()
					continue
				}
				data[name] = Text(value)
			}
			entries = append(entries, Entry{ID: ids.Next(), Data: data})
		}
		state = state.withCollection(t, entries)
	}
	return state
}
