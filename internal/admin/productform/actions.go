package productform

// ActionType tags a state transition.
type ActionType string

const (
	ActionAddForm          ActionType = "ADD_FORM"
	ActionAddVariationForm ActionType = "ADD_VARIATION_FORM"
	ActionAddFeatureForm   ActionType = "RENDER_FEATURE_FORM"
	ActionAddImageForm     ActionType = "ADD_IMAGE_FORM"
	ActionSetFormData      ActionType = "SET_FORM_DATA"
	ActionSetFormIsEditing ActionType = "SET_FORM_IS_EDITING"
	ActionRemoveForm       ActionType = "REMOVE_FORM"
)

// Action describes one intended state transition.
type Action struct {
	Type    ActionType
	Payload Payload
}

// Payload carries the arguments of an action. Add actions only use ID, which
// the store fills in when it is zero.
type Payload struct {
	ID       int64
	FormData Fields
	FormType FormType
}

// AddForm appends a description entry.
func AddForm() Action { return Action{Type: ActionAddForm} }

// AddVariationForm appends a variation entry.
func AddVariationForm() Action { return Action{Type: ActionAddVariationForm} }

// AddFeatureForm appends a feature entry.
func AddFeatureForm() Action { return Action{Type: ActionAddFeatureForm} }

// AddImageForm appends an image entry.
func AddImageForm() Action { return Action{Type: ActionAddImageForm} }

// SetFormData merges formData into the data of entry id in collection formType.
func SetFormData(id int64, formData Fields, formType FormType) Action {
	return Action{
		Type:    ActionSetFormData,
		Payload: Payload{ID: id, FormData: formData, FormType: formType},
	}
}

// SetFormIsEditing toggles the editing flag of entry id.
func SetFormIsEditing(id int64, formType FormType) Action {
	return Action{
		Type:    ActionSetFormIsEditing,
		Payload: Payload{ID: id, FormType: formType},
	}
}

// RemoveForm deletes entry id from collection formType.
func RemoveForm(id int64, formType FormType) Action {
	return Action{
		Type:    ActionRemoveForm,
		Payload: Payload{ID: id, FormType: formType},
	}
}

// AddAction returns the add action for a collection.
func AddAction(t FormType) (Action, bool) {
	switch t {
	case FormDescription:
		return AddForm(), true
	case FormVariations:
		return AddVariationForm(), true
	case FormFeatures:
		return AddFeatureForm(), true
	case FormImages:
		return AddImageForm(), true
	default:
		return Action{}, false
	}
}

func addTarget(a ActionType) (FormType, bool) {
	switch a {
	case ActionAddForm:
		return FormDescription, true
	case ActionAddVariationForm:
		return FormVariations, true
	case ActionAddFeatureForm:
		return FormFeatures, true
	case ActionAddImageForm:
		return FormImages, true
	default:
		return "", false
	}
}
