package productform

// AddDescriptionField adds a description entry unless one is being edited.
func AddDescriptionField(store *Store) bool {
	return AddField(store, FormDescription)
}

// AddVariationField adds a variation entry unless one is being edited.
func AddVariationField(store *Store) bool {
	return AddField(store, FormVariations)
}

// AddFeatureField adds a feature entry unless one is being edited.
func AddFeatureField(store *Store) bool {
	return AddField(store, FormFeatures)
}

// AddImageField adds an image entry unless one is still missing its image.
func AddImageField(store *Store) bool {
	return AddField(store, FormImages)
}

// AddField dispatches the add action for t when the collection is idle and
// reports whether an entry was appended.
func AddField(store *Store, t FormType) bool {
	action, ok := AddAction(t)
	if !ok || store == nil {
		return false
	}
	before := store.GetState()
	if !IsIdle(before, t) {
		return false
	}
	store.Dispatch(action)
	return len(store.GetState().Collection(t)) > len(before.Collection(t))
}
