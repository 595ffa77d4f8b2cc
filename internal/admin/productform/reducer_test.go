package productform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleState() State {
	return State{
		DescriptionForm: []Entry{
			{ID: 10, Data: Fields{FieldDescriptionRU: Text("ru"), FieldDescriptionUZ: Text("uz"), FieldDescriptionImage: Text("/img/a.jpg")}},
			{ID: 11, Data: Fields{FieldDescriptionRU: Text("ru2"), FieldDescriptionUZ: Text(""), FieldDescriptionImage: Null()}},
		},
		Features: []Entry{
			{ID: 20, Data: Fields{FieldFeatureID: Text("US"), FieldFeatureName: Text("Made in")}},
		},
		Images: []Entry{
			{ID: 30, Data: Fields{FieldImage: Text("/img/b.jpg")}, IsEditing: true},
		},
	}
}

func TestReduceUnknownActionIsIdentity(t *testing.T) {
	t.Parallel()

	state := sampleState()
	got := Reduce(state, Action{Type: "SOMETHING_ELSE", Payload: Payload{ID: 10, FormType: FormDescription}})
	if diff := cmp.Diff(state, got); diff != "" {
		t.Fatalf("unexpected state change (-want +got):\n%s", diff)
	}
}

func TestReduceSetFormData(t *testing.T) {
	t.Parallel()

	state := sampleState()
	got := Reduce(state, SetFormData(11, Fields{FieldDescriptionUZ: Text("Test")}, FormDescription))

	entry, ok := got.Find(FormDescription, 11)
	require.True(t, ok)
	require.Equal(t, "Test", entry.Data.Text(FieldDescriptionUZ))
	require.Equal(t, "ru2", entry.Data.Text(FieldDescriptionRU))
	require.False(t, entry.IsEditing)

	// Input untouched.
	original, _ := state.Find(FormDescription, 11)
	require.Equal(t, "", original.Data.Text(FieldDescriptionUZ))

	// Untouched entries share their data.
	require.Equal(t, cmp.Diff(state.DescriptionForm[0], got.DescriptionForm[0]), "")
	require.Equal(t, state.Features, got.Features)
}

func TestReduceSetFormDataMissingEntry(t *testing.T) {
	t.Parallel()

	state := sampleState()
	got := Reduce(state, SetFormData(999, Fields{FieldDescriptionRU: Text("x")}, FormDescription))
	if diff := cmp.Diff(state, got); diff != "" {
		t.Fatalf("expected unchanged state (-want +got):\n%s", diff)
	}

	got = Reduce(state, SetFormData(10, Fields{FieldDescriptionRU: Text("x")}, FormType("bogus")))
	if diff := cmp.Diff(state, got); diff != "" {
		t.Fatalf("expected unchanged state for unknown type (-want +got):\n%s", diff)
	}
}

func TestReduceRemoveForm(t *testing.T) {
	t.Parallel()

	state := sampleState()

	got := Reduce(state, RemoveForm(10, FormDescription))
	require.Len(t, got.DescriptionForm, 1)
	_, found := got.Find(FormDescription, 10)
	require.False(t, found)
	require.Len(t, state.DescriptionForm, 2)

	got = Reduce(state, RemoveForm(404, FormDescription))
	require.Len(t, got.DescriptionForm, 2)
}

func TestReduceToggleIsSelfInverse(t *testing.T) {
	t.Parallel()

	state := sampleState()
	for _, tc := range []struct {
		formType FormType
		id       int64
	}{
		{FormDescription, 10},
		{FormFeatures, 20},
		{FormImages, 30},
	} {
		once := Reduce(state, SetFormIsEditing(tc.id, tc.formType))
		twice := Reduce(once, SetFormIsEditing(tc.id, tc.formType))

		before, _ := state.Find(tc.formType, tc.id)
		mid, _ := once.Find(tc.formType, tc.id)
		after, _ := twice.Find(tc.formType, tc.id)
		require.NotEqual(t, before.IsEditing, mid.IsEditing, "%s first toggle", tc.formType)
		require.Equal(t, before.IsEditing, after.IsEditing, "%s second toggle", tc.formType)
	}
}

func TestReduceToggleIgnoresOtherEditingEntries(t *testing.T) {
	t.Parallel()

	state := Reduce(sampleState(), SetFormIsEditing(10, FormDescription))
	got := Reduce(state, SetFormIsEditing(11, FormDescription))

	first, _ := got.Find(FormDescription, 10)
	second, _ := got.Find(FormDescription, 11)
	require.True(t, first.IsEditing)
	require.True(t, second.IsEditing)
	require.False(t, IsIdle(got, FormDescription))

	// Adds stay refused while the collection is busy.
	again := Reduce(got, AddForm())
	require.Len(t, again.DescriptionForm, len(got.DescriptionForm))
}

func TestReduceAddUsesDefaultsAndGuard(t *testing.T) {
	t.Parallel()

	state := Reduce(State{}, Action{Type: ActionAddVariationForm, Payload: Payload{ID: 7}})
	require.Len(t, state.Variations, 1)
	entry := state.Variations[0]
	require.Equal(t, int64(7), entry.ID)
	require.True(t, entry.IsEditing)
	require.Equal(t, Fields{
		FieldNameRU:         Text(""),
		FieldNameUZ:         Text(""),
		FieldVariationColor: Text(""),
		FieldVariationImage: Null(),
	}, entry.Data)

	again := Reduce(state, AddVariationForm())
	require.Len(t, again.Variations, 1, "add must be refused while an entry is editing")
}

func TestReduceAddWithoutIDIsPure(t *testing.T) {
	t.Parallel()

	state := sampleState()
	a := Reduce(state, AddFeatureForm())
	b := Reduce(state, AddFeatureForm())
	require.Len(t, a.Features, 2)
	require.Equal(t, int64(31), a.Features[1].ID)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("reducer must be deterministic (-a +b):\n%s", diff)
	}
}

func TestReduceImagesIdleDependsOnMissingImage(t *testing.T) {
	t.Parallel()

	state := Reduce(sampleState(), AddImageForm())
	require.Len(t, state.Images, 2, "image entries with images do not block adding")

	blocked := Reduce(state, AddImageForm())
	require.Len(t, blocked.Images, 2, "an entry without an image blocks adding")

	id := state.Images[1].ID
	filled := Reduce(state, SetFormData(id, Fields{FieldImage: FileValue(File{Key: "k1"})}, FormImages))
	require.Len(t, Reduce(filled, AddImageForm()).Images, 3)
}

func TestSeedStateConvertsEmptyToNull(t *testing.T) {
	t.Parallel()

	seq := &Sequence{}
	state := SeedState(Seed{
		FormVariations: {
			{FieldNameRU: "Красный", FieldNameUZ: "Qizil", FieldVariationColor: "#ff0000", FieldVariationImage: ""},
		},
		FormImages: {
			{FieldImage: "/img/1.jpg"},
			{FieldImage: "/img/2.jpg"},
		},
	}, seq)

	require.Empty(t, state.DescriptionForm)
	require.Len(t, state.Variations, 1)
	require.True(t, state.Variations[0].Data.Get(FieldVariationImage).IsNull())
	require.Equal(t, "#ff0000", state.Variations[0].Data.Text(FieldVariationColor))
	require.False(t, state.Variations[0].IsEditing)
	require.Len(t, state.Images, 2)
	require.NotEqual(t, state.Images[0].ID, state.Images[1].ID)
}
