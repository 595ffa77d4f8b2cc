package productform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveImage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/media/existing.jpg", ResolveImage(Text("/media/existing.jpg"), nil))
	require.Equal(t, DefaultImagePath, ResolveImage(Null(), nil))

	file := FileValue(File{Key: "01HZX", Name: "photo.png"})
	viaFunc := ResolveImage(file, func(f File) string { return "/uploads/" + f.Key })
	require.Equal(t, "/uploads/01HZX", viaFunc)

	fallback := ResolveImage(file, nil)
	require.NotEmpty(t, fallback)
	require.NotEqual(t, DefaultImagePath, fallback)

	placeholder := ResolveImage(file, func(File) string { return DefaultImagePath })
	require.NotEqual(t, DefaultImagePath, placeholder)
}

func TestCompletionPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"description complete", DescriptionFilled("/a.jpg", "uz", "ru"), true},
		{"description placeholder image", DescriptionFilled(DefaultImagePath, "uz", "ru"), false},
		{"description blank text", DescriptionFilled("/a.jpg", "   ", "ru"), false},
		{"variation complete", VariationFilled("ru", "uz", "#000000", "/v.jpg"), true},
		{"variation missing color", VariationFilled("ru", "uz", "", "/v.jpg"), false},
		{"feature complete", FeatureFilled("US", "Origin"), true},
		{"feature missing id", FeatureFilled(" ", "Origin"), false},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, tc.got)
		}
	}
}

func TestIsFilledByEntry(t *testing.T) {
	t.Parallel()

	data := Fields{
		FieldDescriptionRU:    Text("Описание"),
		FieldDescriptionUZ:    Text("Tavsif"),
		FieldDescriptionImage: FileValue(File{Key: "k"}),
	}
	require.True(t, IsFilled(FormDescription, data, nil))
	require.False(t, IsFilled(FormDescription, data.Merge(Fields{FieldDescriptionImage: Null()}), nil))
	require.False(t, IsFilled(FormImages, Fields{}, nil))
	require.True(t, IsFilled(FormImages, Fields{FieldImage: Text("/x.jpg")}, nil))
	require.False(t, IsFilled(FormType("nope"), data, nil))
}

func TestIsIdle(t *testing.T) {
	t.Parallel()

	state := State{
		Features: []Entry{{ID: 1, IsEditing: true}},
		Images:   []Entry{{ID: 2, Data: Fields{FieldImage: Text("/x.jpg")}, IsEditing: true}},
	}
	require.True(t, IsIdle(state, FormDescription))
	require.False(t, IsIdle(state, FormFeatures))
	require.True(t, IsIdle(state, FormImages))
}

func TestParseFormType(t *testing.T) {
	t.Parallel()

	got, err := ParseFormType(" variations ")
	require.NoError(t, err)
	require.Equal(t, FormVariations, got)

	_, err = ParseFormType("prices")
	require.ErrorIs(t, err, ErrUnknownFormType)
}
