package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
)

func TestHTTPServiceCharacteristics(t *testing.T) {
	t.Parallel()

	var receivedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products/sku-1/characteristics", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		receivedAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"descriptionForm": [{"description_ru": "Описание", "description_uz": "", "description_image": "/img/1.jpg"}],
			"features": [{"feature_id": "US", "feature_name": "Origin"}],
			"prices": [{"amount": "10"}]
		}`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL+"/api", ts.Client())
	require.NoError(t, err)

	seed, err := svc.Characteristics(context.Background(), "test-token", "sku-1")
	require.NoError(t, err)
	require.Equal(t, "Bearer test-token", receivedAuth)
	require.Len(t, seed, 2)
	require.Equal(t, "Описание", seed[productform.FormDescription][0][productform.FieldDescriptionRU])
	require.Equal(t, "US", seed[productform.FormFeatures][0][productform.FieldFeatureID])
}

func TestHTTPServiceCharacteristicsNotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = svc.Characteristics(context.Background(), "", "missing")
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestHTTPServiceCharacteristicsBackendError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"code":"upstream","message":"catalog unavailable"}`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = svc.Characteristics(context.Background(), "", "sku-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "catalog unavailable")
}

func TestNewHTTPServiceRequiresBaseURL(t *testing.T) {
	t.Parallel()

	_, err := catalog.NewHTTPService("  ", nil)
	require.Error(t, err)
}

func TestStaticServiceSeeds(t *testing.T) {
	t.Parallel()

	svc := catalog.NewStaticService(nil)
	seed, err := svc.Characteristics(context.Background(), "", catalog.DemoProductID)
	require.NoError(t, err)
	require.NotEmpty(t, seed[productform.FormVariations])

	empty, err := svc.Characteristics(context.Background(), "", "other")
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = svc.Characteristics(context.Background(), "", " ")
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}
