package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
)

func TestDispatchMiddlewareCountsActions(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	store := productform.NewStore(productform.State{}, productform.WithMiddleware(m.DispatchMiddleware()))
	store.Dispatch(productform.AddForm())
	store.Dispatch(productform.AddForm())
	store.Dispatch(productform.AddImageForm())

	require.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("ADD_FORM")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("ADD_IMAGE_FORM")))
}

func TestSubmissionAndEditorMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveSubmission(catalog.Submission{FormType: productform.FormFeatures}, catalog.OutcomeFailure)
	m.EditorOpened()
	m.EditorOpened()
	m.EditorClosed()
	m.UploadStored()

	require.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("features", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.editors))
	require.Equal(t, 1.0, testutil.ToFloat64(m.uploads))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "catalog_admin_editors_open 1")
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.EditorOpened()
	m.ObserveSubmission(catalog.Submission{}, catalog.OutcomeSuccess)
	store := productform.NewStore(productform.State{}, productform.WithMiddleware(m.DispatchMiddleware()))
	store.Dispatch(productform.AddForm())
	require.Len(t, store.GetState().DescriptionForm, 1)
}
