package editors_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/editors"
	"finitefield.org/catalog-admin/internal/admin/observability"
	"finitefield.org/catalog-admin/internal/admin/productform"
)

type countingService struct {
	calls atomic.Int32
	err   error
	seed  productform.Seed
}

func (s *countingService) Characteristics(ctx context.Context, token, productID string) (productform.Seed, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.seed, nil
}

func TestRegistryOpenReusesEditor(t *testing.T) {
	t.Parallel()

	service := &countingService{seed: productform.Seed{
		productform.FormFeatures: {{productform.FieldFeatureID: "US", productform.FieldFeatureName: "Made in"}},
	}}
	registry := editors.NewRegistry(service, editors.Config{BasePath: "/admin"})

	first, err := registry.Open(context.Background(), "session-1", "p-1", "token")
	require.NoError(t, err)
	second, err := registry.Open(context.Background(), "session-1", "p-1", "token")
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, int32(1), service.calls.Load())

	other, err := registry.Open(context.Background(), "session-2", "p-1", "token")
	require.NoError(t, err)
	require.NotSame(t, first, other)
	require.Equal(t, 2, registry.Len())

	require.Len(t, first.Store.GetState().Features, 1)
	require.Contains(t, first.Orchestrator.HTML(), "Made in")
	require.Equal(t, "/admin/products/p-1/characteristics", first.Routes().Page())
}

func TestRegistryConcurrentOpenSeedsOnce(t *testing.T) {
	t.Parallel()

	service := &countingService{seed: productform.Seed{}}
	registry := editors.NewRegistry(service, editors.Config{})

	var wg sync.WaitGroup
	results := make([]*editors.Editor, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = registry.Open(context.Background(), "s", "p", "")
		}(i)
	}
	wg.Wait()

	for i, editor := range results {
		require.NoError(t, errs[i])
		require.Same(t, results[0], editor)
	}
	require.Equal(t, 1, registry.Len())
}

func TestRegistryGetAndClose(t *testing.T) {
	t.Parallel()

	metrics := observability.NewMetrics()
	registry := editors.NewRegistry(&countingService{}, editors.Config{Metrics: metrics})

	_, err := registry.Get("s", "p")
	require.ErrorIs(t, err, editors.ErrEditorNotFound)

	opened, err := registry.Open(context.Background(), "s", "p", "")
	require.NoError(t, err)
	_, err = registry.Open(context.Background(), "s", "q", "")
	require.NoError(t, err)
	_, err = registry.Open(context.Background(), "t", "p", "")
	require.NoError(t, err)

	got, err := registry.Get("s", "p")
	require.NoError(t, err)
	require.Same(t, opened, got)

	registry.Close("s")
	require.Equal(t, 1, registry.Len())
	_, err = registry.Get("s", "p")
	require.ErrorIs(t, err, editors.ErrEditorNotFound)

	expected := `
# HELP catalog_admin_editors_open Editors currently held in memory.
# TYPE catalog_admin_editors_open gauge
catalog_admin_editors_open 1
`
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "catalog_admin_editors_open"))
}

func TestRegistrySeedFailure(t *testing.T) {
	t.Parallel()

	registry := editors.NewRegistry(&countingService{err: catalog.ErrProductNotFound}, editors.Config{})
	_, err := registry.Open(context.Background(), "s", "missing", "")
	require.True(t, errors.Is(err, catalog.ErrProductNotFound))
	require.Zero(t, registry.Len())

	_, err = registry.Open(context.Background(), "s", "  ", "")
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestRegistryExpiresIdleEditors(t *testing.T) {
	t.Parallel()

	registry := editors.NewRegistry(&countingService{}, editors.Config{TTL: 20 * time.Millisecond})
	_, err := registry.Open(context.Background(), "s", "p", "")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := registry.Get("s", "p")
		return errors.Is(err, editors.ErrEditorNotFound)
	}, time.Second, 10*time.Millisecond)
}

func TestRegistrySharesSequence(t *testing.T) {
	t.Parallel()

	seq := productform.NewSequence(func() time.Time { return time.UnixMilli(1000) })
	registry := editors.NewRegistry(&countingService{}, editors.Config{Sequence: seq})

	a, err := registry.Open(context.Background(), "s", "a", "")
	require.NoError(t, err)
	b, err := registry.Open(context.Background(), "s", "b", "")
	require.NoError(t, err)

	require.True(t, productform.AddDescriptionField(a.Store))
	require.True(t, productform.AddDescriptionField(b.Store))
	require.Equal(t, int64(1001), a.Store.GetState().DescriptionForm[0].ID)
	require.Equal(t, int64(1002), b.Store.GetState().DescriptionForm[0].ID)
}

type contextService struct{}

func (contextService) Characteristics(ctx context.Context, token, productID string) (productform.Seed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return productform.Seed{}, nil
}

func TestRegistrySeedOutlivesCanceledRequest(t *testing.T) {
	t.Parallel()

	registry := editors.NewRegistry(contextService{}, editors.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	editor, err := registry.Open(ctx, "s", "p", "")
	require.NoError(t, err)
	require.NotNil(t, editor)
}

func TestRegistryCloseIsNotUndoneByConcurrentGet(t *testing.T) {
	t.Parallel()

	registry := editors.NewRegistry(&countingService{seed: productform.Seed{}}, editors.Config{})
	_, err := registry.Open(context.Background(), "s", "p", "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 200; j++ {
				_, _ = registry.Get("s", "p")
			}
		}()
	}
	close(start)
	registry.Close("s")
	wg.Wait()

	require.Zero(t, registry.Len())
	_, err = registry.Get("s", "p")
	require.ErrorIs(t, err, editors.ErrEditorNotFound)
}
