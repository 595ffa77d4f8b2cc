package catalog_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"finitefield.org/catalog-admin/internal/admin/catalog"
	"finitefield.org/catalog-admin/internal/admin/productform"
)

func TestSenderLogsOutcomes(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	submitter := &catalog.StaticSubmitter{Response: []byte(`{"id":"d-1"}`)}

	var mu sync.Mutex
	outcomes := map[int64]catalog.Outcome{}
	sender := catalog.NewSender(submitter, zap.New(core), catalog.WithOutcomeHook(func(sub catalog.Submission, outcome catalog.Outcome) {
		mu.Lock()
		outcomes[sub.EntryID] = outcome
		mu.Unlock()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	sender.Send(ctx, catalog.Submission{ProductID: "sku-1", FormType: productform.FormDescription, EntryID: 1})
	cancel()
	sender.Wait()

	require.Len(t, submitter.Submissions(), 1)
	require.Equal(t, catalog.OutcomeSuccess, outcomes[1])
	entries := logs.FilterMessage("data sent successfully").All()
	require.Len(t, entries, 1)
	require.Equal(t, "sku-1", entries[0].ContextMap()["product_id"])
}

func TestSenderLogsFailure(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	submitter := &catalog.StaticSubmitter{Err: errors.New("connection refused")}

	var got catalog.Outcome
	sender := catalog.NewSender(submitter, zap.New(core), catalog.WithOutcomeHook(func(_ catalog.Submission, outcome catalog.Outcome) {
		got = outcome
	}))
	sender.Send(context.Background(), catalog.Submission{FormType: productform.FormFeatures, EntryID: 2})
	sender.Wait()

	require.Equal(t, catalog.OutcomeFailure, got)
	require.Equal(t, 1, logs.FilterMessage("data submission failed").Len())
}

func TestNilSenderIsNoop(t *testing.T) {
	t.Parallel()

	var sender *catalog.Sender
	sender.Send(context.Background(), catalog.Submission{})
	sender.Wait()
}

func TestSenderLogsResponseBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response []byte
		want     string
	}{
		{name: "body without summary keys", response: []byte(`{"ok":true}`), want: `{"ok":true}`},
		{name: "long body is cut", response: []byte(`"` + strings.Repeat("x", 10000) + `"`), want: `"` + strings.Repeat("x", 4095)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			sender := catalog.NewSender(&catalog.StaticSubmitter{Response: tc.response}, zap.New(core))
			sender.Send(context.Background(), catalog.Submission{FormType: productform.FormFeatures, EntryID: 3})
			sender.Wait()

			entries := logs.FilterMessage("data sent successfully").All()
			require.Len(t, entries, 1)
			require.Equal(t, tc.want, entries[0].ContextMap()["response_body"])
		})
	}
}

type gatedSubmitter struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedSubmitter) Submit(ctx context.Context, sub catalog.Submission) (catalog.Result, error) {
	close(g.started)
	<-g.release
	return catalog.Result{Status: 200}, nil
}

func TestSenderDrain(t *testing.T) {
	t.Parallel()

	submitter := &gatedSubmitter{started: make(chan struct{}), release: make(chan struct{})}
	sender := catalog.NewSender(submitter, zap.NewNop())
	sender.Send(context.Background(), catalog.Submission{FormType: productform.FormImages, EntryID: 4})
	<-submitter.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, sender.Drain(ctx), context.DeadlineExceeded)

	close(submitter.release)
	require.NoError(t, sender.Drain(context.Background()))
}
