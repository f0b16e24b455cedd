package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyMessage struct{}

func TestInterceptor_CountsByCode(t *testing.T) {
	m := New()

	ok := m.Interceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&emptyMessage{}), nil
	})
	notFound := m.Interceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := ok(ctx, connect.NewRequest(&emptyMessage{}))
		require.NoError(t, err)
	}
	_, err := notFound(ctx, connect.NewRequest(&emptyMessage{}))
	require.Error(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rpcRequests.WithLabelValues("", "not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.rpcDuration))
}

func TestGroupsPruned(t *testing.T) {
	m := New()
	m.GroupsPruned(2)
	m.GroupsPruned(0)
	m.GroupsPruned(3)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.groupsPruned))
}

func TestHandler(t *testing.T) {
	m := New()
	m.GroupsPruned(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), "fairshare_groups_pruned_total 1"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
