package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordRefresh(t *testing.T) {
	before := testutil.ToFloat64(RefreshTotal.WithLabelValues("success"))
	RecordRefresh("success", 3, 20*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(RefreshTotal.WithLabelValues("success")))
}

func TestSetClientBudget(t *testing.T) {
	SetClientBudget("heavy", 2, time.Second)
	require.Equal(t, 2.0, testutil.ToFloat64(ClientBudget.WithLabelValues("heavy")))
	SetClientBudget("light", 20, 0)
}

func TestStatusClass(t *testing.T) {
	require.Equal(t, "2xx", StatusClass(204))
	require.Equal(t, "4xx", StatusClass(401))
	require.Equal(t, "5xx", StatusClass(502))
	require.Equal(t, "other", StatusClass(0))
}
