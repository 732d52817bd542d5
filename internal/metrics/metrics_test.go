package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Created(KindPerson)
	m.Created(KindPerson)
	m.Deleted(KindPolicy)
	m.Updated(KindPolicy)
	m.Rejected(KindPolicy, "duplicate")
	m.SetMirrorSize(KindPerson, 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsCreated.WithLabelValues(KindPerson)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordsDeleted.WithLabelValues(KindPolicy)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordsUpdated.WithLabelValues(KindPolicy)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FormRejections.WithLabelValues(KindPolicy, "duplicate")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.MirrorSize.WithLabelValues(KindPerson)))
}

func TestIndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.Created(KindLink)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RecordsCreated.WithLabelValues(KindLink)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Created(KindPolicy)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `policydesk_records_created_total{kind="policy"} 1`)
}
