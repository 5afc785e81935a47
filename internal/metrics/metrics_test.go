package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsChecks(t *testing.T) {
	//** Arrange
	recorder := NewRecorder()

	//** Act
	recorder.Checked(sat.Satisfiable)
	recorder.SolutionFound(1)
	recorder.Checked(sat.Satisfiable)
	recorder.SolutionFound(2)
	recorder.Checked(sat.Unsatisfiable)

	//** Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.checks.WithLabelValues("sat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.checks.WithLabelValues("unsat")))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.solutions))
}

func TestRecorderFinished(t *testing.T) {
	//** Arrange
	recorder := NewRecorder()

	//** Act
	recorder.Finished(planner.Result{Raw: 7, Distinct: 5, Outcome: planner.Exhausted})

	//** Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.enumerations.WithLabelValues("exhausted")))
	assert.Equal(t, 7.0, testutil.ToFloat64(recorder.solutions))
	assert.Equal(t, 5.0, testutil.ToFloat64(recorder.distinct))
}

func TestRecorderHandler(t *testing.T) {
	//** Arrange
	recorder := NewRecorder()
	recorder.Checked(sat.Unknown)
	server := httptest.NewServer(recorder.Handler())
	defer server.Close()

	//** Act
	response, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, string(body), `studyplan_checks_total{status="unknown"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
