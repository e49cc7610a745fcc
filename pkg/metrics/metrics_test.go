package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsConversions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("cudsviz", reg)

	c.ObserveConversion("mesh", 2*time.Millisecond, nil)
	c.ObserveConversion("mesh", time.Millisecond, errors.New("boom"))
	c.AddItems("mesh", 12, 5)
	c.AddBytes("vtk", 1024)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.conversions.WithLabelValues("mesh", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.conversions.WithLabelValues("mesh", OutcomeFailure)))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.itemsConverted.WithLabelValues("mesh", "points")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.itemsConverted.WithLabelValues("mesh", "cells")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(c.bytesWritten.WithLabelValues("vtk")))

	count, err := testutil.GatherAndCount(reg, "cudsviz_conversion_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestJobsInFlight(t *testing.T) {
	c := NewCollector("test", prometheus.NewRegistry())

	done1 := c.JobStarted()
	done2 := c.JobStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.jobsInFlight))
	done1()
	done2()
	assert.Equal(t, 0.0, testutil.ToFloat64(c.jobsInFlight))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("convert")
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
	assert.Equal(t, "convert", timer.Name())
}
