package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

func TestCartMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.Observe(enums.CartOperationAddItem, OutcomeSuccess, 120*time.Millisecond)
	m.Observe(enums.CartOperationAddItem, OutcomeConflict, 10*time.Millisecond)
	m.Observe(enums.CartOperationAddItem, OutcomeSuccess, 5*time.Millisecond)
	m.IncConflict(enums.CartOperationAddItem)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "shopcart_cart_operations_total", map[string]string{"operation": "add_item", "outcome": "success"}); err != nil {
		t.Fatalf("fetch operations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 successful adds, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "shopcart_cart_conflicts_total", map[string]string{"operation": "add_item"}); err != nil {
		t.Fatalf("fetch conflicts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 conflict, got %f", got)
	}

	if got, err := fetchHistogramCount(mfs, "shopcart_cart_operation_duration_seconds", map[string]string{"operation": "add_item"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 3 {
		t.Fatalf("expected 3 duration samples, got %d", got)
	}
}

func TestNilCartMetricsIsNoop(t *testing.T) {
	var m *CartMetrics
	m.Observe(enums.CartOperationClear, OutcomeError, time.Millisecond)
	m.IncConflict(enums.CartOperationClear)

	unregistered := NewCartMetrics(nil)
	unregistered.Observe(enums.CartOperationClear, OutcomeSuccess, time.Millisecond)
	unregistered.IncConflict(enums.CartOperationClear)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramCount(mfs []*dto.MetricFamily, name string, labels map[string]string) (uint64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleCount(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
