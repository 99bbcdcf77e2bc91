package prometheusmetrics

import (
	"github.com/buzzoola/hbrtb/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var mediaTypeValues = []string{"video", "native"}

func preloadLabelValues(m *Metrics) {
	requestStatusValues := requestStatusesAsString()
	outcomeStatusValues := outcomeStatusesAsString()
	rejectReasonValues := rejectReasonsAsString()

	preloadLabelValuesForCounter(m.connectionsError, map[string][]string{
		connectionErrorLabel: {connectionAcceptError, connectionCloseError},
	})

	preloadLabelValuesForCounter(m.requests, map[string][]string{
		requestStatusLabel: requestStatusValues,
	})

	preloadLabelValuesForHistogram(m.requestsTimer, map[string][]string{
		requestStatusLabel: requestStatusValues,
	})

	preloadLabelValuesForCounter(m.impressions, map[string][]string{
		mediaTypeLabel: mediaTypeValues,
	})

	preloadLabelValuesForCounter(m.outcomes, map[string][]string{
		outcomeStatusLabel: outcomeStatusValues,
		rejectReasonLabel:  rejectReasonValues,
	})

	preloadLabelValuesForHistogram(m.bidPrices, map[string][]string{
		mediaTypeLabel: mediaTypeValues,
	})
}

func preloadLabelValuesForCounter(counter *prometheus.CounterVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		counter.With(labels)
	})
}

func preloadLabelValuesForHistogram(histogram *prometheus.HistogramVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		histogram.With(labels)
	})
}

func registerLabelPermutations(labelsWithValues map[string][]string, register func(prometheus.Labels)) {
	if len(labelsWithValues) == 0 {
		return
	}

	keys := make([]string, 0, len(labelsWithValues))
	values := make([][]string, 0, len(labelsWithValues))
	for k, v := range labelsWithValues {
		keys = append(keys, k)
		values = append(values, v)
	}

	labels := prometheus.Labels{}
	registerLabelPermutationsRecursive(0, keys, values, labels, register)
}

func registerLabelPermutationsRecursive(depth int, keys []string, values [][]string, labels prometheus.Labels, register func(prometheus.Labels)) {
	label := keys[depth]
	isLeaf := depth == len(keys)-1

	if isLeaf {
		for _, v := range values[depth] {
			labels[label] = v
			register(cloneLabels(labels))
		}
	} else {
		for _, v := range values[depth] {
			labels[label] = v
			registerLabelPermutationsRecursive(depth+1, keys, values, labels, register)
		}
	}
}

func cloneLabels(labels prometheus.Labels) prometheus.Labels {
	clone := prometheus.Labels{}
	for k, v := range labels {
		clone[k] = v
	}
	return clone
}

func requestStatusesAsString() []string {
	values := metrics.RequestStatuses()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func outcomeStatusesAsString() []string {
	values := metrics.OutcomeStatuses()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func rejectReasonsAsString() []string {
	values := metrics.RejectReasons()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}
