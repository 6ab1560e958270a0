package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/illuscio-dev/apiwire-go/mimetype"
)

var (
	faultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apiwire",
		Name:      "faults_total",
		Help:      "Fault responses rendered, by fault name and status code",
	}, []string{"fault", "code"})

	negotiatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "apiwire",
		Name:      "negotiated_content_types_total",
		Help:      "Responses rendered, by negotiated content type",
	}, []string{"media_type"})

	versionRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "apiwire",
		Name:      "version_rejections_total",
		Help:      "Requests asking for an unsupported version through the Accept header",
	})

	serializationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "apiwire",
		Name:      "serialization_failures_total",
		Help:      "Action results that could not be serialized",
	})
)

func recordFault(name string, code int) {
	faultsTotal.WithLabelValues(name, strconv.Itoa(code)).Inc()
}

func recordNegotiated(mimeType mimetype.MimeType) {
	negotiatedTotal.WithLabelValues(mimeType.Extension()).Inc()
}

func recordVersionRejection() {
	versionRejectionsTotal.Inc()
}

func recordSerializationFailure() {
	serializationFailuresTotal.Inc()
}
