package mapmarkers

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/maltiez2/vsmod-mapmarkers"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
