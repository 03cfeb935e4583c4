package normalize

import (
	"strings"

	"marketquotes/internal/fetcher"
)

// AnomalyKind classifies a provider-signaled non-data condition.
type AnomalyKind int

const (
	AnomalyThrottled AnomalyKind = iota + 1
	AnomalyInformationalNotice
	AnomalyProviderError
	AnomalyEmptyResult
	AnomalyMissingExpectedShape
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyThrottled:
		return "throttled"
	case AnomalyInformationalNotice:
		return "informational_notice"
	case AnomalyProviderError:
		return "provider_error"
	case AnomalyEmptyResult:
		return "empty_result"
	case AnomalyMissingExpectedShape:
		return "missing_expected_shape"
	default:
		return "unknown"
	}
}

// Anomaly is the result of DetectAnomaly. Message is the provider's raw text,
// empty for the shape-based kinds.
type Anomaly struct {
	Kind    AnomalyKind
	Message string
}

// Top-level keys the provider uses for advisory and error text. Order matters.
var signalKeys = []struct {
	key  string
	kind AnomalyKind
}{
	{"Note", AnomalyThrottled},
	{"Information", AnomalyInformationalNotice},
	{"Error Message", AnomalyProviderError},
}

// DetectAnomaly inspects doc for provider failure signals before any field
// extraction. dataKey names the nested object the endpoint is expected to return.
// It returns nil when the document looks like usable data.
func DetectAnomaly(doc Document, dataKey string) *Anomaly {
	for _, sk := range signalKeys {
		if msg, ok := doc[sk.key].(string); ok && strings.TrimSpace(msg) != "" {
			return &Anomaly{Kind: sk.kind, Message: msg}
		}
	}

	obj, ok := doc.object(dataKey)
	if !ok {
		return &Anomaly{Kind: AnomalyMissingExpectedShape}
	}
	if len(obj) == 0 {
		return &Anomaly{Kind: AnomalyEmptyResult}
	}
	return nil
}

// Err converts the anomaly into a classified error. notFound is the message used
// for the empty and missing-shape kinds, which both surface as not found.
func (a *Anomaly) Err(notFound string) error {
	switch a.Kind {
	case AnomalyThrottled:
		return fetcher.NewThrottledError(a.Message)
	case AnomalyInformationalNotice:
		return fetcher.NewInformationalError(a.Message)
	case AnomalyProviderError:
		return fetcher.NewProviderError(a.Message)
	default:
		return fetcher.NewNotFoundError(notFound)
	}
}
