package models

// Record is one submitted consent-study response. Payloads are accepted
// as-is beyond the presence checks in the service layer, so the record
// stays a schemaless map and typed access goes through the helpers below.
type Record map[string]any

// Keys recognized on a record. Only FieldFeedback and FieldRatings are
// required at submission time.
const (
	FieldSessionID       = "sessionId"
	FieldTimestamp       = "timestamp"
	FieldServerTimestamp = "server_timestamp"
	FieldFeedback        = "feedback"
	FieldRatings         = "ratings"
	FieldTimeSpent       = "timeSpent"
	FieldInteractions    = "interactions"
)

// Feedback sub-fields.
const (
	FeedbackName        = "participantName"
	FeedbackEmail       = "participantEmail"
	FeedbackDepartment  = "department"
	FeedbackFavorite    = "favorite"
	FeedbackIMostTrust  = "mostTrusted"
	FeedbackWhyFavorite = "favoriteReason"
	FeedbackConcerns    = "concerns"
)

func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// SessionID returns the client-supplied session id, empty when absent.
// Duplicate ids are allowed; the id is only echoed in confirmations.
func (r Record) SessionID() string {
	return asString(r[FieldSessionID])
}

func (r Record) Timestamp() string {
	return asString(r[FieldTimestamp])
}

// Feedback returns the nested feedback object, nil when absent or not
// an object.
func (r Record) Feedback() map[string]any {
	m, _ := r[FieldFeedback].(map[string]any)
	return m
}

// FeedbackField returns a scalar feedback value rendered as a string,
// empty when the feedback object or the field is missing.
func (r Record) FeedbackField(key string) string {
	return asString(r.Feedback()[key])
}

// Ratings returns the variant→rating map with values coerced to float64.
// Non-numeric values are dropped.
func (r Record) Ratings() map[string]float64 {
	m, _ := r[FieldRatings].(map[string]any)
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if f, ok := asFloat(v); ok {
			out[k] = f
		}
	}
	return out
}

// Rating returns the rating for one variant key, 0 when unrated.
func (r Record) Rating(variant string) float64 {
	f, _ := asFloat(r.Ratings()[variant])
	return f
}

// TotalSeconds returns timeSpent.totalSeconds, 0 when absent.
func (r Record) TotalSeconds() float64 {
	m, _ := r[FieldTimeSpent].(map[string]any)
	f, _ := asFloat(m["totalSeconds"])
	return f
}

// InteractionsCount returns the length of the interactions array. The
// interaction records themselves are opaque.
func (r Record) InteractionsCount() int {
	s, _ := r[FieldInteractions].([]any)
	return len(s)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
