package interfaces

// IMetrics receives lifecycle counters.
type IMetrics interface {
	TransitionRecorded(action, result string)
	TokenValidated(result string)
	NotificationSent(kind, result string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) TransitionRecorded(string, string) {}
func (NopMetrics) TokenValidated(string)             {}
func (NopMetrics) NotificationSent(string, string)   {}
