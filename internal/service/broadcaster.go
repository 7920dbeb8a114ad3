package service

// Live feed message types
const (
	MsgResponseSubmitted = "response_submitted"
	MsgAnalysisReady     = "analysis_ready"
	MsgAnalysisFailed    = "analysis_failed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToForm(formID string, msgType string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToForm(string, string, interface{}) {}

func orNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}
