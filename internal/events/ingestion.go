package events

var (
	IngestionStartTopic = "IngestionStartEvent"
	IngestionStopTopic  = "IngestionStopEvent"
)

// IngestionStart is published by the bot when an operator issues /run.
type IngestionStart struct {
	RequestedBy int64
}

// IngestionStop is published by the bot when an operator issues /stop.
type IngestionStop struct {
	RequestedBy int64
}
