package worker

const (
	defaultWorkers     = 4
	defaultQueueSize   = 256
	maxPayloadLogRunes = 120

	statusOK        = "ok"
	statusFailed    = "failed"
	statusPanic     = "panic"
	statusDropped   = "dropped"
	statusUnhandled = "unhandled"
)
