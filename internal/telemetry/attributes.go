package telemetry

// Probe span attributes set through the spanattrs library. Keys use dots
// only: the library rejects any other separator.
const (
	AttrProbeTarget     = "probe.target"
	AttrProbeMethod     = "probe.method"
	AttrProbeStatusCode = "probe.status.code"
	AttrProbeDurationMS = "probe.duration.ms"
	AttrProbeSuccess    = "probe.success"
	AttrProbeAttempt    = "probe.attempt"
	AttrProbeTags       = "probe.tags"
)
