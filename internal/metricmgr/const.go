package metricmgr

type Metric string

const (
	CommandFlags    Metric = "commandFlags"
	ObjectsFetched  Metric = "objectsFetched"
	PreflightChecks Metric = "preflightChecks"
	ValidatorRuns   Metric = "validatorRuns"

	OutputBytes     Metric = "outputBytes"
	ObjectsArchived Metric = "objectsArchived"
)

var allMetrics = []Metric{
	CommandFlags,
	ObjectsFetched,
	PreflightChecks,
	ValidatorRuns,
	OutputBytes,
	ObjectsArchived,
}
