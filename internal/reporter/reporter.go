package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	RunStarted(info RunStartInfo)
	CategoryStarted(info CategoryStartInfo)
	VideoAnalyzed(result VideoResult)
	CategoryComplete(summary CategorySummary)
	RunComplete(summary RunSummary)
	Warning(message string)
	Error(err ReporterError)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) RunStarted(RunStartInfo)           {}
func (NullReporter) CategoryStarted(CategoryStartInfo) {}
func (NullReporter) VideoAnalyzed(VideoResult)         {}
func (NullReporter) CategoryComplete(CategorySummary)  {}
func (NullReporter) RunComplete(RunSummary)            {}
func (NullReporter) Warning(string)                    {}
func (NullReporter) Error(ReporterError)               {}
func (NullReporter) Verbose(string)                    {}
