package config

// Application constants - fixed values for the mpox analysis pipeline
const (
	// Application Info
	AppName    = "mpoxcli"
	AppVersion = "1.0.0"

	// Environment variable prefix (MPOX_LOGGING_LEVEL, MPOX_PATHS_BASE_DIR, ...)
	EnvPrefix = "MPOX"

	// Fixed file locations, relative to the base directory
	DefaultBaseDir         = "."
	DefaultInputCSV        = "data/mpox_data.csv"
	DefaultAnalysisCSV     = "output/mpox_data_analysis.csv"
	DefaultSummaryWorkbook = "output/mpox_summary.xlsx"
	DefaultFiguresDir      = "output/figures"
	DefaultLogsDir         = "logs"

	// Chart file names inside the figures directory
	ChartCasesByRegion    = "total_cases_by_continent.png"
	ChartDeathsByRegion   = "total_deaths_by_continent.png"
	ChartMostRecent       = "most_recent_updates.png"
	ChartTopCases         = "top_10_countries_cases.png"
	ChartTopDeaths        = "top_10_countries_deaths.png"
	ChartPercentageChange = "percentage_change_cases_by_country.png"

	// Analysis defaults
	DefaultTopN          = 10
	DefaultRecentUpdates = 10

	// Chart size in inches
	DefaultChartWidth  = 10.0
	DefaultChartHeight = 6.0

	// Missing value marker in the raw input
	MissingValueToken = "NA"
)

// ChartFiles lists every chart the visualization stage produces, in render order
var ChartFiles = []string{
	ChartCasesByRegion,
	ChartDeathsByRegion,
	ChartMostRecent,
	ChartTopCases,
	ChartTopDeaths,
	ChartPercentageChange,
}
