package config

// Application constants
const (
	AppName    = "loadprofile"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment overrides, e.g. LOADPROFILE_PIPELINE_LOSS_FACTOR.
	EnvPrefix = "LOADPROFILE"

	// Input schema
	DefaultFileExtension   = ".xlsx"
	DefaultTimestampColumn = "Timestamp"
	DefaultPowerColumn     = "Power [kW]"

	// DefaultTimestampLayout accepts DD.MM.YYYY HH:MM; day, month and hour
	// may also be written with a single digit.
	DefaultTimestampLayout = "2.1.2006 15:04"

	// DefaultLossFactor is the nominal efficiency divisor that projects
	// metered power onto loss-inclusive power.
	DefaultLossFactor = 0.8648

	// DefaultGridMinutes is the resampling grid of the 24h profile.
	DefaultGridMinutes = 10

	// Outputs, relative to the input folder
	DefaultSummaryDir  = "Summary"
	DefaultSummaryFile = "Summary.xlsx"
	DefaultProfileFile = "profile.csv"
	DefaultChartFile   = "profile.pdf"

	DefaultLogFile = "logs/loadprofile.log"

	// LockFilePrefix marks Office owner files that sit next to open workbooks.
	LockFilePrefix = "~$"
)
