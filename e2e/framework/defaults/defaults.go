package defaults

const (
	// ConfigFileEnv names the environment variable with the path to the suite configuration file
	ConfigFileEnv = "UITEST_CONFIG_FILE"

	// DescribePrefix namespaces all suite specs
	DescribePrefix = "[uitest] "

	// SuiteLabel is the Allure suite label of all suite tests
	SuiteLabel = "uitest"
)
