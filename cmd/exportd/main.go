// SchoolPulse Exportd serves the daily school attendance dataset to BI
// tools over a single HTTP endpoint.
//
// Usage:
//
//	# Start the server with the default configuration file
//	exportd run
//
//	# Start with a custom configuration file
//	exportd run --config /etc/schoolpulse/exportd.yaml
//
//	# Validate a configuration file without starting
//	exportd validate --config exportd.yaml
//
//	# Show version information
//	exportd version
package main

func main() {
	Execute()
}
