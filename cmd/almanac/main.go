// Almanac parses Clausewitz engine script files (Hearts of Iron IV, Stellaris)
// into generic trees and typed records.
//
// Usage:
//
//	# Print the canonical form of a script file
//	almanac parse history/countries/GER.txt
//
//	# Aggregate a directory into stem -> pairs
//	almanac dump /path/to/hoi4 history/countries --output json
//
//	# Detect the game and summarize its typed records
//	almanac inspect /path/to/hoi4
//
//	# Persist an aggregation run into the SQLite catalog
//	almanac index /path/to/hoi4 --db data/almanac.db
//
//	# Re-aggregate on change and serve Prometheus metrics
//	almanac watch /path/to/hoi4 events --metrics-addr :9090
package main

func main() {
	Execute()
}
