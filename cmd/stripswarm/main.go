// Command stripswarm stress tests and benchmarks strip pools.
//
// Usage:
//
//	stripswarm swarm --workers 24 --strips 12 --strip-size 32
//	stripswarm bench --json
package main

func main() {
	execute()
}
