package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("log-level", "l", "", "Log level: debug, info, warn or error")
	flags.StringP("store-path", "s", "", "SQLite database file (default ~/.staffing-mcp/staffing.db)")

	flags.Int("search-default-limit", 0, "Result limit used when a search omits one")
	flags.Int("search-max-limit", 0, "Largest accepted search limit")
	flags.Int("search-position-workers", 0, "Positions ranked concurrently per search (1 = sequential)")

	flags.StringP("keywords-recompute-mode", "m", "", "Employee keyword recomputation: sync or async")
	flags.Int("keywords-recompute-workers", 0, "Worker pool size for async recomputation")
	flags.Duration("keywords-recompute-timeout", 0, "Time limit for one employee keyword recomputation")
	flags.Int("keywords-recompute-retries", 0, "Retries of a failed employee keyword recomputation")
}
