package overhead

import (
	"fmt"
	"math"
)

// Config holds the iteration domains of a comparison run
type Config struct {
	Regions   []int   // Region counts, one chart each (default: 100, 200, 400)
	Threads   []int   // Thread counts, in chart order (default: 2, 4, 8, 16)
	Reference float64 // Acceptable overhead threshold in percent (default: 5 when unset)
}

// DefaultConfig returns the domains the NMT benchmark is run with
func DefaultConfig() Config {
	return Config{
		Regions:   []int{100, 200, 400},
		Threads:   []int{2, 4, 8, 16},
		Reference: 5,
	}
}

// Validate checks the configuration and applies defaults where needed
func (c *Config) Validate() error {
	def := DefaultConfig()

	if len(c.Regions) == 0 {
		c.Regions = def.Regions
	}
	if len(c.Threads) == 0 {
		c.Threads = def.Threads
	}
	if c.Reference == 0 {
		c.Reference = def.Reference
	}
	if c.Reference < 0 || math.IsNaN(c.Reference) || math.IsInf(c.Reference, 0) {
		return fmt.Errorf("reference must be a positive percentage, got %g", c.Reference)
	}

	if err := validateDomain("region", c.Regions); err != nil {
		return err
	}
	return validateDomain("thread", c.Threads)
}

func validateDomain(name string, values []int) error {
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if v <= 0 {
			return fmt.Errorf("%s count must be positive, got %d", name, v)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("duplicate %s count %d", name, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
