// Package seeders loads demo data. Seeders register from init() and run in
// registration order with `storefront seed`; each one is safe to re-run.
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// Seeder writes demo rows through db, which is a transaction.
type Seeder func(db *gorm.DB) error

type named struct {
	name string
	run  Seeder
}

var (
	mu       sync.Mutex
	registry []named
)

func Register(name string, s Seeder) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, named{name: name, run: s})
}

// RunAll runs every seeder in its own transaction and reports one line per
// seeder on out. The first failure rolls that seeder back and stops.
func RunAll(db *gorm.DB, out io.Writer) error {
	mu.Lock()
	list := append([]named(nil), registry...)
	mu.Unlock()

	for _, s := range list {
		if err := db.Transaction(s.run); err != nil {
			fmt.Fprintf(out, "  %-12s failed\n", s.name)
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
		fmt.Fprintf(out, "  %-12s ok\n", s.name)
	}
	return nil
}
