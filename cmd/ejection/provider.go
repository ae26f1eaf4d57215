package main

import (
	"context"
	"fmt"

	"github.com/ChristopherRabotin/ejection/catalog"
	"github.com/ChristopherRabotin/ejection/config"
	kitlog "github.com/go-kit/kit/log"
	_ "github.com/go-sql-driver/mysql"
)

// openProvider returns the configured catalog and the function releasing it.
// The TOML catalog is watched for changes until the context is done if catalog.watch is set.
func openProvider(ctx context.Context, c config.Catalog, logger kitlog.Logger) (catalog.Provider, func() error, error) {
	switch c.Driver {
	case "toml":
		p, err := catalog.NewTOMLProvider(c.Path)
		if err != nil {
			return nil, nil, err
		}
		if c.Watch {
			if err := p.Watch(ctx, logger); err != nil {
				return nil, nil, err
			}
		}
		return p, func() error { return nil }, nil
	case "sqlite", "mysql":
		p, err := catalog.OpenSQL(ctx, c.Driver, c.DSN)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog driver %q", c.Driver)
	}
}
