package main

import (
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/admin"
	"github.com/aagatsharma/pandey-computer/catalog"
	"github.com/aagatsharma/pandey-computer/content"
	"github.com/aagatsharma/pandey-computer/navbar"
	"github.com/aagatsharma/pandey-computer/order"
)

func main() {
	appOpts := pandey.BuildAppOpts()
	serverOpts := pandey.BuildServerOpts()

	allOpts := append(appOpts, serverOpts...)
	allOpts = append(allOpts,
		admin.Module,
		catalog.Module,
		navbar.Module,
		content.Module,
		order.Module,
	)

	fx.New(allOpts...).Run()
}
