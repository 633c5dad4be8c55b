package nserve_test

import (
	"context"
	"fmt"

	"github.com/muir/nfallback/nserve"
)

func library(app *nserve.App, name string, startErr error) {
	fmt.Println(name, "created")
	app.On(nserve.Start, func(_ context.Context, app *nserve.App) error {
		app.On(nserve.Stop, func(context.Context, *nserve.App) error {
			fmt.Println(name, "stopped")
			return fmt.Errorf("%s stop error", name)
		})
		fmt.Println(name, "started")
		return startErr
	})
}

// Example shows the startup of an app with three libraries where
// the second one fails to start.  The third is never started and
// the first two are stopped in reverse order.
func Example() {
	app := nserve.NewApp(context.Background())
	library(app, "L1", nil)
	library(app, "L2", fmt.Errorf("L2 start error"))
	library(app, "L3", nil)
	err := app.Do(nserve.Start)
	fmt.Println("do start error:", err)
	// Output: L1 created
	// L2 created
	// L3 created
	// L1 started
	// L2 started
	// L2 stopped
	// L1 stopped
	// do start error: L2 start error; L2 stop error; L1 stop error
}
