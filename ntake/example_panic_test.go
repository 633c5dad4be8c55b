package ntake_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/muir/nfallback/ntake"
)

func ExampleRecoverStack() {
	f := func(i int) (err error) {
		defer ntake.SetErrorOnPanic(&err, ntake.NoLogger())
		return func() error {
			switch i {
			case 0:
				panic("zero")
			case 1:
				return fmt.Errorf("a one")
			default:
				return nil
			}
		}()
	}
	err := f(0)
	fmt.Println(err)
	stack := ntake.RecoverStack(err)
	fmt.Println(strings.Contains(stack, "SetErrorOnPanic"))
	fmt.Println(ntake.RecoverInterface(err))
	fmt.Println(ntake.RecoverStack(f(1)) == "")
	// Output: panic: zero
	// true
	// zero
	// true
}

func ExampleCatchPanic() {
	take := ntake.CatchPanic(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		panic(fmt.Sprintf("cannot handle %s", r.URL.Path))
	}), ntake.NoLogger())
	_, err := take.Act(httptest.NewRequest("GET", "/x", nil))
	fmt.Println(err)
	// Output: panic: cannot handle /x
}
