package bus_test

import (
	"fmt"

	"github.com/dshills/inkwell/internal/bus"
)

func Example() {
	root := bus.New(bus.WithName("editor"))
	toolbar := bus.New(bus.WithName("toolbar"), bus.WithParent(root))
	canvas := bus.New(bus.WithName("canvas"), bus.WithParent(root))

	_ = canvas.HandleRequest("format.state", func(args any) any {
		return args == "bold"
	})
	_ = root.On("editor.focus", func(any) { fmt.Println("editor saw focus") })
	_ = canvas.On("editor.focus", func(any) { fmt.Println("canvas saw focus") })

	v, ok := toolbar.Request("format.state", "bold")
	fmt.Println(v, ok)

	toolbar.Emit("editor.focus", nil)

	// Output:
	// true true
	// editor saw focus
	// canvas saw focus
}
