package arena_test

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hotkit/arena"
)

func Example() {
	a, err := arena.New(make([]byte, 1024))
	if err != nil {
		panic(err)
	}

	_, buf, _ := a.Push(5, 1)
	copy(buf, "hello")
	fmt.Println(string(buf), a.Position())

	tmp := arena.Begin(a)
	_, _, _ = a.Push(100, 8)
	tmp.End()
	fmt.Println(a.Position())

	_, _, err = a.Push(4096, 8)
	fmt.Println(errors.Is(err, arena.ErrExhausted))

	// Output:
	// hello 21
	// 21
	// true
}
