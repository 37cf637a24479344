package log_test

import (
	"fmt"

	"github.com/bft-labs/oslog/pkg/log"
	"github.com/bft-labs/oslog/pkg/log/logtest"
)

// ExampleLog_LogAt shows the default formatter's output.
func ExampleLog_LogAt() {
	rec := logtest.NewRecorder()
	l := log.New(rec, "com.example.app", "app")

	l.LogAt(log.LevelError, log.Source{File: "/a/b/Foo.ext", Line: 42}, func() string { return "boom" })

	for _, e := range rec.Emits() {
		fmt.Println(e.Level, e.Text)
	}
	// Output: error [error] (Foo.ext:42) boom
}

// ExampleLog_BeginInterval shows a begin/end signpost pair.
func ExampleLog_BeginInterval() {
	rec := logtest.NewRecorder()
	timing := log.New(rec, "com.example.app", "timing")

	iv := timing.BeginInterval("work")
	iv.End()

	for _, m := range rec.Markers() {
		fmt.Println(m.Type, m.Name, m.ID)
	}
	// Output:
	// begin work 1
	// end work 1
}
