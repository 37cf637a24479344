package log

import "runtime"

// Source is the location of a logging call.
type Source struct {
	File     string
	Function string
	Line     uint
}

// Record is a single leveled message on its way to a Formatter. It is built
// per call and discarded once formatted.
type Record struct {
	Level   Level
	Message string
	Source  Source
}

// Caller reports the source location skip frames above the caller of Caller.
// Caller(0) describes the function that called Caller.
func Caller(skip int) Source {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Source{File: "???", Function: "???"}
	}
	src := Source{File: file, Line: uint(line)}
	if fn := runtime.FuncForPC(pc); fn != nil {
		src.Function = fn.Name()
	}
	return src
}
