package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Decode      bool
	Scheme      bool
	Analyze     bool
	Layout      bool
	Materialize bool
}

var d *debug

func init() {
	d = &debug{}
	d.Decode = boolEnv("GT_DEBUG_DECODE")
	d.Scheme = boolEnv("GT_DEBUG_SCHEME")
	d.Analyze = boolEnv("GT_DEBUG_ANALYZE")
	d.Layout = boolEnv("GT_DEBUG_LAYOUT")
	d.Materialize = boolEnv("GT_DEBUG_MATERIALIZE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Decode() bool {
	return d.Decode
}
func Scheme() bool {
	return d.Scheme
}
func Analyze() bool {
	return d.Analyze
}
func Layout() bool {
	return d.Layout
}
func Materialize() bool {
	return d.Materialize
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
