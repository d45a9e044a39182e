package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse  bool
	Encode bool
	Sort   bool
	Diff   bool
	Valid  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("YD_DEBUG_PARSE")
	d.Encode = boolEnv("YD_DEBUG_ENCODE")
	d.Sort = boolEnv("YD_DEBUG_SORT")
	d.Diff = boolEnv("YD_DEBUG_DIFF")
	d.Valid = boolEnv("YD_DEBUG_VALID")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Encode() bool {
	return d.Encode
}
func Sort() bool {
	return d.Sort
}
func Diff() bool {
	return d.Diff
}
func Valid() bool {
	return d.Valid
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
