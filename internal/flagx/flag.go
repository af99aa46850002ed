// Package flagx lets several independent flag sets share os.Args: each
// consumer picks out only the flags it owns before calling flag.Parse.
package flagx

import (
	"flag"
	"strings"
)

// ConfigFlags name the JSON config file flag.
var ConfigFlags = []string{"-c", "-config"}

// Pick returns the arguments in args that belong to the named flags, keeping
// their values. Names are given with a single dash; the double-dash spelling
// matches too. Both "-a value" and "-a=value" are recognised; a following
// argument that starts with "-" is never taken as a value.
func Pick(args []string, names []string) []string {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		owned[strings.TrimLeft(n, "-")] = struct{}{}
	}

	picked := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := owned[name]; !ok {
			continue
		}
		picked = append(picked, arg)

		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			picked = append(picked, args[i+1])
			i++
		}
	}

	return picked
}

// ConfigPath returns the config file named by -c or -config in args, or ""
// when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Pick(args, ConfigFlags))

	return path
}
